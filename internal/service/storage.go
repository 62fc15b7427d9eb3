package service

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"

	appErrors "github.com/vyservice/ops-api/pkg/errors"
)

// wrapStorage classifies repository failures. Timeouts and connection
// loss become the retryable STORAGE_UNAVAILABLE condition so clients can
// distinguish infrastructure trouble from permanent rejections.
func wrapStorage(err error, message string) error {
	if isUnavailable(err) {
		return appErrors.Wrap(err, appErrors.ErrStorageUnavailable.Code, appErrors.ErrStorageUnavailable.Status, appErrors.ErrStorageUnavailable.Message)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

func isUnavailable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
