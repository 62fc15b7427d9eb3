package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const fast2smsURL = "https://www.fast2sms.com/dev/bulkV2"

// Fast2SMSSender delivers plain SMS through the Fast2SMS bulk API. It
// is the fallback channel for customers not reachable on WhatsApp.
type Fast2SMSSender struct {
	client *http.Client
	apiKey string
	logger *zap.Logger
}

// NewFast2SMSSender constructs the sender, or nil without an API key.
func NewFast2SMSSender(apiKey string, logger *zap.Logger) *Fast2SMSSender {
	if apiKey == "" {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fast2SMSSender{
		client: &http.Client{Timeout: 15 * time.Second},
		apiKey: apiKey,
		logger: logger,
	}
}

func (s *Fast2SMSSender) Name() string { return "sms" }

type fast2smsResponse struct {
	Return  bool   `json:"return"`
	Message string `json:"message"`
}

// Send posts one SMS. Fast2SMS wants bare local numbers.
func (s *Fast2SMSSender) Send(ctx context.Context, phone, message string) error {
	form := url.Values{}
	form.Set("route", "q")
	form.Set("message", message)
	form.Set("numbers", LocalPart(phone))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fast2smsURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build sms request: %w", err)
	}
	req.Header.Set("Authorization", s.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send sms: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	if resp.StatusCode >= 300 {
		s.logger.Warn("sms send rejected", zap.Int("status", resp.StatusCode), zap.ByteString("body", body))
		return fmt.Errorf("fast2sms status %d", resp.StatusCode)
	}

	var parsed fast2smsResponse
	if err := json.Unmarshal(body, &parsed); err == nil && !parsed.Return {
		return fmt.Errorf("fast2sms refused: %s", parsed.Message)
	}
	return nil
}
