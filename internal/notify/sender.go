package notify

import "context"

// Sender delivers one message to one normalized phone number.
type Sender interface {
	Name() string
	Send(ctx context.Context, phone, message string) error
}
