// Package notify delivers push notifications for account events. Delivery is
// best-effort and never on the request path: callers hand a Message to the
// Dispatcher and move on.
package notify

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bookeez/accounts/pkg/cryptox"
)

// Message is one push to one device.
type Message struct {
	UserID      string
	DeviceToken string
	Title       string
	Body        string
}

// Sender performs a single delivery attempt.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, msg Message) error

func (f SenderFunc) Send(ctx context.Context, msg Message) error { return f(ctx, msg) }

// ErrInvalidDeviceToken is returned when the push service rejects the device
// token itself. It is never retried.
var ErrInvalidDeviceToken = errors.New("notify: invalid device token")

// LogSender writes pushes to the log instead of delivering them. It is the
// default in development.
type LogSender struct {
	Logger *slog.Logger
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	log := s.Logger
	if log == nil {
		log = slog.Default()
	}
	log.InfoContext(ctx, "push notification",
		"user_id", msg.UserID,
		"device", cryptox.FingerprintToken(msg.DeviceToken),
		"title", msg.Title,
	)
	return nil
}
