package notify

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/errorutils"
	"firebase.google.com/go/v4/messaging"
	"github.com/cenkalti/backoff/v5"
	"google.golang.org/api/option"
)

// MessagingClient is the slice of *messaging.Client the sender needs.
type MessagingClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// FCMConfig selects the Firebase project and service-account credentials.
// ProjectID may be empty when the credentials file carries one.
type FCMConfig struct {
	ProjectID       string
	CredentialsFile string
}

// FCMSender delivers through the FCM HTTP v1 API.
type FCMSender struct {
	Client MessagingClient
}

// NewFCMSender builds a Firebase app from cfg and returns a sender backed by
// its messaging client. Extra options are passed to the Firebase app.
func NewFCMSender(ctx context.Context, cfg FCMConfig, opts ...option.ClientOption) (*FCMSender, error) {
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	var fbCfg *firebase.Config
	if cfg.ProjectID != "" {
		fbCfg = &firebase.Config{ProjectID: cfg.ProjectID}
	}
	app, err := firebase.NewApp(ctx, fbCfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("fcm: init app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("fcm: init messaging: %w", err)
	}
	return &FCMSender{Client: client}, nil
}

func (s *FCMSender) Send(ctx context.Context, msg Message) error {
	_, err := s.Client.Send(ctx, &messaging.Message{
		Token: msg.DeviceToken,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
	})
	if err == nil {
		return nil
	}

	switch {
	case messaging.IsUnregistered(err), errorutils.IsInvalidArgument(err), messaging.IsSenderIDMismatch(err):
		return backoff.Permanent(fmt.Errorf("%w: %v", ErrInvalidDeviceToken, err))
	case messaging.IsThirdPartyAuthError(err), errorutils.IsPermissionDenied(err), errorutils.IsUnauthenticated(err):
		// Credentials problem; retrying will not help.
		return backoff.Permanent(fmt.Errorf("fcm: %w", err))
	default:
		return fmt.Errorf("fcm: send: %w", err)
	}
}
