package push

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Sender delivers a push alert to one device token. Used by the notification
// dispatcher for receivers with no live websocket connection.
type Sender interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}

type FCMSender struct {
	client *messaging.Client
	log    *zap.Logger
}

func NewFCM(ctx context.Context, credentialsFile string, log *zap.Logger) (*FCMSender, error) {
	if credentialsFile == "" {
		return nil, fmt.Errorf("firebase credentials file is required")
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("initializing firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting messaging client: %w", err)
	}

	log.Info("FCM push sender initialized")
	return &FCMSender{client: client, log: log}, nil
}

func (s *FCMSender) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	id, err := s.client.Send(ctx, msg)
	if err != nil {
		s.log.Warn("FCM send failed", zap.Error(err))
		return err
	}
	s.log.Debug("FCM message sent", zap.String("message_id", id))
	return nil
}

// Noop is used when no Firebase credentials are configured; delivery then
// happens over the websocket channel only.
type Noop struct{}

func (Noop) Send(context.Context, string, string, string, map[string]string) error { return nil }
