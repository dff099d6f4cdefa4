package push

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/sony/gobreaker"
	"google.golang.org/api/option"

	"bloodlink-backend/internal/config"
	"bloodlink-backend/internal/logger"
)

// FCMSender delivers push notifications through Firebase Cloud Messaging.
// Calls go through a circuit breaker so a broken FCM connection cannot pile
// up slow failures inside lifecycle operations.
type FCMSender struct {
	client *messaging.Client
	cb     *gobreaker.CircuitBreaker
}

func NewFCMSender(ctx context.Context, credentialsFile string) (*FCMSender, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, err
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, err
	}
	return &FCMSender{
		client: client,
		cb:     config.NewCircuitBreaker("FCM-Push"),
	}, nil
}

func (s *FCMSender) Send(ctx context.Context, deviceToken, title, body string, data map[string]string) error {
	logger.ExternalServiceCall("FCM", "Send", "title", title)
	_, err := s.cb.Execute(func() (interface{}, error) {
		return s.client.Send(ctx, &messaging.Message{
			Token: deviceToken,
			Notification: &messaging.Notification{
				Title: title,
				Body:  body,
			},
			Data: data,
		})
	})
	logger.ExternalServiceResult("FCM", "Send", err)
	return err
}
