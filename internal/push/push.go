package push

import (
	"context"

	"bloodlink-backend/internal/logger"
)

// Sender delivers a push notification to one device. Delivery is
// best-effort; the dispatcher logs and swallows failures.
type Sender interface {
	Send(ctx context.Context, deviceToken, title, body string, data map[string]string) error
}

// NoopSender is used when no push provider is configured (local development,
// tests). It only logs.
type NoopSender struct{}

func NewNoopSender() *NoopSender {
	return &NoopSender{}
}

func (s *NoopSender) Send(ctx context.Context, deviceToken, title, body string, data map[string]string) error {
	logger.Debug("Push notification skipped (noop sender)", "title", title)
	return nil
}
