package messaging

import (
	"context"

	"careerhub-api/internal/core/domain"

	"go.uber.org/zap"
)

// LogPublisher writes events to the application log. It is the default driver.
type LogPublisher struct {
	log *zap.Logger
}

func NewLogPublisher(log *zap.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, event domain.Event) error {
	p.log.Info("notification",
		zap.String("event_id", event.ID),
		zap.String("type", string(event.Type)),
		zap.Uint("user_id", event.UserID),
		zap.String("email", event.Email),
		zap.Any("payload", event.Payload),
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
