package service

import (
	"context"

	"gymflow-be/internal/pkg/logger"
	"gymflow-be/pkg/events"
)

// EventPublisher is the outbound event bus (NATS JetStream in production).
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// publishAfterCommit is best effort: the state change is already durable, so a bus failure is
// only logged.
func publishAfterCommit(ctx context.Context, pub EventPublisher, log logger.ILogger, event events.Event) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, event); err != nil {
		log.Warn("EventBus", "Failed to publish event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
}
