// FILE: internal/service/activity_service.go
package service

import (
	"context"

	"gymflow-be/internal/pkg/logger"
	"gymflow-be/pkg/events"
	pktNats "gymflow-be/pkg/nats"

	"github.com/google/uuid"
)

// ActivityService relays membership events from the bus to the owner's front-desk feed, so a
// renewal done at one desk shows up at every other desk and instance.
type ActivityService struct {
	subscriber *pktNats.Subscriber
	delivery   FeedDelivery
	logger     logger.ILogger
}

func NewActivityService(sub *pktNats.Subscriber, delivery FeedDelivery, log logger.ILogger) *ActivityService {
	return &ActivityService{
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start is a no-op without a broker.
func (s *ActivityService) Start(ctx context.Context) {
	if s.subscriber == nil {
		s.logger.Warn("ActivityService", "No event subscriber, membership activity feed disabled", nil)
		return
	}
	for _, pattern := range []string{"member.>", "membership.>"} {
		durable := "gymflow-activity-" + pattern[:len(pattern)-2]
		if err := s.subscriber.Subscribe(ctx, pattern, durable, s.HandleEvent); err != nil {
			s.logger.Error("ActivityService", "Failed to subscribe", map[string]interface{}{"pattern": pattern, "error": err.Error()})
			return
		}
	}
	s.logger.Info("ActivityService", "Listening for membership activity", nil)
}

// HandleEvent forwards one event. Events without a usable owner are dropped, not retried.
func (s *ActivityService) HandleEvent(ctx context.Context, event events.Event) error {
	payload := event.Payload()
	rawOwner, _ := payload["owner_id"].(string)
	ownerId, err := uuid.Parse(rawOwner)
	if err != nil {
		s.logger.Warn("ActivityService", "Event without owner", map[string]interface{}{"type": event.EventType()})
		return nil
	}

	s.delivery.Send(ownerId, "activity", map[string]interface{}{
		"event":      event.EventType(),
		"occurredAt": event.Timestamp(),
		"data":       payload,
	})
	return nil
}
