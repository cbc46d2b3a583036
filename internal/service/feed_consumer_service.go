// FILE: internal/service/feed_consumer_service.go
package service

import (
	"context"
	"encoding/json"

	"gymflow-be/internal/dto"
	"gymflow-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// FeedDelivery pushes a message to every live front-desk connection of an owner.
// Implemented by the websocket hub.
type FeedDelivery interface {
	Send(ownerId uuid.UUID, msgType string, data interface{})
}

type IFeedConsumerService interface {
	Consume(ctx context.Context) error
}

type feedConsumerService struct {
	subscriber message.Subscriber
	topicName  string
	delivery   FeedDelivery
	logger     logger.ILogger
}

func NewFeedConsumerService(subscriber message.Subscriber, topicName string, delivery FeedDelivery, log logger.ILogger) IFeedConsumerService {
	return &feedConsumerService{
		subscriber: subscriber,
		topicName:  topicName,
		delivery:   delivery,
		logger:     log,
	}
}

func (cs *feedConsumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *feedConsumerService) processMessage(msg *message.Message) {
	var payload dto.CheckinFeedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("FeedConsumer", "Failed to unmarshal feed message", map[string]interface{}{"error": err.Error()})
		// Redelivery would fail the same way.
		msg.Ack()
		return
	}

	cs.delivery.Send(payload.OwnerId, "checkin", payload.Checkin)
	msg.Ack()
}
