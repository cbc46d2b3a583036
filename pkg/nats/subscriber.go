package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"gymflow-be/pkg/events"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

type EventHandler func(ctx context.Context, event events.Event) error

// Subscriber consumes domain events through a durable JetStream consumer.
type Subscriber struct {
	nc      *nats.Conn
	js      jetstream.JetStream
	consume []jetstream.ConsumeContext
}

func NewSubscriber(url string) (*Subscriber, error) {
	nc, js, err := connect(url)
	if err != nil {
		return nil, err
	}
	return &Subscriber{nc: nc, js: js}, nil
}

// Subscribe binds handler to every event whose type matches pattern ("membership.>", "*.*").
func (s *Subscriber) Subscribe(ctx context.Context, pattern, durableName string, handler EventHandler) error {
	consumer, err := s.js.CreateOrUpdateConsumer(ctx, StreamName, jetstream.ConsumerConfig{
		Durable:       durableName,
		FilterSubject: SubjectPrefix + pattern,
		AckPolicy:     jetstream.AckExplicitPolicy,
	})
	if err != nil {
		return fmt.Errorf("failed to create consumer: %w", err)
	}

	cc, err := consumer.Consume(func(msg jetstream.Msg) {
		var env envelope
		if err := json.Unmarshal(msg.Data(), &env); err != nil {
			log.Printf("Error unmarshalling event on %s: %v", msg.Subject(), err)
			// Redelivery would fail the same way.
			_ = msg.Term()
			return
		}

		event := events.BaseEvent{Type: env.Type, Data: env.Data, OccurredAt: env.OccurredAt}
		if err := handler(context.Background(), event); err != nil {
			log.Printf("Handler failed for event %s: %v", msg.Subject(), err)
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	})
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	s.consume = append(s.consume, cc)
	return nil
}

func (s *Subscriber) Close() {
	for _, cc := range s.consume {
		cc.Stop()
	}
	if s.nc != nil {
		s.nc.Close()
	}
}
