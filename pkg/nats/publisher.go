package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"gymflow-be/pkg/events"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	StreamName    = "GYMFLOW_EVENTS"
	SubjectPrefix = "gymflow."
)

// Publisher sends domain events to JetStream. A nil *Publisher drops events silently,
// so the server keeps working without a broker.
type Publisher struct {
	nc *nats.Conn
	js jetstream.JetStream
}

func connect(url string) (*nats.Conn, jetstream.JetStream, error) {
	nc, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}
	return nc, js, nil
}

func NewPublisher(url string) (*Publisher, error) {
	nc, js, err := connect(url)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      StreamName,
		Subjects:  []string{SubjectPrefix + ">"},
		Storage:   jetstream.FileStorage,
		Retention: jetstream.LimitsPolicy,
		MaxAge:    30 * 24 * time.Hour,
	})
	if err != nil {
		log.Printf("Warn: Failed to ensure stream '%s': %v", StreamName, err)
	}

	return &Publisher{nc: nc, js: js}, nil
}

func (p *Publisher) Publish(ctx context.Context, event events.Event) error {
	if p == nil || p.js == nil {
		return nil
	}

	data, err := json.Marshal(envelope{
		Type:       event.EventType(),
		OccurredAt: event.Timestamp(),
		Data:       event.Payload(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	subject := SubjectPrefix + event.EventType()
	if _, err := p.js.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("failed to publish event to subject %s: %w", subject, err)
	}
	return nil
}

func (p *Publisher) Close() {
	if p != nil && p.nc != nil {
		p.nc.Close()
	}
}

type envelope struct {
	Type       string                 `json:"type"`
	OccurredAt time.Time              `json:"occurredAt"`
	Data       map[string]interface{} `json:"data"`
}
