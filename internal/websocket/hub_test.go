package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"gymflow-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub(nil, logger.NewNopLogger())
	go hub.Run(ctx)
	return hub
}

func receive(t *testing.T, ch <-chan []byte) Message {
	t.Helper()
	select {
	case raw := <-ch:
		var msg Message
		require.NoError(t, json.Unmarshal(raw, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
		return Message{}
	}
}

func TestHubDeliversOnlyToTheOwnersDesks(t *testing.T) {
	hub := startHub(t)
	ownerA, ownerB := uuid.New(), uuid.New()

	deskA1 := &Client{Hub: hub, OwnerId: ownerA, Send: make(chan []byte, 4)}
	deskA2 := &Client{Hub: hub, OwnerId: ownerA, Send: make(chan []byte, 4)}
	deskB := &Client{Hub: hub, OwnerId: ownerB, Send: make(chan []byte, 4)}
	hub.register <- deskA1
	hub.register <- deskA2
	hub.register <- deskB

	hub.Send(ownerA, "checkin", map[string]string{"status": "success"})

	for _, desk := range []*Client{deskA1, deskA2} {
		msg := receive(t, desk.Send)
		assert.Equal(t, "checkin", msg.Type)
		assert.Equal(t, map[string]interface{}{"status": "success"}, msg.Data)
	}

	select {
	case <-deskB.Send:
		t.Fatal("another owner's desk received the message")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubClosesSendOnUnregister(t *testing.T) {
	hub := startHub(t)
	desk := &Client{Hub: hub, OwnerId: uuid.New(), Send: make(chan []byte, 1)}

	hub.register <- desk
	hub.unregister <- desk

	select {
	case _, ok := <-desk.Send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("send channel not closed")
	}
}

func TestHubReleasesClientsAfterShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil, logger.NewNopLogger())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	desk := &Client{Hub: hub, OwnerId: uuid.New(), Send: make(chan []byte, 1)}
	require.True(t, hub.join(desk))

	cancel()
	<-stopped

	_, ok := <-desk.Send
	assert.False(t, ok, "shutdown closes every desk")

	left := make(chan struct{})
	go func() {
		hub.leave(desk)
		close(left)
	}()
	select {
	case <-left:
	case <-time.After(time.Second):
		t.Fatal("leave blocked after the hub stopped")
	}

	assert.False(t, hub.join(&Client{Hub: hub, OwnerId: uuid.New(), Send: make(chan []byte, 1)}))
}
