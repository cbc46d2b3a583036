package websocket

import (
	"context"
	"encoding/json"

	"gymflow-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const clusterChannel = "gymflow_feed"

// Hub fans feed messages out to every front-desk connection of an owner. With Redis configured,
// messages are relayed to the other instances too.
type Hub struct {
	// Owner -> connections (several desks may watch the same gym)
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client
	outbound   chan delivery
	// closed when Run returns; nobody is left to receive on register or unregister
	done chan struct{}

	rdb    *redis.Client
	logger logger.ILogger

	// instance id, used to skip our own Redis echoes
	origin string
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		outbound:   make(chan delivery, 256),
		done:       make(chan struct{}),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		logger:     log,
		origin:     uuid.NewString(),
	}
}

// Message is what desks receive: {"type": "checkin", "data": {...}}.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type clusterEnvelope struct {
	Origin  string          `json:"origin"`
	OwnerId string          `json:"owner_id"`
	Message json.RawMessage `json:"message"`
}

type delivery struct {
	ownerId uuid.UUID
	data    []byte
}

// Run owns the client map; it must be the only goroutine touching it.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			for ownerId, clients := range h.clients {
				for _, c := range clients {
					close(c.Send)
				}
				delete(h.clients, ownerId)
			}
			return

		case client := <-h.register:
			h.clients[client.OwnerId] = append(h.clients[client.OwnerId], client)
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"owner_id": client.OwnerId})

		case client := <-h.unregister:
			h.remove(client)

		case d := <-h.outbound:
			h.deliverLocal(d)
		}
	}
}

// join attaches a client; false once the hub has stopped.
func (h *Hub) join(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// leave detaches a client. After shutdown the hub has already closed every Send channel.
func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Send queues a message for every desk of the owner, on this instance and, through Redis, on
// the others.
func (h *Hub) Send(ownerId uuid.UUID, msgType string, data interface{}) {
	payload, err := json.Marshal(Message{Type: msgType, Data: data})
	if err != nil {
		h.logger.Error("Hub", "Failed to encode feed message", map[string]interface{}{"error": err.Error(), "type": msgType})
		return
	}

	select {
	case h.outbound <- delivery{ownerId: ownerId, data: payload}:
	default:
		h.logger.Warn("Hub", "Outbound queue full, dropping feed message", map[string]interface{}{"owner_id": ownerId, "type": msgType})
	}

	if h.rdb != nil {
		env, _ := json.Marshal(clusterEnvelope{Origin: h.origin, OwnerId: ownerId.String(), Message: payload})
		if err := h.rdb.Publish(context.Background(), clusterChannel, env).Err(); err != nil {
			h.logger.Warn("Hub", "Failed to relay feed message", map[string]interface{}{"error": err.Error()})
		}
	}
}

func (h *Hub) remove(client *Client) {
	clients, ok := h.clients[client.OwnerId]
	if !ok {
		return
	}
	for i, c := range clients {
		if c == client {
			h.clients[client.OwnerId] = append(clients[:i:i], clients[i+1:]...)
			close(client.Send)
			break
		}
	}
	if len(h.clients[client.OwnerId]) == 0 {
		delete(h.clients, client.OwnerId)
		h.logger.Info("Hub", "Owner has no open feeds", map[string]interface{}{"owner_id": client.OwnerId})
	}
}

func (h *Hub) deliverLocal(d delivery) {
	clients := append([]*Client(nil), h.clients[d.ownerId]...)
	for _, client := range clients {
		select {
		case client.Send <- d.data:
		default:
			h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{"owner_id": d.ownerId})
			h.remove(client)
		}
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var env clusterEnvelope
		if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
			h.logger.Warn("Hub", "Unreadable cluster message", map[string]interface{}{"error": err.Error()})
			continue
		}
		if env.Origin == h.origin {
			continue
		}
		ownerId, err := uuid.Parse(env.OwnerId)
		if err != nil {
			continue
		}

		select {
		case h.outbound <- delivery{ownerId: ownerId, data: env.Message}:
		case <-ctx.Done():
			return
		}
	}
}
