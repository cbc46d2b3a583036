package websocket

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs attaches an upgraded connection to the owner's feed and blocks until it closes.
func ServeWs(hub *Hub, c *websocket.Conn, ownerId uuid.UUID) {
	client := &Client{Hub: hub, Conn: c, OwnerId: ownerId, Send: make(chan []byte, 256)}
	if !hub.join(client) {
		c.Close()
		return
	}

	go client.writePump()
	client.readPump()
}
