package handler

import (
	"gymflow-be/internal/pkg/logger"
	"gymflow-be/internal/pkg/serverutils"
	internalWS "gymflow-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// CheckinFeedHandler upgrades front-desk connections onto the owner's live check-in feed.
type CheckinFeedHandler struct {
	hub    *internalWS.Hub
	logger logger.ILogger
}

func NewCheckinFeedHandler(hub *internalWS.Hub, log logger.ILogger) *CheckinFeedHandler {
	return &CheckinFeedHandler{hub: hub, logger: log}
}

// ServeWs runs after the owner JWT middleware, which also accepts ?token= on upgrades since
// browsers cannot set headers on a websocket handshake.
func (h *CheckinFeedHandler) ServeWs(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	ownerId, err := serverutils.OwnerIdFromCtx(c)
	if err != nil {
		return serverutils.HandleError(c, err)
	}

	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("CheckinFeedHandler", "Desk connected", map[string]interface{}{"owner_id": ownerId})
		internalWS.ServeWs(h.hub, conn, ownerId)
		h.logger.Info("CheckinFeedHandler", "Desk disconnected", map[string]interface{}{"owner_id": ownerId})
	})(c)
}

func (h *CheckinFeedHandler) RegisterRoutes(router fiber.Router, ownerAuth fiber.Handler) {
	router.Get("/ws/checkins", ownerAuth, h.ServeWs)
}
