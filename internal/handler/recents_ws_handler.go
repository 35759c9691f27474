package handler

import (
	"strings"

	"gymflow-be/internal/pkg/logger"
	"gymflow-be/internal/pkg/serverutils"
	internalWS "gymflow-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// RecentsWsHandler pushes recent_saved events to the owner's browser tabs.
type RecentsWsHandler struct {
	hub    *internalWS.Hub
	logger logger.ILogger
}

func NewRecentsWsHandler(hub *internalWS.Hub, log logger.ILogger) *RecentsWsHandler {
	return &RecentsWsHandler{
		hub:    hub,
		logger: log,
	}
}

// ServeWs authenticates the handshake and upgrades the connection.
func (h *RecentsWsHandler) ServeWs(c *fiber.Ctx) error {
	// Browsers cannot set headers on a websocket handshake, so the query
	// parameter wins over the Authorization header.
	tokenStr := c.Query("token")
	if tokenStr == "" {
		if authHeader := c.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
			tokenStr = strings.TrimSpace(authHeader[7:])
		}
	}
	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse("unauthorized", "Missing token"))
	}

	userID, err := serverutils.ParseUserToken(tokenStr)
	if err != nil {
		h.logger.Warn("WS", "Invalid token in handshake", map[string]interface{}{"error": err.Error()})
		return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse("unauthorized", "Invalid token"))
	}

	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("WS", "Session started", map[string]interface{}{"user_id": userID.String()})
		internalWS.ServeWs(h.hub, conn, userID)
		h.logger.Info("WS", "Session ended", map[string]interface{}{"user_id": userID.String()})
	})(c)
}

func (h *RecentsWsHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws", h.ServeWs)
}
