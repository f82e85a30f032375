package handler

import (
	"nia-sales-be/internal/pkg/logger"
	"nia-sales-be/internal/pkg/serverutils"
	internalWS "nia-sales-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// RealtimeHandler upgrades the two duplex endpoints. Authentication runs
// after the upgrade so rejections arrive as websocket close codes the client
// can tell apart: 4401 for bad credentials, 4404 for unknown sessions.
type RealtimeHandler struct {
	voiceHandler *internalWS.VoiceHandler
	chatHandler  *internalWS.ChatHandler
	logger       logger.ILogger
}

func NewRealtimeHandler(voiceHandler *internalWS.VoiceHandler, chatHandler *internalWS.ChatHandler, log logger.ILogger) *RealtimeHandler {
	return &RealtimeHandler{
		voiceHandler: voiceHandler,
		chatHandler:  chatHandler,
		logger:       log,
	}
}

func (h *RealtimeHandler) ServeVoice(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return websocket.New(func(conn *websocket.Conn) {
		userId, ok := h.authenticate(conn)
		if !ok {
			return
		}
		h.logger.Info("realtime", "voice connection opened", map[string]interface{}{
			"user_id": userId.String(), "session_id": conn.Params("sessionId"),
		})
		h.voiceHandler.Handle(conn, userId, conn.Params("sessionId"))
	})(c)
}

func (h *RealtimeHandler) ServeChat(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return websocket.New(func(conn *websocket.Conn) {
		userId, ok := h.authenticate(conn)
		if !ok {
			return
		}
		h.logger.Info("realtime", "chat connection opened", map[string]interface{}{
			"user_id": userId.String(), "session_id": conn.Params("sessionId"),
		})
		h.chatHandler.Handle(conn, userId, conn.Params("sessionId"))
	})(c)
}

func (h *RealtimeHandler) authenticate(conn *websocket.Conn) (uuid.UUID, bool) {
	tokenStr := conn.Query("token")
	if tokenStr == "" {
		internalWS.Reject(conn, internalWS.CloseUnauthorized, "missing token")
		return uuid.Nil, false
	}
	userId, err := serverutils.ParseUserToken(tokenStr)
	if err != nil {
		h.logger.Warn("realtime", "rejected websocket handshake", map[string]interface{}{"error": err.Error()})
		internalWS.Reject(conn, internalWS.CloseUnauthorized, "invalid token")
		return uuid.Nil, false
	}
	return userId, true
}

// RegisterRoutes wires the websocket endpoints at the app root.
func (h *RealtimeHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/ws/voice/:sessionId", h.ServeVoice)
	app.Get("/ws/chat/:sessionId", h.ServeChat)
}
