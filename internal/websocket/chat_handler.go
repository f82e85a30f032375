package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"nia-sales-be/internal/constant"
	"nia-sales-be/internal/dto"
	"nia-sales-be/internal/pkg/logger"
	"nia-sales-be/internal/service"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ChatHandler drives one chat connection. Every state change is broadcast to
// the whole session group, so multiple participants stay in sync.
type ChatHandler struct {
	hub            *Hub
	sessionService service.ISessionService
	chatService    service.IChatService
	bridgeService  service.IBridgeService
	typing         *TypingTracker
	logger         logger.ILogger
}

func NewChatHandler(
	hub *Hub,
	sessionService service.ISessionService,
	chatService service.IChatService,
	bridgeService service.IBridgeService,
	log logger.ILogger,
) *ChatHandler {
	h := &ChatHandler{
		hub:            hub,
		sessionService: sessionService,
		chatService:    chatService,
		bridgeService:  bridgeService,
		logger:         log,
	}
	h.typing = NewTypingTracker(func(sessionID uuid.UUID, userID uuid.UUID) {
		hub.Broadcast(sessionID, dto.ServerEvent{
			Type:    dto.EventTyping,
			Payload: dto.TypingPayload{UserId: userID, Typing: false},
		}.Marshal())
	})
	return h
}

func (h *ChatHandler) Handle(conn *websocket.Conn, userId uuid.UUID, rawSessionId string) {
	client := NewClient(h.hub, conn, userId, uuid.Nil)

	sessionId, err := uuid.Parse(rawSessionId)
	if err != nil {
		client.CloseWith(CloseSessionNotFound, "unknown session")
		return
	}
	if _, err := h.sessionService.Authorize(context.Background(), userId, sessionId); err != nil {
		client.CloseWith(CloseSessionNotFound, "unknown session")
		return
	}
	client.SessionID = sessionId

	client.OnFrame = func(c *Client, messageType int, data []byte) {
		defer func() {
			if r := recover(); r != nil {
				h.sessionService.Fail(context.Background(), sessionId, fmt.Sprintf("panic in chat frame handler: %v", r))
				c.CloseWith(websocket.CloseInternalServerErr, "internal error")
			}
		}()

		if messageType != websocket.TextMessage {
			c.SendEvent(dto.ServerEvent{Type: dto.EventError, Error: "binary frames are not accepted on chat"})
			return
		}
		h.handleFrame(c, sessionId, data)
	}
	client.OnClose = func(c *Client) {
		if h.typing.Stop(sessionId, userId) {
			h.hub.Broadcast(sessionId, dto.ServerEvent{
				Type:    dto.EventTyping,
				Payload: dto.TypingPayload{UserId: userId, Typing: false},
			}.Marshal())
		}
	}

	client.Serve()
}

func (h *ChatHandler) handleFrame(c *Client, sessionId uuid.UUID, data []byte) {
	var frame dto.ClientFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		c.SendEvent(dto.ServerEvent{Type: dto.EventError, Error: "malformed frame"})
		return
	}

	switch frame.Type {
	case dto.FrameChatMessage:
		if strings.HasPrefix(strings.TrimSpace(frame.Content), "/") {
			h.runCommand(c, sessionId, frame.Content)
			return
		}
		msg, err := h.chatService.SendMessage(context.Background(), sessionId, constant.SpeakerUser, frame.Content, "")
		if err != nil {
			c.SendEvent(dto.ServerEvent{Type: dto.EventError, Error: err.Error()})
			return
		}
		h.typing.Stop(sessionId, c.UserID)
		c.BroadcastEvent(dto.ServerEvent{Type: dto.EventChatMessage, Payload: msg})

	case dto.FrameTypingStart:
		if h.typing.Start(sessionId, c.UserID) {
			c.BroadcastEvent(dto.ServerEvent{
				Type:    dto.EventTyping,
				Payload: dto.TypingPayload{UserId: c.UserID, Typing: true},
			})
		}

	case dto.FrameTypingStop:
		if h.typing.Stop(sessionId, c.UserID) {
			c.BroadcastEvent(dto.ServerEvent{
				Type:    dto.EventTyping,
				Payload: dto.TypingPayload{UserId: c.UserID, Typing: false},
			})
		}

	case dto.FrameReadReceipt:
		if frame.MessageId == uuid.Nil {
			c.SendEvent(dto.ServerEvent{Type: dto.EventError, Error: "read receipt without message id"})
			return
		}
		if err := h.chatService.MarkRead(context.Background(), frame.MessageId); err != nil {
			c.SendEvent(dto.ServerEvent{Type: dto.EventError, Error: err.Error()})
			return
		}
		c.BroadcastEvent(dto.ServerEvent{
			Type:    dto.EventReadReceipt,
			Payload: dto.ReadReceiptPayload{MessageId: frame.MessageId, ReaderId: c.UserID},
		})

	case dto.FrameCommand:
		h.runCommand(c, sessionId, frame.Content)

	case dto.FrameFileAttachment:
		if frame.FileURI == "" {
			c.SendEvent(dto.ServerEvent{Type: dto.EventError, Error: "attachment without file uri"})
			return
		}
		msg, err := h.chatService.SendMessage(context.Background(), sessionId, constant.SpeakerUser, frame.Content, frame.FileURI)
		if err != nil {
			c.SendEvent(dto.ServerEvent{Type: dto.EventError, Error: err.Error()})
			return
		}
		msg.FileName = frame.FileName
		c.BroadcastEvent(dto.ServerEvent{Type: dto.EventChatMessage, Payload: msg})

	case dto.FrameVoiceTransition:
		h.startVoiceTransition(c, sessionId)

	default:
		c.SendEvent(dto.ServerEvent{Type: dto.EventError, Error: fmt.Sprintf("unknown frame type %q", frame.Type)})
	}
}

func (h *ChatHandler) startVoiceTransition(c *Client, sessionId uuid.UUID) {
	transition, err := h.bridgeService.Transition(context.Background(), sessionId, c.UserID)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyBridged) {
			c.SendEvent(dto.ServerEvent{Type: dto.EventError, Error: "session already has a voice call"})
			return
		}
		c.SendEvent(dto.ServerEvent{Type: dto.EventError, Error: err.Error()})
		return
	}
	// Everyone in the group gets the endpoint to join.
	c.BroadcastEvent(dto.ServerEvent{Type: dto.EventVoiceTransition, Payload: transition})
}

func (h *ChatHandler) runCommand(c *Client, sessionId uuid.UUID, command string) {
	// /voice is transport-level: it needs the bridge, not the chat bot.
	name := strings.ToLower(strings.SplitN(strings.TrimPrefix(strings.TrimSpace(command), "/"), " ", 2)[0])
	if name == "voice" {
		h.startVoiceTransition(c, sessionId)
		return
	}

	reply, err := h.chatService.HandleCommand(context.Background(), sessionId, command)
	if err != nil {
		c.SendEvent(dto.ServerEvent{Type: dto.EventError, Error: err.Error()})
		return
	}
	c.BroadcastEvent(dto.ServerEvent{Type: dto.EventChatMessage, Payload: reply})
}
