package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"nia-sales-be/internal/audio"
	"nia-sales-be/internal/dto"
	"nia-sales-be/internal/pkg/logger"
	"nia-sales-be/internal/service"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// VoiceHandler drives one voice call connection: JSON control frames steer
// recording and synthesis, binary frames are raw audio.
type VoiceHandler struct {
	hub            *Hub
	sessionService service.ISessionService
	transcription  service.ITranscriptionService
	synthesis      service.ISynthesisService
	buffers        *audio.BufferManager
	logger         logger.ILogger
}

func NewVoiceHandler(
	hub *Hub,
	sessionService service.ISessionService,
	transcription service.ITranscriptionService,
	synthesis service.ISynthesisService,
	buffers *audio.BufferManager,
	log logger.ILogger,
) *VoiceHandler {
	return &VoiceHandler{
		hub:            hub,
		sessionService: sessionService,
		transcription:  transcription,
		synthesis:      synthesis,
		buffers:        buffers,
		logger:         log,
	}
}

// Handle runs the connection after the JWT middleware accepted the user.
// Unknown and foreign sessions close with 4404.
func (h *VoiceHandler) Handle(conn *websocket.Conn, userId uuid.UUID, rawSessionId string) {
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

	recording := false // touched only by the connection's worker

	client.OnFrame = func(c *Client, messageType int, data []byte) {
		defer func() {
			if r := recover(); r != nil {
				// One broken session must not take the process down.
				h.sessionService.Fail(context.Background(), sessionId, fmt.Sprintf("panic in voice frame handler: %v", r))
				c.CloseWith(websocket.CloseInternalServerErr, "internal error")
			}
		}()

		if messageType == websocket.BinaryMessage {
			h.handleAudio(c, sessionId, data, recording)
			return
		}
		h.handleControl(c, sessionId, data, &recording)
	}

	client.Serve()
}

func (h *VoiceHandler) handleAudio(c *Client, sessionId uuid.UUID, data []byte, recording bool) {
	if !recording {
		c.SendEvent(dto.ServerEvent{Type: dto.EventError, Error: "not recording, frame ignored"})
		return
	}
	h.buffers.Append(sessionId, data)

	result, err := h.transcription.ProcessChunk(context.Background(), sessionId)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return // session ended mid-flight, result discarded
		}
		c.SendEvent(dto.ServerEvent{Type: dto.EventError, Error: err.Error()})
		return
	}
	c.SendEvent(dto.ServerEvent{Type: dto.EventTranscription, Payload: result})
}

func (h *VoiceHandler) handleControl(c *Client, sessionId uuid.UUID, data []byte, recording *bool) {
	var frame dto.ClientFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		c.SendEvent(dto.ServerEvent{Type: dto.EventError, Error: "malformed control frame"})
		return
	}

	switch frame.Type {
	case dto.FrameStartRecording:
		*recording = true
		c.SendEvent(dto.ServerEvent{Type: dto.EventRecordingStarted})

	case dto.FrameStopRecording:
		*recording = false
		c.SendEvent(dto.ServerEvent{Type: dto.EventRecordingStopped})

	case dto.FrameGenerateResponse:
		result, err := h.synthesis.Synthesize(context.Background(), sessionId, frame.Text)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			c.SendEvent(dto.ServerEvent{Type: dto.EventError, Error: err.Error()})
			return
		}
		if result.Error != "" {
			c.SendEvent(dto.ServerEvent{Type: dto.EventError, Error: result.Error})
			return
		}
		// Audio first, then the confirmation event.
		c.SendBinary(result.Audio)
		c.SendEvent(dto.ServerEvent{Type: dto.EventResponseSent, Payload: result})

	case dto.FrameEndCall:
		summary, err := h.sessionService.End(context.Background(), sessionId)
		if err != nil {
			c.SendEvent(dto.ServerEvent{Type: dto.EventError, Error: err.Error()})
			return
		}
		c.SendEvent(dto.ServerEvent{Type: dto.EventSummary, Payload: summary})
		c.CloseWith(websocket.CloseNormalClosure, "call ended")

	default:
		c.SendEvent(dto.ServerEvent{Type: dto.EventError, Error: fmt.Sprintf("unknown frame type %q", frame.Type)})
	}
}
