package dto

import (
	"encoding/json"

	"github.com/google/uuid"
)

// ClientFrame is the envelope of every JSON control frame a client sends on
// either realtime endpoint. Payload fields not used by a frame type are
// simply absent.
type ClientFrame struct {
	Type string `json:"type"`

	// generate_response
	Text string `json:"text,omitempty"`

	// chat message / command
	Content string `json:"content,omitempty"`

	// read_receipt
	MessageId uuid.UUID `json:"message_id,omitempty"`

	// file_attachment
	FileName string `json:"file_name,omitempty"`
	FileURI  string `json:"file_uri,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
}

// ServerEvent is the envelope of every JSON event the server pushes.
type ServerEvent struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func (e ServerEvent) Marshal() []byte {
	b, err := json.Marshal(e)
	if err != nil {
		return []byte(`{"type":"error","error":"event serialization failed"}`)
	}
	return b
}

// Voice endpoint frame types.
const (
	FrameStartRecording   = "start_recording"
	FrameStopRecording    = "stop_recording"
	FrameGenerateResponse = "generate_response"
	FrameEndCall          = "end_call"
)

// Chat endpoint frame types.
const (
	FrameChatMessage     = "message"
	FrameTypingStart     = "typing_start"
	FrameTypingStop      = "typing_stop"
	FrameReadReceipt     = "read_receipt"
	FrameCommand         = "command"
	FrameFileAttachment  = "file_attachment"
	FrameVoiceTransition = "voice_transition"
)

// Server event types.
const (
	EventRecordingStarted = "recording_started"
	EventRecordingStopped = "recording_stopped"
	EventTranscription    = "transcription"
	EventResponseSent     = "response_sent"
	EventSummary          = "summary"
	EventChatMessage      = "message"
	EventTyping           = "typing"
	EventReadReceipt      = "read_receipt"
	EventVoiceTransition  = "voice_transition"
	EventError            = "error"
)

type ChatMessagePayload struct {
	Id             uuid.UUID `json:"id"`
	MessageNumber  int       `json:"message_number"`
	Sender         string    `json:"sender"`
	Content        string    `json:"content"`
	FileName       string    `json:"file_name,omitempty"`
	FileURI        string    `json:"file_uri,omitempty"`
	DeliveryStatus string    `json:"delivery_status"`
}

type TypingPayload struct {
	UserId uuid.UUID `json:"user_id"`
	Typing bool      `json:"typing"`
}

type ReadReceiptPayload struct {
	MessageId uuid.UUID `json:"message_id"`
	ReaderId  uuid.UUID `json:"reader_id"`
}

type VoiceTransitionPayload struct {
	VoiceSessionId uuid.UUID `json:"voice_session_id"`
	Endpoint       string    `json:"endpoint"`
}
