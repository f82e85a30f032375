package events

import (
	"time"

	"github.com/google/uuid"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "SESSION_ENDED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent helps embed common logic if needed,
// strictly creating valid implementations is preferred though.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// TypeUserDeactivated is raised on the CRM side when an operator disables a
// user account. The engine consumes it and ends that user's live sessions.
const TypeUserDeactivated = "USER_DEACTIVATED"

// SessionEnded fires once per ended voice/chat session. The CRM side consumes
// the lead payload from here; the engine never writes CRM rows directly.
type SessionEnded struct {
	SessionID       uuid.UUID
	UserID          uuid.UUID
	Status          string
	DurationSeconds float64
	Summary         map[string]interface{}
	OccurredAt      time.Time
}

func (e SessionEnded) EventType() string { return "SESSION_ENDED" }

func (e SessionEnded) Payload() map[string]interface{} {
	return map[string]interface{}{
		"session_id":       e.SessionID.String(),
		"user_id":          e.UserID.String(),
		"status":           e.Status,
		"duration_seconds": e.DurationSeconds,
		"summary":          e.Summary,
	}
}

func (e SessionEnded) Timestamp() time.Time { return e.OccurredAt }

// VoiceTransition fires when a chat session is bridged to a voice session.
type VoiceTransition struct {
	ChatSessionID  uuid.UUID
	VoiceSessionID uuid.UUID
	UserID         uuid.UUID
	OccurredAt     time.Time
}

func (e VoiceTransition) EventType() string { return "VOICE_TRANSITION" }

func (e VoiceTransition) Payload() map[string]interface{} {
	return map[string]interface{}{
		"chat_session_id":  e.ChatSessionID.String(),
		"voice_session_id": e.VoiceSessionID.String(),
		"user_id":          e.UserID.String(),
	}
}

func (e VoiceTransition) Timestamp() time.Time { return e.OccurredAt }
