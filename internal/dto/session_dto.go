package dto

import (
	"time"

	"github.com/google/uuid"
)

type InitiateSessionRequest struct {
	Kind     string                 `json:"kind" validate:"required,oneof=voice chat"`
	CallerId string                 `json:"caller_id,omitempty" validate:"omitempty,max=64"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

type InitiateSessionResponse struct {
	Id        uuid.UUID `json:"id"`
	Kind      string    `json:"kind"`
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
	// Endpoint is the websocket path the client should connect to.
	Endpoint string `json:"endpoint"`
}

type SessionResponse struct {
	Id              uuid.UUID              `json:"id"`
	Kind            string                 `json:"kind"`
	Status          string                 `json:"status"`
	CallerId        string                 `json:"caller_id,omitempty"`
	StartedAt       time.Time              `json:"started_at"`
	EndedAt         *time.Time             `json:"ended_at,omitempty"`
	DurationSeconds int                    `json:"duration_seconds"`
	Context         map[string]interface{} `json:"context,omitempty"`
	Summary         map[string]interface{} `json:"summary,omitempty"`
}

type EndSessionResponse struct {
	Id              uuid.UUID              `json:"id"`
	Status          string                 `json:"status"`
	DurationSeconds int                    `json:"duration_seconds"`
	Summary         map[string]interface{} `json:"summary"`
}

type TurnResponse struct {
	Id         uuid.UUID           `json:"id"`
	TurnNumber int                 `json:"turn_number"`
	Speaker    string              `json:"speaker"`
	Content    string              `json:"content"`
	AudioURI   string              `json:"audio_uri,omitempty"`
	Entities   map[string][]string `json:"entities,omitempty"`
	Intent     string              `json:"intent,omitempty"`
	Confidence float64             `json:"confidence"`
	CreatedAt  time.Time           `json:"created_at"`
}
