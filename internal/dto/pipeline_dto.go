package dto

import (
	"github.com/google/uuid"
)

// TranscriptionResult is what the voice endpoint sends back after a chunk is
// processed. Error is set instead of failing the session when a collaborator
// call could not complete.
type TranscriptionResult struct {
	SessionId   uuid.UUID `json:"session_id"`
	ChunkNumber int       `json:"chunk_number,omitempty"`
	TurnNumber  int       `json:"turn_number,omitempty"`
	Transcript  string    `json:"transcript,omitempty"`
	Confidence  float64   `json:"confidence,omitempty"`
	AudioURI    string    `json:"audio_uri,omitempty"`
	NoSpeech    bool      `json:"no_speech,omitempty"`
	Error       string    `json:"error,omitempty"`
}

// SynthesisResult carries the synthesized audio plus the persisted turn.
// Audio is pushed to the client as a binary frame, not serialized here.
type SynthesisResult struct {
	SessionId  uuid.UUID `json:"session_id"`
	TurnNumber int       `json:"turn_number"`
	Content    string    `json:"content"`
	AudioURI   string    `json:"audio_uri,omitempty"`
	Audio      []byte    `json:"-"`
	Error      string    `json:"error,omitempty"`
}
