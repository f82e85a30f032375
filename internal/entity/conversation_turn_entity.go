package entity

import (
	"time"

	"github.com/google/uuid"
)

type ConversationTurn struct {
	Id         uuid.UUID
	SessionId  uuid.UUID
	TurnNumber int
	Speaker    string
	Content    string
	AudioURI   *string
	Entities   map[string][]string
	Intent     string
	Confidence float64
	CreatedAt  time.Time
}
