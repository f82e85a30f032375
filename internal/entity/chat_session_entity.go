package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatSession struct {
	Id                   uuid.UUID
	UserId               uuid.UUID
	Status               string
	LinkedVoiceSessionId *uuid.UUID // immutable once set (chat-voice bridge)
	StartedAt            time.Time
	EndedAt              *time.Time
	Metadata             map[string]interface{}
	ContextSnapshot      map[string]interface{}
	Summary              map[string]interface{}
	CreatedAt            time.Time
	UpdatedAt            *time.Time
}
