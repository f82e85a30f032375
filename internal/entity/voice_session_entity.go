package entity

import (
	"time"

	"github.com/google/uuid"
)

type VoiceSession struct {
	Id              uuid.UUID
	UserId          uuid.UUID
	CallerId        *string
	Status          string
	StartedAt       time.Time
	EndedAt         *time.Time
	DurationSeconds *float64
	Metadata        map[string]interface{}
	ContextSnapshot map[string]interface{}
	Summary         map[string]interface{}
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}
