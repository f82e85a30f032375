package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type VoiceSession struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId          uuid.UUID      `gorm:"type:uuid;not null;index"` // User ownership for data isolation
	CallerId        *string        `gorm:"type:varchar(64)"`
	Status          string         `gorm:"type:varchar(32);not null;default:'active'"`
	StartedAt       time.Time      `gorm:"not null"`
	EndedAt         *time.Time
	DurationSeconds *float64
	Metadata        datatypes.JSON `gorm:"type:jsonb"`
	ContextSnapshot datatypes.JSON `gorm:"type:jsonb"`
	Summary         datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime"`
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (VoiceSession) TableName() string {
	return "voice_sessions"
}
