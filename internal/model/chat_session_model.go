package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ChatSession struct {
	Id                   uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId               uuid.UUID      `gorm:"type:uuid;not null;index"`
	Status               string         `gorm:"type:varchar(32);not null;default:'active'"`
	LinkedVoiceSessionId *uuid.UUID     `gorm:"type:uuid;uniqueIndex"` // 1:1, written at most once
	StartedAt            time.Time      `gorm:"not null"`
	EndedAt              *time.Time
	Metadata             datatypes.JSON `gorm:"type:jsonb"`
	ContextSnapshot      datatypes.JSON `gorm:"type:jsonb"`
	Summary              datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt            time.Time      `gorm:"autoCreateTime"`
	UpdatedAt            time.Time      `gorm:"autoUpdateTime"`
	DeletedAt            gorm.DeletedAt `gorm:"index"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}
