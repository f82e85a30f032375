package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ConversationTurn struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId  uuid.UUID      `gorm:"type:uuid;not null;index:idx_turns_session_seq,unique,priority:1"`
	TurnNumber int            `gorm:"not null;index:idx_turns_session_seq,unique,priority:2"`
	Speaker    string         `gorm:"type:varchar(16);not null"`
	Content    string         `gorm:"type:text;not null"`
	AudioURI   *string        `gorm:"type:text"`
	Entities   datatypes.JSON `gorm:"type:jsonb"`
	Intent     string         `gorm:"type:varchar(64)"`
	Confidence float64
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (ConversationTurn) TableName() string {
	return "conversation_turns"
}
