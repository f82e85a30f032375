package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ChatMessage struct {
	Id             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId      uuid.UUID      `gorm:"type:uuid;not null;index:idx_chat_messages_session_seq,unique,priority:1"`
	MessageNumber  int            `gorm:"not null;index:idx_chat_messages_session_seq,unique,priority:2"`
	Sender         string         `gorm:"type:varchar(16);not null"`
	Content        string         `gorm:"type:text;not null"`
	AttachmentURI  *string        `gorm:"type:text"`
	Entities       datatypes.JSON `gorm:"type:jsonb"`
	Intent         string         `gorm:"type:varchar(64)"`
	DeliveryStatus string         `gorm:"type:varchar(16);not null;default:'sent'"`
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime"`
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
