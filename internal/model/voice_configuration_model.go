package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type VoiceConfiguration struct {
	Id                         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId                     uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex"` // one configuration per user
	LanguageCode               string         `gorm:"type:varchar(16);not null;default:'en-US'"`
	VoiceName                  string         `gorm:"type:varchar(64)"`
	SpeakingRate               float64        `gorm:"not null;default:1.0"`
	Pitch                      float64        `gorm:"not null;default:0.0"`
	VolumeGainDb               float64        `gorm:"not null;default:0.0"`
	EnableAutomaticPunctuation bool           `gorm:"not null;default:true"`
	VocabularyHints            datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt                  time.Time      `gorm:"autoCreateTime"`
	UpdatedAt                  time.Time      `gorm:"autoUpdateTime"`
	DeletedAt                  gorm.DeletedAt `gorm:"index"`
}

func (VoiceConfiguration) TableName() string {
	return "voice_configurations"
}
