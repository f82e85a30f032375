package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AudioChunk struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId       uuid.UUID      `gorm:"type:uuid;not null;index:idx_audio_chunks_session_seq,unique,priority:1"`
	ChunkNumber     int            `gorm:"not null;index:idx_audio_chunks_session_seq,unique,priority:2"` // gap-free from 1 per session
	Format          string         `gorm:"type:varchar(32);not null"`
	SampleRateHertz int            `gorm:"not null"`
	SizeBytes       int            `gorm:"not null"`
	StorageURI      string         `gorm:"type:text"`
	Processed       bool           `gorm:"not null;default:false"`
	Transcript      string         `gorm:"type:text"`
	Confidence      float64
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (AudioChunk) TableName() string {
	return "audio_chunks"
}
