package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BySessionID scopes child records (chunks, turns, messages) to one session
type BySessionID struct {
	SessionID uuid.UUID
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

// ByStatus filters sessions by lifecycle status
type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// BySpeaker filters turns by speaker role
type BySpeaker struct {
	Speaker string
}

func (s BySpeaker) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("speaker = ?", s.Speaker)
}
