package mapper

import (
	"time"

	"nia-sales-be/internal/entity"
	"nia-sales-be/internal/model"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

// Voice Session Mappers

func (m *SessionMapper) VoiceSessionToEntity(s *model.VoiceSession) *entity.VoiceSession {
	if s == nil {
		return nil
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.VoiceSession{
		Id:              s.Id,
		UserId:          s.UserId,
		CallerId:        s.CallerId,
		Status:          s.Status,
		StartedAt:       s.StartedAt,
		EndedAt:         s.EndedAt,
		DurationSeconds: s.DurationSeconds,
		Metadata:        fromJSONMap(s.Metadata),
		ContextSnapshot: fromJSONMap(s.ContextSnapshot),
		Summary:         fromJSONMap(s.Summary),
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       updatedAt,
	}
}

func (m *SessionMapper) VoiceSessionToModel(s *entity.VoiceSession) *model.VoiceSession {
	if s == nil {
		return nil
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	return &model.VoiceSession{
		Id:              s.Id,
		UserId:          s.UserId,
		CallerId:        s.CallerId,
		Status:          s.Status,
		StartedAt:       s.StartedAt,
		EndedAt:         s.EndedAt,
		DurationSeconds: s.DurationSeconds,
		Metadata:        toJSONMap(s.Metadata),
		ContextSnapshot: toJSONMap(s.ContextSnapshot),
		Summary:         toJSONMap(s.Summary),
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       updatedAt,
	}
}

// Chat Session Mappers

func (m *SessionMapper) ChatSessionToEntity(s *model.ChatSession) *entity.ChatSession {
	if s == nil {
		return nil
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.ChatSession{
		Id:                   s.Id,
		UserId:               s.UserId,
		Status:               s.Status,
		LinkedVoiceSessionId: s.LinkedVoiceSessionId,
		StartedAt:            s.StartedAt,
		EndedAt:              s.EndedAt,
		Metadata:             fromJSONMap(s.Metadata),
		ContextSnapshot:      fromJSONMap(s.ContextSnapshot),
		Summary:              fromJSONMap(s.Summary),
		CreatedAt:            s.CreatedAt,
		UpdatedAt:            updatedAt,
	}
}

func (m *SessionMapper) ChatSessionToModel(s *entity.ChatSession) *model.ChatSession {
	if s == nil {
		return nil
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	return &model.ChatSession{
		Id:                   s.Id,
		UserId:               s.UserId,
		Status:               s.Status,
		LinkedVoiceSessionId: s.LinkedVoiceSessionId,
		StartedAt:            s.StartedAt,
		EndedAt:              s.EndedAt,
		Metadata:             toJSONMap(s.Metadata),
		ContextSnapshot:      toJSONMap(s.ContextSnapshot),
		Summary:              toJSONMap(s.Summary),
		CreatedAt:            s.CreatedAt,
		UpdatedAt:            updatedAt,
	}
}
