package mapper

import (
	"time"

	"nia-sales-be/internal/entity"
	"nia-sales-be/internal/model"
)

type TurnMapper struct{}

func NewTurnMapper() *TurnMapper {
	return &TurnMapper{}
}

// Conversation Turn Mappers

func (m *TurnMapper) TurnToEntity(t *model.ConversationTurn) *entity.ConversationTurn {
	if t == nil {
		return nil
	}

	return &entity.ConversationTurn{
		Id:         t.Id,
		SessionId:  t.SessionId,
		TurnNumber: t.TurnNumber,
		Speaker:    t.Speaker,
		Content:    t.Content,
		AudioURI:   t.AudioURI,
		Entities:   fromJSONStringLists(t.Entities),
		Intent:     t.Intent,
		Confidence: t.Confidence,
		CreatedAt:  t.CreatedAt,
	}
}

func (m *TurnMapper) TurnToModel(t *entity.ConversationTurn) *model.ConversationTurn {
	if t == nil {
		return nil
	}

	return &model.ConversationTurn{
		Id:         t.Id,
		SessionId:  t.SessionId,
		TurnNumber: t.TurnNumber,
		Speaker:    t.Speaker,
		Content:    t.Content,
		AudioURI:   t.AudioURI,
		Entities:   toJSONStringLists(t.Entities),
		Intent:     t.Intent,
		Confidence: t.Confidence,
		CreatedAt:  t.CreatedAt,
	}
}

// Audio Chunk Mappers

func (m *TurnMapper) ChunkToEntity(c *model.AudioChunk) *entity.AudioChunk {
	if c == nil {
		return nil
	}

	return &entity.AudioChunk{
		Id:              c.Id,
		SessionId:       c.SessionId,
		ChunkNumber:     c.ChunkNumber,
		Format:          c.Format,
		SampleRateHertz: c.SampleRateHertz,
		SizeBytes:       c.SizeBytes,
		StorageURI:      c.StorageURI,
		Processed:       c.Processed,
		Transcript:      c.Transcript,
		Confidence:      c.Confidence,
		CreatedAt:       c.CreatedAt,
	}
}

func (m *TurnMapper) ChunkToModel(c *entity.AudioChunk) *model.AudioChunk {
	if c == nil {
		return nil
	}

	return &model.AudioChunk{
		Id:              c.Id,
		SessionId:       c.SessionId,
		ChunkNumber:     c.ChunkNumber,
		Format:          c.Format,
		SampleRateHertz: c.SampleRateHertz,
		SizeBytes:       c.SizeBytes,
		StorageURI:      c.StorageURI,
		Processed:       c.Processed,
		Transcript:      c.Transcript,
		Confidence:      c.Confidence,
		CreatedAt:       c.CreatedAt,
	}
}

// Chat Message Mappers

func (m *TurnMapper) MessageToEntity(msg *model.ChatMessage) *entity.ChatMessage {
	if msg == nil {
		return nil
	}

	var updatedAt *time.Time
	if !msg.UpdatedAt.IsZero() {
		t := msg.UpdatedAt
		updatedAt = &t
	}

	return &entity.ChatMessage{
		Id:             msg.Id,
		SessionId:      msg.SessionId,
		MessageNumber:  msg.MessageNumber,
		Sender:         msg.Sender,
		Content:        msg.Content,
		AttachmentURI:  msg.AttachmentURI,
		Entities:       fromJSONStringLists(msg.Entities),
		Intent:         msg.Intent,
		DeliveryStatus: msg.DeliveryStatus,
		CreatedAt:      msg.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}

func (m *TurnMapper) MessageToModel(msg *entity.ChatMessage) *model.ChatMessage {
	if msg == nil {
		return nil
	}

	var updatedAt time.Time
	if msg.UpdatedAt != nil {
		updatedAt = *msg.UpdatedAt
	}

	return &model.ChatMessage{
		Id:             msg.Id,
		SessionId:      msg.SessionId,
		MessageNumber:  msg.MessageNumber,
		Sender:         msg.Sender,
		Content:        msg.Content,
		AttachmentURI:  msg.AttachmentURI,
		Entities:       toJSONStringLists(msg.Entities),
		Intent:         msg.Intent,
		DeliveryStatus: msg.DeliveryStatus,
		CreatedAt:      msg.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}
