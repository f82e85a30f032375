package contract

import (
	"context"

	"nia-sales-be/internal/entity"
	"nia-sales-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ChatSessionRepository interface {
	Create(ctx context.Context, session *entity.ChatSession) error
	Update(ctx context.Context, session *entity.ChatSession) error
	Delete(ctx context.Context, id uuid.UUID) error
	// SetVoiceLink writes the 1:1 voice link if and only if it is still unset.
	// Returns false when the link already existed.
	SetVoiceLink(ctx context.Context, id uuid.UUID, voiceSessionId uuid.UUID) (bool, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
