package contract

import (
	"context"

	"nia-sales-be/internal/entity"
	"nia-sales-be/internal/repository/specification"

	"github.com/google/uuid"
)

type VoiceSessionRepository interface {
	Create(ctx context.Context, session *entity.VoiceSession) error
	Update(ctx context.Context, session *entity.VoiceSession) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.VoiceSession, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.VoiceSession, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
