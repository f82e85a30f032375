package contract

import (
	"context"

	"nia-sales-be/internal/entity"
	"nia-sales-be/internal/repository/specification"

	"github.com/google/uuid"
)

type AudioChunkRepository interface {
	Create(ctx context.Context, chunk *entity.AudioChunk) error
	DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AudioChunk, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AudioChunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
