package contract

import (
	"context"

	"nia-sales-be/internal/entity"

	"github.com/google/uuid"
)

type VoiceConfigurationRepository interface {
	Upsert(ctx context.Context, config *entity.VoiceConfiguration) error
	FindByUserId(ctx context.Context, userId uuid.UUID) (*entity.VoiceConfiguration, error)
}
