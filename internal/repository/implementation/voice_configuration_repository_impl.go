package implementation

import (
	"context"
	"errors"

	"nia-sales-be/internal/entity"
	"nia-sales-be/internal/mapper"
	"nia-sales-be/internal/model"
	"nia-sales-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VoiceConfigurationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.VoiceConfigMapper
}

func NewVoiceConfigurationRepository(db *gorm.DB) contract.VoiceConfigurationRepository {
	return &VoiceConfigurationRepositoryImpl{
		db:     db,
		mapper: mapper.NewVoiceConfigMapper(),
	}
}

// Upsert keeps one row per user. A second save for the same user overwrites
// the stored preferences in place.
func (r *VoiceConfigurationRepositoryImpl) Upsert(ctx context.Context, config *entity.VoiceConfiguration) error {
	m := r.mapper.ToModel(config)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"voice_name", "language_code", "speaking_rate", "pitch",
				"volume_gain_db", "enable_automatic_punctuation",
				"vocabulary_hints", "updated_at",
			}),
		}).
		Create(m).Error
	if err != nil {
		return err
	}
	*config = *r.mapper.ToEntity(m)
	return nil
}

func (r *VoiceConfigurationRepositoryImpl) FindByUserId(ctx context.Context, userId uuid.UUID) (*entity.VoiceConfiguration, error) {
	var m model.VoiceConfiguration
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userId).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}
