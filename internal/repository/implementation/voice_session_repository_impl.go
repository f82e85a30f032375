package implementation

import (
	"context"
	"errors"

	"nia-sales-be/internal/entity"
	"nia-sales-be/internal/mapper"
	"nia-sales-be/internal/model"
	"nia-sales-be/internal/repository/contract"
	"nia-sales-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VoiceSessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SessionMapper
}

func NewVoiceSessionRepository(db *gorm.DB) contract.VoiceSessionRepository {
	return &VoiceSessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewSessionMapper(),
	}
}

func (r *VoiceSessionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *VoiceSessionRepositoryImpl) Create(ctx context.Context, session *entity.VoiceSession) error {
	m := r.mapper.VoiceSessionToModel(session)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.VoiceSessionToEntity(m)
	return nil
}

func (r *VoiceSessionRepositoryImpl) Update(ctx context.Context, session *entity.VoiceSession) error {
	m := r.mapper.VoiceSessionToModel(session)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.VoiceSessionToEntity(m)
	return nil
}

func (r *VoiceSessionRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.VoiceSession{}, id).Error
}

func (r *VoiceSessionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.VoiceSession, error) {
	var m model.VoiceSession
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.VoiceSessionToEntity(&m), nil
}

func (r *VoiceSessionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.VoiceSession, error) {
	var models []*model.VoiceSession
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.VoiceSession, len(models))
	for i, m := range models {
		entities[i] = r.mapper.VoiceSessionToEntity(m)
	}
	return entities, nil
}

func (r *VoiceSessionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.VoiceSession{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
