package implementation

import (
	"context"
	"errors"

	"nia-sales-be/internal/entity"
	"nia-sales-be/internal/model"
	"nia-sales-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepositoryImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) contract.UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (r *UserRepositoryImpl) FindById(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var m model.User
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entity.User{
		Id:        m.Id,
		Name:      m.Name,
		Email:     m.Email,
		CreatedAt: m.CreatedAt,
	}, nil
}
