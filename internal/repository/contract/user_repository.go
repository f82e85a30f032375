package contract

import (
	"context"

	"nia-sales-be/internal/entity"

	"github.com/google/uuid"
)

// UserRepository reads the CRM-owned users table. The engine never writes it.
type UserRepository interface {
	FindById(ctx context.Context, id uuid.UUID) (*entity.User, error)
}
