package repository

import (
	"context"

	"github.com/yourusername/shop-api/internal/domain/entity"
)

// UserRepository — хранилище учетных записей (Credential Store).
// GetByEmail возвращает apperrors.ErrNotFound, если записи нет.
// Create возвращает apperrors.ErrConflict при нарушении уникальности email.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Save(ctx context.Context, user *entity.User) error
}
