package repository

import (
	"context"

	"github.com/yourusername/shop-api/internal/domain/entity"
)

// OTPRepository хранит одноразовые коды по email.
// Save перезаписывает предыдущий код для того же email.
// Get возвращает apperrors.ErrNotFound, если кода нет или его окно истекло.
type OTPRepository interface {
	Save(ctx context.Context, code *entity.OneTimeCode) error
	Get(ctx context.Context, email string) (*entity.OneTimeCode, error)
	Delete(ctx context.Context, email string) error
}
