package postgres

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/yourusername/shop-api/internal/domain/entity"
	apperrors "github.com/yourusername/shop-api/internal/pkg/errors"
)

// UserRepo реализует repository.UserRepository
type UserRepo struct {
	db *gorm.DB
}

// NewUserRepo создает новый репозиторий пользователей
func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create вставляет учетную запись. Повторный email отклоняется уникальным индексом
// и возвращается как apperrors.ErrConflict.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		log.Printf("[UserRepo] Email %s уже зарегистрирован", user.Email)
		return fmt.Errorf("%w: user with email %s already exists", apperrors.ErrConflict, user.Email)
	default:
		return fmt.Errorf("failed to create user %s: %w", user.Email, err)
	}
}

// GetByEmail ищет учетную запись по email
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).Where("email = ?", email).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", email, err)
	}
	return &user, nil
}

// Save обновляет изменяемые поля учетной записи: хеш пароля и имя
func (r *UserRepo) Save(ctx context.Context, user *entity.User) error {
	if user.ID == 0 {
		return fmt.Errorf("cannot save user without ID")
	}
	result := r.db.WithContext(ctx).Model(&entity.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"password":   user.Password,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to save user ID=%d: %w", user.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
