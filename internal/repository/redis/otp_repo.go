package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yourusername/shop-api/internal/domain/entity"
	"github.com/yourusername/shop-api/internal/domain/repository"
	apperrors "github.com/yourusername/shop-api/internal/pkg/errors"
)

// DefaultOTPKeyPrefix — префикс ключей одноразовых кодов в Redis
const DefaultOTPKeyPrefix = "otp"

// OTPRepo реализует repository.OTPRepository поверх кеша.
// Истечение кода обеспечивается дважды: TTL ключа в Redis и ExpiresAt внутри значения.
type OTPRepo struct {
	cache  repository.CacheRepository
	prefix string
	now    func() time.Time
}

// NewOTPRepo создает репозиторий одноразовых кодов
func NewOTPRepo(cache repository.CacheRepository, prefix string) (*OTPRepo, error) {
	if cache == nil {
		return nil, fmt.Errorf("CacheRepository is required for OTPRepo")
	}
	if prefix == "" {
		prefix = DefaultOTPKeyPrefix
	}
	return &OTPRepo{
		cache:  cache,
		prefix: prefix,
		now:    time.Now,
	}, nil
}

func (r *OTPRepo) key(email string) string {
	return r.prefix + ":" + strings.ToLower(strings.TrimSpace(email))
}

// Save сохраняет код, заменяя любой ранее выданный код для этого email
func (r *OTPRepo) Save(ctx context.Context, code *entity.OneTimeCode) error {
	if code == nil || code.Email == "" {
		return fmt.Errorf("otp code with email is required")
	}
	ttl := code.TTL()
	if ttl <= 0 {
		return fmt.Errorf("otp code for %s has non-positive validity window", code.Email)
	}
	if err := r.cache.SetJSON(ctx, r.key(code.Email), code, ttl); err != nil {
		return fmt.Errorf("failed to store otp code: %w", err)
	}
	return nil
}

// Get возвращает текущий код для email или apperrors.ErrNotFound
func (r *OTPRepo) Get(ctx context.Context, email string) (*entity.OneTimeCode, error) {
	var code entity.OneTimeCode
	if err := r.cache.GetJSON(ctx, r.key(email), &code); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read otp code: %w", err)
	}

	// Бэкенд без TTL не должен отдавать просроченный код
	if code.IsExpired(r.now()) {
		return nil, apperrors.ErrNotFound
	}
	return &code, nil
}

// Delete инвалидирует код для email
func (r *OTPRepo) Delete(ctx context.Context, email string) error {
	if err := r.cache.Delete(ctx, r.key(email)); err != nil {
		return fmt.Errorf("failed to delete otp code: %w", err)
	}
	return nil
}
