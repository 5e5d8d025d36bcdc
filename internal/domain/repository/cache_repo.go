package repository

import (
	"context"
	"time"
)

// CacheRepository — хранилище JSON-значений с временем жизни.
// GetJSON возвращает apperrors.ErrNotFound для отсутствующего или истекшего ключа.
type CacheRepository interface {
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	GetJSON(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
