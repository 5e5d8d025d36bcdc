package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	apperrors "github.com/yourusername/shop-api/internal/pkg/errors"
)

// CacheRepo реализует repository.CacheRepository поверх Redis
type CacheRepo struct {
	client redis.UniversalClient
}

// NewCacheRepo создает репозиторий кеша
func NewCacheRepo(client redis.UniversalClient) (*CacheRepo, error) {
	if client == nil {
		return nil, fmt.Errorf("Redis client cannot be nil for CacheRepo")
	}
	return &CacheRepo{client: client}, nil
}

// SetJSON сериализует value и записывает его с TTL, заменяя прежнее значение
func (r *CacheRepo) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value for %s: %w", key, err)
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

// GetJSON читает значение в dest
func (r *CacheRepo) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return apperrors.ErrNotFound
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to decode cache value for %s: %w", key, err)
	}
	return nil
}

// Delete удаляет ключ; отсутствие ключа ошибкой не считается
func (r *CacheRepo) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

// Ping проверяет доступность Redis
func (r *CacheRepo) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
