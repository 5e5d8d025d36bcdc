package database

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/yourusername/shop-api/internal/config"
)

const redisPingTimeout = 5 * time.Second

// NewUniversalRedisClient подключается к Redis в режиме single, sentinel или cluster
// и проверяет соединение. При неудачном ping клиент закрывается.
func NewUniversalRedisClient(cfg config.RedisConfig) (redis.UniversalClient, error) {
	opts, err := redisOptions(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewUniversalClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis (mode: %s, addrs: %v): %w", modeOrDefault(cfg.Mode), opts.Addrs, err)
	}
	return client, nil
}

// redisOptions переводит конфигурацию в опции UniversalClient.
// Тип клиента go-redis выбирает сам: MasterName дает sentinel, несколько адресов дают cluster.
func redisOptions(cfg config.RedisConfig) (*redis.UniversalOptions, error) {
	addrs := cfg.Addrs
	if len(addrs) == 0 && cfg.Addr != "" {
		addrs = []string{cfg.Addr}
	}
	if len(addrs) == 0 {
		return nil, fmt.Errorf("redis configuration error: Addrs or Addr must be provided")
	}

	opts := &redis.UniversalOptions{
		Addrs:    addrs,
		Password: cfg.Password,
		DB:       cfg.DB,
		// -1 отключает повторы команд: сбой кеша сразу возвращается вызывающему
		MaxRetries: -1,
	}
	if cfg.MaxRetries > 0 {
		opts.MaxRetries = cfg.MaxRetries
	}

	switch mode := modeOrDefault(cfg.Mode); mode {
	case "single":
		// Для single берется только первый адрес, иначе go-redis создаст cluster-клиент
		opts.Addrs = addrs[:1]
	case "sentinel":
		if cfg.MasterName == "" {
			return nil, fmt.Errorf("redis sentinel mode requires MasterName")
		}
		opts.MasterName = cfg.MasterName
	case "cluster":
	default:
		return nil, fmt.Errorf("unsupported redis mode: %s", mode)
	}
	return opts, nil
}

func modeOrDefault(mode string) string {
	if mode == "" {
		return "single"
	}
	return mode
}
