package middleware

import (
	"context"
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// MessageTooManyRequests — ответ при превышении лимита
const MessageTooManyRequests = "Too many requests. Please try again later."

// RateLimitConfig описывает фиксированное окно: не больше MaxRequests запросов за Window
type RateLimitConfig struct {
	MaxRequests int
	Window      time.Duration
	// KeyPrefix отделяет счетчики разных лимитов в Redis
	KeyPrefix string
}

// DefaultRateLimitConfig — общий лимит на группу /user по IP
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{MaxRequests: 20, Window: time.Minute, KeyPrefix: "rl:user"}
}

// OTPRateLimitConfig — лимит на выдачу и подтверждение кодов и вход, по IP и маршруту
func OTPRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{MaxRequests: 5, Window: time.Minute, KeyPrefix: "rl:otp"}
}

// RateLimiter считает запросы в Redis. При недоступности Redis запросы пропускаются.
type RateLimiter struct {
	redisClient redis.UniversalClient
}

// NewRateLimiter создает новый RateLimiter
func NewRateLimiter(redisClient redis.UniversalClient) *RateLimiter {
	return &RateLimiter{redisClient: redisClient}
}

// Limit ограничивает запросы с одного IP к одному маршруту
func (rl *RateLimiter) Limit(cfg RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		rl.apply(c, cfg, cfg.KeyPrefix+":"+c.ClientIP()+":"+route)
	}
}

// LimitByIP ограничивает все запросы с одного IP независимо от маршрута
func (rl *RateLimiter) LimitByIP(cfg RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		rl.apply(c, cfg, cfg.KeyPrefix+":"+c.ClientIP())
	}
}

// windowState — значение счетчика и остаток окна после учета запроса
type windowState struct {
	count int64
	reset time.Duration
}

func (rl *RateLimiter) apply(c *gin.Context, cfg RateLimitConfig, key string) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	state, err := rl.hit(ctx, key, cfg.Window)
	if err != nil {
		log.Printf("[RateLimiter] Ошибка Redis для ключа %s, запрос пропущен: %v", key, err)
		c.Next()
		return
	}

	remaining := int64(cfg.MaxRequests) - state.count
	if remaining < 0 {
		remaining = 0
	}
	retryAfter := int64(math.Ceil(state.reset.Seconds()))

	c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.MaxRequests))
	c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(retryAfter, 10))

	if state.count > int64(cfg.MaxRequests) {
		log.Printf("[RateLimiter] Лимит превышен для %s: %d из %d", key, state.count, cfg.MaxRequests)
		c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"message":     MessageTooManyRequests,
			"retry_after": retryAfter,
		})
		return
	}

	c.Next()
}

// hit увеличивает счетчик и читает его срок жизни одной транзакцией.
// Ключ без срока жизни получает окно заново.
func (rl *RateLimiter) hit(ctx context.Context, key string, window time.Duration) (windowState, error) {
	var incr *redis.IntCmd
	var pttl *redis.DurationCmd
	_, err := rl.redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pttl = pipe.PTTL(ctx, key)
		return nil
	})
	if err != nil {
		return windowState{}, err
	}

	state := windowState{count: incr.Val(), reset: pttl.Val()}
	if state.reset < 0 {
		if err := rl.redisClient.PExpire(ctx, key, window).Err(); err != nil {
			log.Printf("[RateLimiter] Не удалось задать окно для %s: %v", key, err)
		}
		state.reset = window
	}
	return state, nil
}
