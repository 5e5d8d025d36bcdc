package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger — зависимость, доступность которой проверяет /health
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc адаптирует функцию к Pinger
type PingFunc func(ctx context.Context) error

// Ping вызывает f(ctx)
func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandler отдает состояние хранилища и кеша
type HealthHandler struct {
	checks map[string]Pinger
}

// NewHealthHandler создает обработчик с именованными проверками
func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Health обрабатывает GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	components := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			log.Printf("[HealthHandler] %s недоступен: %v", name, err)
			components[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		components[name] = "up"
	}

	state := "ok"
	if status != http.StatusOK {
		state = "degraded"
	}
	c.JSON(status, gin.H{"status": state, "components": components})
}
