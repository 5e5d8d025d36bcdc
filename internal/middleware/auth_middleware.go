package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/shop-api/internal/domain/entity"
	apperrors "github.com/yourusername/shop-api/internal/pkg/errors"
	"github.com/yourusername/shop-api/pkg/auth"
)

// Сообщения, которые middleware возвращает клиенту
const (
	MessageNoTokenFound  = "No authorized token found"
	MessageInvalidToken  = "Invalid token"
	MessageNoSecretKey   = "Server Error: No secret key found"
	MessageUserNotFound  = "The user does not exist. Please try with a different email or signup"
	MessageInternalError = "Something went wrong, please try again"
)

// Ключи контекста Gin, которые устанавливает RequireClaim
const (
	ContextKeyUserID = "user_id"
	ContextKeyEmail  = "email"
)

// ClaimVerifier проверяет подписанный claim
type ClaimVerifier interface {
	Verify(token string) (*auth.SessionClaims, error)
}

// IdentityFinder находит учетную запись по email из claim
type IdentityFinder interface {
	FindIdentity(ctx context.Context, email string) (*entity.User, error)
}

// AuthMiddleware обеспечивает аутентификацию для защищенных маршрутов
type AuthMiddleware struct {
	verifier   ClaimVerifier
	identities IdentityFinder
}

// NewAuthMiddleware создает новый middleware
func NewAuthMiddleware(verifier ClaimVerifier, identities IdentityFinder) *AuthMiddleware {
	return &AuthMiddleware{
		verifier:   verifier,
		identities: identities,
	}
}

// RequireClaim проверяет Bearer claim и существование учетной записи
func (m *AuthMiddleware) RequireClaim() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": MessageNoTokenFound})
			return
		}

		claims, err := m.verifier.Verify(token)
		if err != nil {
			if errors.Is(err, apperrors.ErrInternal) {
				log.Printf("[AuthMiddleware] Ошибка конфигурации при проверке claim: %v", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": MessageNoSecretKey})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": MessageInvalidToken})
			return
		}

		user, err := m.identities.FindIdentity(c.Request.Context(), claims.Email)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": MessageUserNotFound})
				return
			}
			log.Printf("[AuthMiddleware] Ошибка загрузки пользователя %s: %v", claims.Email, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": MessageInternalError})
			return
		}

		// Устанавливаем ID пользователя в контекст
		c.Set(ContextKeyUserID, user.ID)
		c.Set(ContextKeyEmail, user.Email)

		c.Next()
	}
}

// bearerToken извлекает токен из заголовка формата "Bearer {token}"
func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
