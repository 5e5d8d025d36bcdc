package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"

	apperrors "github.com/yourusername/shop-api/internal/pkg/errors"
)

const (
	// DefaultClaimExpiry — время жизни подписанного claim по умолчанию
	DefaultClaimExpiry = 24 * time.Hour
	claimIssuer        = "shop-api"
)

// ErrSigningSecretMissing возвращается любым вызовом Mint/Verify, если секрет подписи не задан.
// Это внутренняя ошибка конфигурации, а не ошибка клиента.
var ErrSigningSecretMissing = fmt.Errorf("%w: jwt signing secret is not configured", apperrors.ErrInternal)

// SessionClaims — подписанное утверждение об identity (email) без серверной сессии
type SessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// ClaimService выпускает и проверяет подписанные bearer-токены.
// Секрет передается при создании; его наличие проверяется при каждом вызове.
type ClaimService struct {
	secret string
	expiry time.Duration
	now    func() time.Time
}

// NewClaimService создает сервис подписи. Пустой секрет не является ошибкой создания:
// каждый вызов Mint/Verify вернет ErrSigningSecretMissing.
func NewClaimService(secret string, expiry time.Duration) *ClaimService {
	if expiry <= 0 {
		expiry = DefaultClaimExpiry
	}
	return &ClaimService{
		secret: secret,
		expiry: expiry,
		now:    time.Now,
	}
}

// Mint выпускает токен, привязанный к email
func (s *ClaimService) Mint(email string) (string, error) {
	if strings.TrimSpace(s.secret) == "" {
		return "", ErrSigningSecretMissing
	}
	if email == "" {
		return "", fmt.Errorf("%w: email claim is required", apperrors.ErrValidation)
	}

	issuedAt := s.now()
	claims := &SessionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			Issuer:    claimIssuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", fmt.Errorf("%w: failed to sign claim: %v", apperrors.ErrInternal, err)
	}
	return signed, nil
}

// Verify проверяет подпись и срок действия токена и возвращает его claims
func (s *ClaimService) Verify(tokenString string) (*SessionClaims, error) {
	if strings.TrimSpace(s.secret) == "" {
		return nil, ErrSigningSecretMissing
	}
	if tokenString == "" {
		return nil, fmt.Errorf("%w: token is empty", apperrors.ErrUnauthorized)
	}

	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrExpiredToken, err)
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthorized, err)
	}
	if !token.Valid || claims.Email == "" {
		return nil, fmt.Errorf("%w: invalid claim", apperrors.ErrUnauthorized)
	}
	return claims, nil
}
