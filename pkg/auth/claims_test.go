package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yourusername/shop-api/internal/pkg/errors"
)

func TestClaimService_MintAndVerify(t *testing.T) {
	svc := NewClaimService("super-secret", time.Hour)

	token, err := svc.Mint("a@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "a@x.com", claims.Subject)
	require.NotNil(t, claims.ExpiresAt, "claim must carry an expiry")
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestClaimService_DefaultExpiry(t *testing.T) {
	svc := NewClaimService("super-secret", 0)
	assert.Equal(t, DefaultClaimExpiry, svc.expiry)
}

func TestClaimService_MissingSecret(t *testing.T) {
	svc := NewClaimService("", time.Hour)

	_, err := svc.Mint("a@x.com")
	assert.ErrorIs(t, err, ErrSigningSecretMissing)
	assert.ErrorIs(t, err, apperrors.ErrInternal)

	_, err = svc.Verify("whatever")
	assert.ErrorIs(t, err, apperrors.ErrInternal)
}

func TestClaimService_WrongSecret(t *testing.T) {
	token, err := NewClaimService("right-secret", time.Hour).Mint("a@x.com")
	require.NoError(t, err)

	_, err = NewClaimService("wrong-secret", time.Hour).Verify(token)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestClaimService_TamperedToken(t *testing.T) {
	svc := NewClaimService("super-secret", time.Hour)
	token, err := svc.Mint("a@x.com")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	forged, err := NewClaimService("other", time.Hour).Mint("evil@x.com")
	require.NoError(t, err)
	forgedParts := strings.Split(forged, ".")

	// Полезная нагрузка от другого токена с исходной подписью
	tampered := parts[0] + "." + forgedParts[1] + "." + parts[2]
	_, err = svc.Verify(tampered)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestClaimService_Expired(t *testing.T) {
	svc := NewClaimService("super-secret", time.Hour)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := svc.Mint("a@x.com")
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, apperrors.ErrExpiredToken)
}

func TestClaimService_RejectsNoneAlgorithm(t *testing.T) {
	claims := &SessionClaims{
		Email: "a@x.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewClaimService("super-secret", time.Hour).Verify(token)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestClaimService_EmptyInput(t *testing.T) {
	svc := NewClaimService("super-secret", time.Hour)

	_, err := svc.Mint("")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Verify("")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}
