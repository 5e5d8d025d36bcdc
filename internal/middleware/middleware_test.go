package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/shop-api/internal/domain/entity"
	apperrors "github.com/yourusername/shop-api/internal/pkg/errors"
	"github.com/yourusername/shop-api/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubIdentities отвечает из фиксированной карты email -> user
type stubIdentities struct {
	users map[string]*entity.User
	err   error
}

func (s *stubIdentities) FindIdentity(ctx context.Context, email string) (*entity.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if user, ok := s.users[email]; ok {
		return user, nil
	}
	return nil, apperrors.ErrNotFound
}

func parseMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	msg, _ := body["message"].(string)
	return msg
}

func newClaimRouter(verifier ClaimVerifier, identities IdentityFinder) *gin.Engine {
	r := gin.New()
	mw := NewAuthMiddleware(verifier, identities)
	r.GET("/me", mw.RequireClaim(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetUint(ContextKeyUserID),
			"email":   c.GetString(ContextKeyEmail),
		})
	})
	return r
}

func TestRequireClaim(t *testing.T) {
	claims := auth.NewClaimService("mw-secret", time.Hour)
	identities := &stubIdentities{users: map[string]*entity.User{
		"ada@shop.test": {ID: 5, Email: "ada@shop.test"},
	}}

	valid, err := claims.Mint("ada@shop.test")
	require.NoError(t, err)
	orphan, err := claims.Mint("gone@shop.test")
	require.NoError(t, err)
	foreign, err := auth.NewClaimService("other-secret", time.Hour).Mint("ada@shop.test")
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantMsg    string
	}{
		{"no header", "", http.StatusUnauthorized, MessageNoTokenFound},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized, MessageNoTokenFound},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized, MessageInvalidToken},
		{"foreign signature", "Bearer " + foreign, http.StatusUnauthorized, MessageInvalidToken},
		{"unknown identity", "Bearer " + orphan, http.StatusUnauthorized, MessageUserNotFound},
		{"valid claim", "Bearer " + valid, http.StatusOK, ""},
	}

	router := newClaimRouter(claims, identities)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, parseMessage(t, w))
			}
		})
	}

	t.Run("context carries identity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+valid)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, float64(5), body["user_id"])
		assert.Equal(t, "ada@shop.test", body["email"])
	})
}

func TestRequireClaim_MissingSecretIsServerError(t *testing.T) {
	router := newClaimRouter(auth.NewClaimService("", time.Hour), &stubIdentities{})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer some.token.value")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, MessageNoSecretKey, parseMessage(t, w))
}

func TestRequireClaim_StoreFailureIsServerError(t *testing.T) {
	claims := auth.NewClaimService("mw-secret", time.Hour)
	token, err := claims.Mint("ada@shop.test")
	require.NoError(t, err)

	router := newClaimRouter(claims, &stubIdentities{err: apperrors.ErrInternal})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestExtractUintParam(t *testing.T) {
	r := gin.New()
	r.GET("/product/:id", ExtractUintParam("id", "product_id", "Invalid product id"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.GetUint("product_id")})
	})

	for path, want := range map[string]int{
		"/product/12":  http.StatusOK,
		"/product/0":   http.StatusBadRequest,
		"/product/abc": http.StatusBadRequest,
		"/product/-1":  http.StatusBadRequest,
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, w.Code, path)
	}
}

func newLimitedRouter(t *testing.T, cfg RateLimitConfig) (*miniredis.Miniredis, *gin.Engine) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	limiter := NewRateLimiter(client)
	r := gin.New()
	r.POST("/user/send-signup-otp", limiter.Limit(cfg), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.POST("/user/signin", limiter.Limit(cfg), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return mr, r
}

func TestRateLimiter_BlocksAfterLimit(t *testing.T) {
	cfg := RateLimitConfig{MaxRequests: 2, Window: time.Minute, KeyPrefix: "rl:test"}
	mr, router := newLimitedRouter(t, cfg)

	send := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, send("/user/send-signup-otp").Code)
	w := send("/user/send-signup-otp")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = send("/user/send-signup-otp")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, MessageTooManyRequests, parseMessage(t, w))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// Другой маршрут считается отдельно
	assert.Equal(t, http.StatusOK, send("/user/signin").Code)

	// После окна счётчик сбрасывается
	mr.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusOK, send("/user/send-signup-otp").Code)
}

func TestRateLimiter_FailsOpenWhenRedisErrors(t *testing.T) {
	mr, router := newLimitedRouter(t, RateLimitConfig{MaxRequests: 1, Window: time.Minute, KeyPrefix: "rl:test"})
	mr.SetError("ERR injected failure")

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/user/signin", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
