package entity

import (
	"crypto/subtle"
	"time"
)

// OTPPurpose определяет, какой сценарий подтверждает одноразовый код
type OTPPurpose string

const (
	OTPPurposeSignup OTPPurpose = "signup"
	OTPPurposeReset  OTPPurpose = "reset"
)

// OneTimeCode — одноразовый код, выданный для email.
// На один email в кеше хранится не больше одного живого кода.
type OneTimeCode struct {
	Email     string     `json:"email"`
	Code      string     `json:"code"`
	Purpose   OTPPurpose `json:"purpose"`
	IssuedAt  time.Time  `json:"issued_at"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// NewOneTimeCode создает код с окном действия ttl начиная с issuedAt
func NewOneTimeCode(email, code string, purpose OTPPurpose, issuedAt time.Time, ttl time.Duration) *OneTimeCode {
	return &OneTimeCode{
		Email:     email,
		Code:      code,
		Purpose:   purpose,
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(ttl),
	}
}

// TTL возвращает окно действия кода
func (c *OneTimeCode) TTL() time.Duration {
	return c.ExpiresAt.Sub(c.IssuedAt)
}

// IsExpired сообщает, истекло ли окно действия кода к моменту now
func (c *OneTimeCode) IsExpired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// Matches сравнивает код за постоянное время; код другого назначения не подходит
func (c *OneTimeCode) Matches(purpose OTPPurpose, code string) bool {
	if c.Purpose != purpose || code == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(c.Code), []byte(code)) == 1
}
