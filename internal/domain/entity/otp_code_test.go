package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewOneTimeCode_Window(t *testing.T) {
	issued := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	code := NewOneTimeCode("a@x.com", "123456", OTPPurposeSignup, issued, time.Hour)

	assert.Equal(t, issued.Add(time.Hour), code.ExpiresAt)
	assert.Equal(t, time.Hour, code.TTL())

	assert.False(t, code.IsExpired(issued))
	assert.False(t, code.IsExpired(issued.Add(59*time.Minute)))
	assert.True(t, code.IsExpired(issued.Add(time.Hour)), "граница окна уже считается истекшей")
	assert.True(t, code.IsExpired(issued.Add(2*time.Hour)))
}

func TestOneTimeCode_Matches(t *testing.T) {
	code := NewOneTimeCode("a@x.com", "123456", OTPPurposeReset, time.Now(), time.Hour)

	tests := []struct {
		name    string
		purpose OTPPurpose
		value   string
		want    bool
	}{
		{"same purpose and code", OTPPurposeReset, "123456", true},
		{"other purpose", OTPPurposeSignup, "123456", false},
		{"wrong code", OTPPurposeReset, "654321", false},
		{"prefix of code", OTPPurposeReset, "12345", false},
		{"empty code", OTPPurposeReset, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, code.Matches(tt.purpose, tt.value))
		})
	}
}
