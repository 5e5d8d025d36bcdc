package service

import (
	"bytes"
	"context"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureLog перенаправляет стандартный логгер в буфер на время теста
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(prev) })
	return &buf
}

func TestNewEmailService_NoopWarnsInRelease(t *testing.T) {
	t.Setenv("GIN_MODE", "release")
	buf := captureLog(t)

	mailer, err := NewEmailService(MailProviderNoop, "", "")
	require.NoError(t, err)
	assert.IsType(t, &NoopEmailService{}, mailer)
	assert.Contains(t, buf.String(), "will NOT be delivered")
}

func TestNewEmailService_NoopInDebug(t *testing.T) {
	t.Setenv("GIN_MODE", "debug")
	buf := captureLog(t)

	_, err := NewEmailService(MailProviderNoop, "", "")
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "will NOT be delivered")
}

func TestNewEmailService_Providers(t *testing.T) {
	mailer, err := NewEmailService(MailProviderResend, "re_test_key", "shop@example.com")
	require.NoError(t, err)
	assert.IsType(t, &ResendEmailService{}, mailer)

	_, err = NewEmailService(MailProviderResend, "", "shop@example.com")
	assert.Error(t, err)

	_, err = NewEmailService("smtp", "", "")
	assert.Error(t, err)
}

func TestNoopEmailService_DoesNotLogBody(t *testing.T) {
	buf := captureLog(t)

	mail := signupOTPMail("482913")
	require.NoError(t, (&NoopEmailService{}).Send(context.Background(), "a@x.com", mail.Subject, mail.Body))
	assert.Contains(t, buf.String(), "a@x.com")
	assert.NotContains(t, buf.String(), "482913")
}
