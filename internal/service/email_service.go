package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/resend/resend-go/v2"
)

// EmailService отправляет транзакционные письма (Notification Dispatcher)
type EmailService interface {
	Send(ctx context.Context, toEmail, subject, htmlBody string) error
}

// NoopEmailService используется, когда почтовый провайдер не настроен.
// Тело письма не логируется: в нем одноразовый код.
type NoopEmailService struct{}

func (s *NoopEmailService) Send(ctx context.Context, toEmail, subject, htmlBody string) error {
	log.Printf("[EmailService] noop send to=%s subject=%q", toEmail, subject)
	return nil
}

// Поддерживаемые почтовые провайдеры
const (
	MailProviderNoop   = "noop"
	MailProviderResend = "resend"
)

// NewEmailService выбирает отправителя по имени провайдера.
// noop в release-режиме допустим, но коды никому не доставляются, поэтому об этом громко пишется в лог.
func NewEmailService(provider, apiKey, from string) (EmailService, error) {
	switch provider {
	case MailProviderResend:
		mailer, err := NewResendEmailService(apiKey, from)
		if err != nil {
			return nil, fmt.Errorf("init resend mailer: %w", err)
		}
		return mailer, nil
	case MailProviderNoop, "":
		if os.Getenv("GIN_MODE") == "release" {
			log.Println("[EmailService] WARNING: mail provider is noop in release mode, OTP codes will NOT be delivered (set mail.provider=resend)")
		} else {
			log.Println("[EmailService] Почтовый провайдер не настроен, письма только логируются")
		}
		return &NoopEmailService{}, nil
	default:
		return nil, fmt.Errorf("unsupported mail provider: %s", provider)
	}
}

// ResendEmailService отправляет письма через Resend REST API
type ResendEmailService struct {
	from   string
	client *resend.Client
}

func NewResendEmailService(apiKey, from string) (*ResendEmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend api key is required")
	}
	if from == "" {
		return nil, fmt.Errorf("email from is required")
	}
	return &ResendEmailService{
		from:   from,
		client: resend.NewClient(apiKey),
	}, nil
}

// Send делает одну попытку отправки; повтор остается на вызывающей стороне
func (s *ResendEmailService) Send(ctx context.Context, toEmail, subject, htmlBody string) error {
	if strings.TrimSpace(toEmail) == "" || htmlBody == "" {
		return fmt.Errorf("toEmail and body are required")
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{toEmail},
		Subject: subject,
		Html:    htmlBody,
	}
	options := &resend.SendEmailOptions{
		IdempotencyKey: "otp-mail:" + uuid.NewString(),
	}

	if _, err := s.client.Emails.SendWithOptions(ctx, params, options); err != nil {
		return fmt.Errorf("resend send failed: %w", err)
	}
	return nil
}

// otpMail описывает письмо с одноразовым кодом
type otpMail struct {
	Subject string
	Body    string
}

func signupOTPMail(code string) otpMail {
	return otpMail{
		Subject: "Account Verification",
		Body: fmt.Sprintf("<h1>Account Verification Code</h1>"+
			"<p>The code for verifying your account is: %s</p>", code),
	}
}

func resetOTPMail(code string) otpMail {
	return otpMail{
		Subject: "Reset Password",
		Body:    fmt.Sprintf("<h1>Password</h1><p>The code for reseting your password is: %s</p>", code),
	}
}
