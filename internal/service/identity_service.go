package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/yourusername/shop-api/internal/domain/entity"
	"github.com/yourusername/shop-api/internal/domain/repository"
	apperrors "github.com/yourusername/shop-api/internal/pkg/errors"
)

// DefaultOTPValidity — окно действия одноразового кода
const DefaultOTPValidity = time.Hour

// ClaimIssuer выпускает подписанный claim для email
type ClaimIssuer interface {
	Mint(email string) (string, error)
}

// IdentityService оркестрирует регистрацию, вход и сброс пароля,
// защищенные одноразовым кодом, отправленным на email.
// Состояние сценариев не хранится между запросами: только учетная запись и код в кеше.
type IdentityService struct {
	userRepo repository.UserRepository
	otpRepo  repository.OTPRepository
	codes    CodeGenerator
	mailer   EmailService
	claims   ClaimIssuer
	otpTTL   time.Duration
	now      func() time.Time
}

// SignupInput содержит данные для подтверждения регистрации
type SignupInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	OTP       string
}

// ResetPasswordInput содержит данные для подтверждения сброса пароля
type ResetPasswordInput struct {
	Email       string
	NewPassword string
	OTP         string
}

// NewIdentityService создает сервис и возвращает ошибку при отсутствии зависимостей
func NewIdentityService(
	userRepo repository.UserRepository,
	otpRepo repository.OTPRepository,
	codes CodeGenerator,
	mailer EmailService,
	claims ClaimIssuer,
	otpTTL time.Duration,
) (*IdentityService, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("UserRepository is required for IdentityService")
	}
	if otpRepo == nil {
		return nil, fmt.Errorf("OTPRepository is required for IdentityService")
	}
	if codes == nil {
		return nil, fmt.Errorf("CodeGenerator is required for IdentityService")
	}
	if mailer == nil {
		return nil, fmt.Errorf("EmailService is required for IdentityService")
	}
	if claims == nil {
		return nil, fmt.Errorf("ClaimIssuer is required for IdentityService")
	}
	if otpTTL <= 0 {
		otpTTL = DefaultOTPValidity
	}

	return &IdentityService{
		userRepo: userRepo,
		otpRepo:  otpRepo,
		codes:    codes,
		mailer:   mailer,
		claims:   claims,
		otpTTL:   otpTTL,
		now:      time.Now,
	}, nil
}

// RequestSignupOTP выдает код регистрации для еще не зарегистрированного email
// и возвращает claim, который только переносит email через клиента.
func (s *IdentityService) RequestSignupOTP(ctx context.Context, email string) (string, error) {
	email = normalizeEmail(email)

	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return "", ErrUserExists
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return "", internalError("check email existence", err)
	}

	if err := s.issueOTP(ctx, email, entity.OTPPurposeSignup); err != nil {
		return "", err
	}

	token, err := s.claims.Mint(email)
	if err != nil {
		log.Printf("[IdentityService] Ошибка выпуска claim для email=%s: %v", email, err)
		return "", internalError("mint signup claim", err)
	}

	log.Printf("[IdentityService] Код регистрации отправлен на email=%s", email)
	return token, nil
}

// ConfirmSignup проверяет код и создает учетную запись.
// Уникальность email повторно не проверяется: гонку закрывает уникальный индекс хранилища.
func (s *IdentityService) ConfirmSignup(ctx context.Context, input SignupInput) (*entity.User, error) {
	email := normalizeEmail(input.Email)

	if err := s.verifyOTP(ctx, email, entity.OTPPurposeSignup, input.OTP); err != nil {
		return nil, err
	}

	user := &entity.User{
		Email:     email,
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
	}
	if err := user.SetPassword(input.Password); err != nil {
		return nil, internalError("hash password", err)
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, ErrUserExists
		}
		return nil, internalError("create user", err)
	}

	s.consumeOTP(ctx, email)

	log.Printf("[IdentityService] Пользователь ID=%d (%s) успешно зарегистрирован", user.ID, user.Email)
	return user, nil
}

// SignIn проверяет пароль. Сессионный claim здесь не выпускается.
func (s *IdentityService) SignIn(ctx context.Context, email, password string) (*entity.User, error) {
	email = normalizeEmail(email)

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, internalError("get user by email", err)
	}

	if !user.CheckPassword(password) {
		log.Printf("[IdentityService] Неверный пароль для пользователя ID=%d", user.ID)
		return nil, ErrInvalidPassword
	}

	log.Printf("[IdentityService] Пользователь ID=%d (%s) успешно вошел в систему", user.ID, user.Email)
	return user, nil
}

// RequestResetOTP выдает код сброса пароля для существующей учетной записи
func (s *IdentityService) RequestResetOTP(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	if _, err := s.userRepo.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return ErrUserNotFound
		}
		return internalError("get user by email", err)
	}

	if err := s.issueOTP(ctx, email, entity.OTPPurposeReset); err != nil {
		return err
	}

	log.Printf("[IdentityService] Код сброса пароля отправлен на email=%s", email)
	return nil
}

// ConfirmResetPassword заменяет хеш пароля после проверки кода.
// Совпадение нового пароля с текущим проверяется до кода и прерывает сценарий.
func (s *IdentityService) ConfirmResetPassword(ctx context.Context, input ResetPasswordInput) error {
	email := normalizeEmail(input.Email)

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return ErrUserNotFound
		}
		return internalError("get user by email", err)
	}

	if user.CheckPassword(input.NewPassword) {
		return ErrSamePassword
	}

	if err := s.verifyOTP(ctx, email, entity.OTPPurposeReset, input.OTP); err != nil {
		return err
	}

	if err := user.SetPassword(input.NewPassword); err != nil {
		return internalError("hash password", err)
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return internalError("save user", err)
	}

	s.consumeOTP(ctx, email)

	log.Printf("[IdentityService] Пароль пользователя ID=%d успешно сброшен", user.ID)
	return nil
}

// FindIdentity возвращает учетную запись по email (для проверки claim)
func (s *IdentityService) FindIdentity(ctx context.Context, email string) (*entity.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, internalError("get user by email", err)
	}
	return user, nil
}

// issueOTP генерирует код, кладет его в кеш (перезаписывая прежний) и отправляет письмо
func (s *IdentityService) issueOTP(ctx context.Context, email string, purpose entity.OTPPurpose) error {
	code, err := s.codes.Issue()
	if err != nil {
		return internalError("generate otp", err)
	}

	record := entity.NewOneTimeCode(email, code, purpose, s.now(), s.otpTTL)
	if err := s.otpRepo.Save(ctx, record); err != nil {
		return internalError("store otp", err)
	}

	mail := signupOTPMail(code)
	if purpose == entity.OTPPurposeReset {
		mail = resetOTPMail(code)
	}
	if err := s.mailer.Send(ctx, email, mail.Subject, mail.Body); err != nil {
		log.Printf("[IdentityService] Ошибка отправки письма на email=%s: %v", email, err)
		return internalError("send otp mail", err)
	}
	return nil
}

// verifyOTP сравнивает переданный код с последним выданным.
// Отсутствующий или истекший код считается несовпадением.
func (s *IdentityService) verifyOTP(ctx context.Context, email string, purpose entity.OTPPurpose, otp string) error {
	stored, err := s.otpRepo.Get(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return ErrOTPMismatch
		}
		return internalError("get otp", err)
	}

	if !stored.Matches(purpose, strings.TrimSpace(otp)) {
		log.Printf("[IdentityService] Неверный код (%s) для email=%s", purpose, email)
		return ErrOTPMismatch
	}
	return nil
}

// consumeOTP инвалидирует использованный код. Ошибка не отменяет уже выполненное изменение.
func (s *IdentityService) consumeOTP(ctx context.Context, email string) {
	if err := s.otpRepo.Delete(ctx, email); err != nil {
		log.Printf("[IdentityService] Не удалось удалить использованный код для email=%s: %v", email, err)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
