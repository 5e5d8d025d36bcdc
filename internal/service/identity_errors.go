package service

import (
	"fmt"

	apperrors "github.com/yourusername/shop-api/internal/pkg/errors"
)

// Ошибки сценариев identity. Каждая оборачивает общую категорию из apperrors,
// обработчики сопоставляют их через errors.Is.
var (
	ErrUserExists      = fmt.Errorf("%w: email already in use", apperrors.ErrConflict)
	ErrUserNotFound    = fmt.Errorf("%w: user does not exist", apperrors.ErrNotFound)
	ErrInvalidPassword = fmt.Errorf("%w: password is incorrect", apperrors.ErrValidation)
	ErrSamePassword    = fmt.Errorf("%w: new password can not be same as the old password", apperrors.ErrConflict)
	ErrOTPMismatch     = fmt.Errorf("%w: otp mismatch", apperrors.ErrUnauthorized)
)

// internalError помечает сбой инфраструктуры как INTERNAL, сохраняя причину для логов
func internalError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", apperrors.ErrInternal, op, err)
}
