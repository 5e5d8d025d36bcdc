package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется для ошибок авторизации (неверный токен, неверный код подтверждения).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrValidation используется для ошибок валидации входных данных.
	ErrValidation = errors.New("validation failed")

	// ErrExpiredToken используется, когда подписанный токен истек.
	ErrExpiredToken = errors.New("token is expired")

	// ErrConflict используется для конфликтов состояния (дубликат аккаунта, тот же пароль при сбросе).
	ErrConflict = errors.New("resource state conflict")

	// ErrInternal используется для сбоев хранилища, кеша, почты и отсутствующей конфигурации.
	// Клиенту такая ошибка отдается только в виде общего сообщения.
	ErrInternal = errors.New("internal error")
)
