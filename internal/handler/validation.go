package handler

import (
	"errors"
	"log"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	passwordSpecialChars = "!@#$%^&*"
	passwordMinChars     = 8
	// bcrypt не принимает пароли длиннее 72 байт
	passwordMaxBytes = 72
)

var registerValidatorsOnce sync.Once

// RegisterValidators регистрирует кастомные теги валидации в движке gin.
// Безопасно вызывать многократно.
func RegisterValidators() {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			log.Printf("[Validation] Движок валидации gin не является validator.Validate, теги не зарегистрированы")
			return
		}
		if err := v.RegisterValidation("strongpassword", validateStrongPassword); err != nil {
			log.Printf("[Validation] Ошибка регистрации strongpassword: %v", err)
		}
	})
}

// validateStrongPassword: от 8 символов до 72 байт, строчная и заглавная буква, цифра и спецсимвол
func validateStrongPassword(fl validator.FieldLevel) bool {
	return isStrongPassword(fl.Field().String())
}

func isStrongPassword(password string) bool {
	if utf8.RuneCountInString(password) < passwordMinChars || len(password) > passwordMaxBytes {
		return false
	}
	var lower, upper, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSpecialChars, r):
			special = true
		}
	}
	return lower && upper && digit && special
}

// FieldError описывает ошибку валидации одного поля запроса
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// validationErrors превращает ошибку биндинга в список полей.
// Ошибки разбора JSON дают пустой список.
func validationErrors(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: jsonFieldName(fe), Rule: fe.Tag()})
	}
	return out
}

// jsonFieldName приводит имя поля структуры к виду из JSON (FirstName -> firstName)
func jsonFieldName(fe validator.FieldError) string {
	name := fe.Field()
	if name == "" {
		return name
	}
	if name == "OTP" {
		return "otp"
	}
	return strings.ToLower(name[:1]) + name[1:]
}
