package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/shop-api/internal/handler/dto"
	"github.com/yourusername/shop-api/internal/middleware"
	apperrors "github.com/yourusername/shop-api/internal/pkg/errors"
	"github.com/yourusername/shop-api/internal/service"
	"github.com/yourusername/shop-api/pkg/auth"
)

// UserHandler обрабатывает запросы /user: выдачу кодов, регистрацию, вход и сброс пароля
type UserHandler struct {
	identityService *service.IdentityService
}

// NewUserHandler создает новый обработчик пользователей
func NewUserHandler(identityService *service.IdentityService) *UserHandler {
	RegisterValidators()
	return &UserHandler{
		identityService: identityService,
	}
}

// Структуры запросов

// OTPRequest представляет запрос на выдачу одноразового кода
type OTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// SignupRequest представляет запрос на подтверждение регистрации
type SignupRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,strongpassword"`
	FirstName string `json:"firstName" binding:"required,alpha"`
	LastName  string `json:"lastName" binding:"required,alpha"`
	OTP       string `json:"otp" binding:"required,numeric"`
}

// SigninRequest представляет запрос на вход
type SigninRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ResetPasswordRequest представляет запрос на подтверждение сброса пароля
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	NewPassword string `json:"newPassword" binding:"required,strongpassword"`
	OTP         string `json:"otp" binding:"required,numeric"`
}

// SendSignupOTP обрабатывает POST /user/send-signup-otp
func (h *UserHandler) SendSignupOTP(c *gin.Context) {
	var req OTPRequest
	if !bindJSON(c, &req) {
		return
	}

	token, err := h.identityService.RequestSignupOTP(c.Request.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserExists):
			c.JSON(http.StatusConflict, gin.H{"message": MessageUserExists})
		case errors.Is(err, auth.ErrSigningSecretMissing):
			logInternal("SendSignupOTP", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": MessageNoSecretKey})
		default:
			logInternal("SendSignupOTP", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": MessageOTPError})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": MessageOTPSuccess,
		"result":  gin.H{"token": token},
	})
}

// Signup обрабатывает POST /user/signup
func (h *UserHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.identityService.ConfirmSignup(c.Request.Context(), service.SignupInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		OTP:       req.OTP,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOTPMismatch):
			c.JSON(http.StatusUnauthorized, gin.H{"message": MessageOTPMismatch})
		case errors.Is(err, service.ErrUserExists):
			c.JSON(http.StatusConflict, gin.H{"message": MessageUserExists})
		default:
			logInternal("Signup", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": MessageSignupError})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": MessageSignupSuccess,
		"userId":  user.ID,
	})
}

// Signin обрабатывает POST /user/signin
func (h *UserHandler) Signin(c *gin.Context) {
	var req SigninRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.identityService.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": MessageUserNotFound})
		case errors.Is(err, service.ErrInvalidPassword):
			c.JSON(http.StatusBadRequest, gin.H{"message": MessageInvalidPassword})
		default:
			logInternal("Signin", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": MessageSigninError})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": MessageSigninSuccess,
		"userId":  user.ID,
	})
}

// SendResetPasswordOTP обрабатывает POST /user/reset-password-otp
func (h *UserHandler) SendResetPasswordOTP(c *gin.Context) {
	var req OTPRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.identityService.RequestResetOTP(c.Request.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusConflict, gin.H{"message": MessageUserNotFound})
		default:
			logInternal("SendResetPasswordOTP", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": MessageOTPError})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": MessageOTPSuccess})
}

// ResetPassword обрабатывает POST /user/reset-password
func (h *UserHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	err := h.identityService.ConfirmResetPassword(c.Request.Context(), service.ResetPasswordInput{
		Email:       req.Email,
		NewPassword: req.NewPassword,
		OTP:         req.OTP,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSamePassword):
			c.JSON(http.StatusConflict, gin.H{"message": MessageNewPasswordMismatch})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusConflict, gin.H{"message": MessageUserNotFound})
		case errors.Is(err, service.ErrOTPMismatch):
			c.JSON(http.StatusUnauthorized, gin.H{"message": MessageOTPMismatch})
		default:
			logInternal("ResetPassword", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": MessageResetPasswordError})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": MessageResetPasswordSuccess})
}

// Me обрабатывает GET /user/me. Требует middleware RequireClaim.
func (h *UserHandler) Me(c *gin.Context) {
	email := c.GetString(middleware.ContextKeyEmail)
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": middleware.MessageNoTokenFound})
		return
	}

	user, err := h.identityService.FindIdentity(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": MessageUserNotFound})
			return
		}
		logInternal("Me", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": middleware.MessageInternalError})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": MessageUserFetchSuccess,
		"result":  gin.H{"user": dto.NewUserDTO(user)},
	})
}

// bindJSON разбирает тело запроса и отвечает 400 со списком полей при ошибке
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": MessageInvalidRequest,
			"errors":  validationErrors(err),
		})
		return false
	}
	return true
}

// logInternal логирует полную ошибку; клиент получает только фиксированное сообщение
func logInternal(op string, err error) {
	log.Printf("[UserHandler] %s: %v", op, err)
}
