package dto

import "github.com/yourusername/shop-api/internal/domain/entity"

// UserDTO — публичное представление учетной записи, без хеша пароля
type UserDTO struct {
	ID        uint   `json:"id"`        // ID пользователя
	Email     string `json:"email"`     // Email, натуральный ключ
	FirstName string `json:"firstName"` // Имя
	LastName  string `json:"lastName"`  // Фамилия
}

// NewUserDTO строит DTO из сущности
func NewUserDTO(user *entity.User) *UserDTO {
	if user == nil {
		return nil
	}
	return &UserDTO{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}
