package entity

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHashCost — cost factor bcrypt для хеширования паролей
const PasswordHashCost = bcrypt.DefaultCost

// User представляет учетную запись пользователя (Identity), email — натуральный ключ
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"size:100;not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"size:100;not null" json:"-"`
	FirstName string    `gorm:"size:100;not null;default:''" json:"firstName"`
	LastName  string    `gorm:"size:100;not null;default:''" json:"lastName"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName определяет имя таблицы для GORM
func (User) TableName() string {
	return "users"
}

// HashPassword возвращает bcrypt-хеш пароля. Открытый пароль нигде не сохраняется.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), PasswordHashCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// SetPassword заменяет хеш пароля пользователя хешем нового пароля
func (u *User) SetPassword(password string) error {
	hashed, err := HashPassword(password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return nil
}

// CheckPassword проверяет, соответствует ли переданный пароль хешу
func (u *User) CheckPassword(password string) bool {
	if u.Password == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}
