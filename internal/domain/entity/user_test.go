package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUser_SetPassword_StoresBcryptHash(t *testing.T) {
	// Arrange
	plainPassword := "Abcd123!"
	user := &User{Email: "test@example.com"}

	// Act
	err := user.SetPassword(plainPassword)

	// Assert: сохраняется только хеш
	require.NoError(t, err)
	assert.NotEqual(t, plainPassword, user.Password, "Открытый пароль не должен сохраняться")
	assert.True(t, len(user.Password) > 50, "Хеш bcrypt должен быть длиннее 50 символов")

	cost, err := bcrypt.Cost([]byte(user.Password))
	require.NoError(t, err)
	assert.Equal(t, PasswordHashCost, cost)
}

func TestUser_SetPassword_IsSalted(t *testing.T) {
	a := &User{}
	b := &User{}
	require.NoError(t, a.SetPassword("Abcd123!"))
	require.NoError(t, b.SetPassword("Abcd123!"))

	assert.NotEqual(t, a.Password, b.Password, "Одинаковые пароли должны давать разные хеши")
}

func TestUser_CheckPassword(t *testing.T) {
	user := &User{}
	require.NoError(t, user.SetPassword("Abcd123!"))

	assert.True(t, user.CheckPassword("Abcd123!"))
	assert.False(t, user.CheckPassword("abcd123!"))
	assert.False(t, user.CheckPassword(""))
}

func TestUser_CheckPassword_EmptyHash(t *testing.T) {
	user := &User{}
	assert.False(t, user.CheckPassword(""))
	assert.False(t, user.CheckPassword("anything"))
}

func TestUser_SetPassword_TooLong(t *testing.T) {
	// bcrypt отклоняет пароли длиннее 72 байт
	user := &User{}
	long := make([]byte, 73)
	for i := range long {
		long[i] = 'a'
	}
	assert.Error(t, user.SetPassword(string(long)))
	assert.Empty(t, user.Password)
}
