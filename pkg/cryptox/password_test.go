package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "secret123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"max length password", strings.Repeat("a", MaxPasswordBytes)},
		{"unicode password", "пароль🔒密码"},
		{"whitespace password", "   spaces   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password, DefaultCost)
			require.NoError(t, err)
			require.NotEqual(t, tt.password, hash)
			require.NotContains(t, hash, tt.password)
			require.True(t, strings.HasPrefix(hash, "$2a$10$"), "bcrypt hash at cost 10 expected, got %q", hash)

			require.NoError(t, VerifyPassword(tt.password, hash))
		})
	}
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	hash1, err := HashPassword("samepassword", DefaultCost)
	require.NoError(t, err)
	hash2, err := HashPassword("samepassword", DefaultCost)
	require.NoError(t, err)

	require.NotEqual(t, hash1, hash2, "hashes should differ due to unique salts")
	require.NoError(t, VerifyPassword("samepassword", hash1))
	require.NoError(t, VerifyPassword("samepassword", hash2))
}

func TestHashPassword_Cost(t *testing.T) {
	hash, err := HashPassword("secret123", 4)
	require.NoError(t, err)
	cost, err := HashCost(hash)
	require.NoError(t, err)
	require.Equal(t, 4, cost)

	// Out of range falls back to the default.
	hash, err = HashPassword("secret123", 99)
	require.NoError(t, err)
	cost, err = HashCost(hash)
	require.NoError(t, err)
	require.Equal(t, DefaultCost, cost)
}

func TestHashPassword_TooLong(t *testing.T) {
	_, err := HashPassword(strings.Repeat("a", MaxPasswordBytes+1), DefaultCost)
	require.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestVerifyPassword_WrongPassword(t *testing.T) {
	hash, err := HashPassword("correct-password", 4)
	require.NoError(t, err)

	for _, wrong := range []string{"wrong-password", "Correct-Password", "correct-password ", "", "correct-passwor"} {
		err := VerifyPassword(wrong, hash)
		require.ErrorIs(t, err, ErrPasswordMismatch, "password %q", wrong)
	}
}

func TestVerifyPassword_InvalidHash(t *testing.T) {
	for _, hash := range []string{"", "secret123", "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA", "$2a$10$short"} {
		err := VerifyPassword("secret123", hash)
		require.ErrorIs(t, err, ErrPasswordMismatch, "hash %q", hash)
	}
}
