package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{name: "Valid password", password: "password123"},
		{name: "Empty password", password: ""},
		{name: "Long password", password: "this-is-a-very-long-password-with-special-chars!@#$%^&*()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)
			require.NoError(t, err)
			assert.NotEmpty(t, hash)
			assert.NotEqual(t, tt.password, hash)
			assert.Contains(t, hash, "$2a$")
		})
	}
}

func TestVerifyPassword(t *testing.T) {
	password := "mySecurePassword123"
	hash, err := HashPassword(password)
	require.NoError(t, err)

	tests := []struct {
		name           string
		hashedPassword string
		password       string
		want           bool
	}{
		{name: "Correct password", hashedPassword: hash, password: password, want: true},
		{name: "Incorrect password", hashedPassword: hash, password: "wrongPassword", want: false},
		{name: "Empty password", hashedPassword: hash, password: "", want: false},
		{name: "Invalid hash", hashedPassword: "invalid-hash", password: password, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VerifyPassword(tt.hashedPassword, tt.password))
		})
	}
}

func TestHashPasswordSalted(t *testing.T) {
	password := "testPassword"

	hash1, err1 := HashPassword(password)
	hash2, err2 := HashPassword(password)

	require.NoError(t, err1)
	require.NoError(t, err2)

	assert.NotEqual(t, hash1, hash2)
	assert.True(t, VerifyPassword(hash1, password))
	assert.True(t, VerifyPassword(hash2, password))
}

func TestGenerateSecureToken(t *testing.T) {
	token1, err := GenerateSecureToken(32)
	require.NoError(t, err)
	assert.Len(t, token1, 64)

	token2, err := GenerateSecureToken(32)
	require.NoError(t, err)
	assert.NotEqual(t, token1, token2)
}
