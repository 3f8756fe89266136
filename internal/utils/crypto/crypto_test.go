package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret1", 10)
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)

	// A second hash of the same plaintext must differ (fresh salt).
	hash2, err := HashPassword("secret1", 10)
	require.NoError(t, err)
	assert.NotEqual(t, hash, hash2)
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret1", 10)
	require.NoError(t, err)

	assert.NoError(t, CheckPassword("secret1", hash))
	assert.Error(t, CheckPassword("wrong-password", hash))
}

func TestIsStrong(t *testing.T) {
	tests := []struct {
		password string
		want     bool
	}{
		{"secret1", true},
		{"abc123", true},
		{"a1b2c", false},   // too short
		{"abcdef", false},  // no digit
		{"123456", false},  // no letter
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsStrong(tt.password), "password %q", tt.password)
	}
}
