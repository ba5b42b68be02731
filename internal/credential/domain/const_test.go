package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/credvault/internal/errors"
)

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      Algorithm
		shouldErr bool
	}{
		{"aes-gcm", "aes-gcm", AESGCM, false},
		{"chacha20-poly1305", "chacha20-poly1305", ChaCha20, false},
		{"unknown algorithm", "des-cbc", "", true},
		{"empty string", "", "", true},
		{"wrong case", "AES-GCM", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAlgorithm(tt.input)
			if tt.shouldErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
				assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseKDFAlgorithm(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      KDFAlgorithm
		shouldErr bool
	}{
		{"pbkdf2-sha256", "pbkdf2-sha256", PBKDF2SHA256, false},
		{"argon2id", "argon2id", Argon2id, false},
		{"unknown function", "scrypt", "", true},
		{"empty string", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseKDFAlgorithm(tt.input)
			if tt.shouldErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
