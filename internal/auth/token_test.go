package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenGenerator_RoundTrip(t *testing.T) {
	tg := NewTokenGenerator("test-secret", time.Hour)

	token, err := tg.GenerateToken("gallery-client")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := tg.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "gallery-client", subject)
}

func TestTokenGenerator_RejectsWrongSecret(t *testing.T) {
	tg := NewTokenGenerator("test-secret", time.Hour)
	other := NewTokenGenerator("other-secret", time.Hour)

	token, err := tg.GenerateToken("gallery-client")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestTokenGenerator_RejectsExpiredToken(t *testing.T) {
	tg := NewTokenGenerator("test-secret", -time.Minute)

	token, err := tg.GenerateToken("gallery-client")
	require.NoError(t, err)

	_, err = tg.ValidateToken(token)
	assert.Error(t, err)
}

func TestTokenGenerator_RejectsGarbage(t *testing.T) {
	tg := NewTokenGenerator("test-secret", time.Hour)

	_, err := tg.ValidateToken("not-a-token")
	assert.Error(t, err)
}
