package token_test

import (
	"testing"
	"time"

	"github.com/rentora/rentora-backend/pkg/config"
	"github.com/rentora/rentora-backend/pkg/errors"
	"github.com/rentora/rentora-backend/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(secret string, expiry time.Duration) *token.Manager {
	return token.NewManager(&config.AuthConfig{
		Enabled:      true,
		Secret:       secret,
		Issuer:       "rentora",
		AccessExpiry: expiry,
	})
}

func TestManager_RoundTrip(t *testing.T) {
	tm := newManager("test-secret", 15*time.Minute)

	signed, err := tm.GenerateAccessToken("user-123", "tenant")
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := tm.ValidateAccessToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "tenant", claims.Role)
	assert.Equal(t, "rentora", claims.Issuer)
}

func TestManager_ExpiredToken(t *testing.T) {
	tm := newManager("test-secret", -1*time.Minute)

	signed, err := tm.GenerateAccessToken("user-123", "tenant")
	require.NoError(t, err)

	_, err = tm.ValidateAccessToken(signed)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrTokenExpired), "expected token expired error, got %v", err)
}

func TestManager_WrongSecret(t *testing.T) {
	signed, err := newManager("secret-a", 15*time.Minute).GenerateAccessToken("user-123", "tenant")
	require.NoError(t, err)

	_, err = newManager("secret-b", 15*time.Minute).ValidateAccessToken(signed)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrTokenInvalid), "expected invalid token error, got %v", err)
}

func TestManager_Garbage(t *testing.T) {
	tm := newManager("test-secret", 15*time.Minute)

	_, err := tm.ValidateAccessToken("not.a.token")
	require.Error(t, err)
}
