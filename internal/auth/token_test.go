package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager(t *testing.T) {
	t.Run("should round-trip claims", func(t *testing.T) {
		tm := NewTokenManager("secret", 5)
		require.True(t, tm.Enabled())

		token, expiresAt, err := tm.GenerateToken("poller")
		require.NoError(t, err)
		assert.True(t, expiresAt.After(time.Now()))

		claims, err := tm.ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, "poller", claims.Caller)
	})

	t.Run("should reject tokens from another secret", func(t *testing.T) {
		issuer := NewTokenManager("secret-a", 5)
		verifier := NewTokenManager("secret-b", 5)

		token, _, err := issuer.GenerateToken("poller")
		require.NoError(t, err)

		_, err = verifier.ParseToken(token)
		assert.Error(t, err)
	})

	t.Run("should reject garbage tokens", func(t *testing.T) {
		tm := NewTokenManager("secret", 5)
		_, err := tm.ParseToken("not.a.token")
		assert.Error(t, err)
	})

	t.Run("should report disabled without a secret", func(t *testing.T) {
		tm := NewTokenManager("", 5)
		assert.False(t, tm.Enabled())
	})
}
