package devserver

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokens(t *testing.T) {
	t.Run("Issued access token verifies", func(t *testing.T) {
		tokens := NewTokens([]byte("k"), time.Minute, time.Hour)

		pair, err := tokens.Issue("user-1")
		require.NoError(t, err)

		userID, err := tokens.Verify(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "user-1", userID)
	})

	t.Run("Expired access token", func(t *testing.T) {
		tokens := NewTokens([]byte("k"), time.Minute, time.Hour)
		pair, err := tokens.Issue("user-1")
		require.NoError(t, err)

		tokens.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

		_, err = tokens.Verify(pair.AccessToken)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("Foreign key", func(t *testing.T) {
		pair, err := NewTokens([]byte("other"), time.Minute, time.Hour).Issue("user-1")
		require.NoError(t, err)

		_, err = NewTokens([]byte("k"), time.Minute, time.Hour).Verify(pair.AccessToken)
		assert.Error(t, err)
	})

	t.Run("Unsigned token", func(t *testing.T) {
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "user-1"}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = NewTokens([]byte("k"), time.Minute, time.Hour).Verify(unsigned)
		assert.Error(t, err)
	})

	t.Run("Expired refresh token", func(t *testing.T) {
		tokens := NewTokens([]byte("k"), time.Minute, time.Hour)
		refresh := tokens.Bootstrap("user-1")

		tokens.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

		_, err := tokens.Refresh(refresh)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})
}
