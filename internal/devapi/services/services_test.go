package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestTokenIssuer(t *testing.T) {
	ctx := context.Background()

	issuer, err := NewTokenIssuer("secret", time.Minute, time.Hour)
	require.NoError(t, err)

	t.Run("access round trip", func(t *testing.T) {
		token, err := issuer.GenerateAccessToken(ctx, 7, "alice")
		require.NoError(t, err)

		claims, err := issuer.ValidateAccessToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, int64(7), claims.UserID)
		assert.Equal(t, "alice", claims.Username)
	})

	t.Run("refresh token is not an access token", func(t *testing.T) {
		token, err := issuer.GenerateRefreshToken(ctx, 7)
		require.NoError(t, err)

		_, err = issuer.ValidateAccessToken(ctx, token)
		require.ErrorIs(t, err, ErrWrongTokenType)

		claims, err := issuer.ValidateRefreshToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, int64(7), claims.UserID)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := issuer.GenerateAccessToken(ctx, 7, "alice")
		require.NoError(t, err)

		late := *issuer
		late.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
		_, err = late.ValidateAccessToken(ctx, token)
		require.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("foreign signature", func(t *testing.T) {
		other, err := NewTokenIssuer("other", time.Minute, time.Hour)
		require.NoError(t, err)
		token, err := other.GenerateAccessToken(ctx, 7, "alice")
		require.NoError(t, err)

		_, err = issuer.ValidateAccessToken(ctx, token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong algorithm", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 7, TokenType: TokenTypeAccess}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = issuer.ValidateAccessToken(ctx, token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := issuer.ValidateAccessToken(ctx, "not-a-jwt")
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("empty secret", func(t *testing.T) {
		_, err := NewTokenIssuer("", time.Minute, time.Hour)
		require.ErrorIs(t, err, ErrEmptySecret)
	})
}

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("password1")
	require.NoError(t, err)

	ok, err := h.Verify("password1", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("password2", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = h.Hash("short")
	require.ErrorIs(t, err, ErrInvalidPassword)

	_, err = h.Verify("", hash)
	require.ErrorIs(t, err, ErrInvalidPassword)

	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(0).cost)
}
