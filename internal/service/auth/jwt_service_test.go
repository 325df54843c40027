package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donelist/donelist-api/internal/config"
)

const testSecret = "test-secret-that-is-at-least-32-chars-long"

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:            testSecret,
		TokenLifetimeMinutes: 60,
	}
}

func newTestService(t *testing.T) *hmacJWTService {
	t.Helper()
	svc, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)
	return svc.(*hmacJWTService)
}

func TestNewJWTServiceRejectsShortSecret(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService(config.AuthConfig{
		JWTSecret:            "too-short",
		TokenLifetimeMinutes: 60,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "32 characters")
}

func TestGenerateAndValidateToken(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	token, err := svc.GenerateToken(ctx, "user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.NotEmpty(t, claims.ID)
	assert.True(t, claims.ExpiresAt.After(claims.IssuedAt))
}

func TestGenerateTokenRejectsEmptyUserID(t *testing.T) {
	t.Parallel()

	_, err := newTestService(t).GenerateToken(context.Background(), "")
	require.Error(t, err)
}

func TestValidateTokenFailures(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	t.Run("missing token", func(t *testing.T) {
		t.Parallel()
		_, err := svc.ValidateToken(ctx, "")
		assert.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("malformed token", func(t *testing.T) {
		t.Parallel()
		_, err := svc.ValidateToken(ctx, "not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		t.Parallel()

		other, err := NewJWTService(config.AuthConfig{
			JWTSecret:            "a-different-secret-also-32-chars-x",
			TokenLifetimeMinutes: 60,
		})
		require.NoError(t, err)

		token, err := other.GenerateToken(ctx, "user-123")
		require.NoError(t, err)

		_, err = svc.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		t.Parallel()

		issuer := newTestService(t)
		issuer.timeFunc = func() time.Time { return time.Now().Add(-24 * time.Hour) }

		token, err := issuer.GenerateToken(ctx, "user-123")
		require.NoError(t, err)

		_, err = svc.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("missing subject", func(t *testing.T) {
		t.Parallel()

		now := time.Now()
		raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		})
		token, err := raw.SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = svc.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong algorithm rejected", func(t *testing.T) {
		t.Parallel()

		// alg=none tokens must never validate.
		raw := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
			Subject:   "user-123",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})
		token, err := raw.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestClockSkewTolerance(t *testing.T) {
	t.Parallel()

	// A token issued slightly in the future (issuer clock ahead) validates.
	issuer := newTestService(t)
	issuer.timeFunc = func() time.Time { return time.Now().Add(time.Minute) }

	token, err := issuer.GenerateToken(context.Background(), "user-123")
	require.NoError(t, err)

	claims, err := newTestService(t).ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
}
