// Package services provides external service integrations and technical concerns like tokens and code generation
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestTokenService creates a token service for testing with symmetric key
func createTestTokenService() (TokenService, error) {
	return NewTokenService(
		15*time.Minute,
		7*24*time.Hour,
		"test-issuer",
		"test-audience",
		false, // useRSAKeys
		"",    // privateKeyPEM
		"",    // publicKeyPEM
		"test-secret-key-for-jwt-signing-32-chars", // secretKey
	)
}

func TestNewTokenService(t *testing.T) {
	tests := []struct {
		name        string
		useRSAKeys  bool
		secretKey   string
		expectError bool
	}{
		{
			name:        "valid symmetric key configuration",
			useRSAKeys:  false,
			secretKey:   "test-secret-key-for-jwt-signing-32-chars",
			expectError: false,
		},
		{
			name:        "missing secret key",
			useRSAKeys:  false,
			secretKey:   "",
			expectError: true,
		},
		{
			name:        "rsa enabled without keys",
			useRSAKeys:  true,
			secretKey:   "",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, err := NewTokenService(
				15*time.Minute,
				7*24*time.Hour,
				"test-issuer",
				"test-audience",
				tt.useRSAKeys,
				"",
				"",
				tt.secretKey,
			)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, service)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, service)
			}
		})
	}
}

func TestGenerateTokens(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	accessToken, refreshToken, err := service.GenerateTokens("alice")
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.NotEqual(t, accessToken, refreshToken)

	assert.Equal(t, 15*time.Minute, service.AccessTokenTTL())
}

func TestValidateToken(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	accessToken, refreshToken, err := service.GenerateTokens("alice")
	require.NoError(t, err)

	t.Run("valid access token", func(t *testing.T) {
		claims, err := service.ValidateToken(accessToken)
		require.NoError(t, err)
		assert.Equal(t, "alice", claims.Subject)
		assert.Equal(t, TokenScopeAccess, claims.Scope)
		assert.NotEmpty(t, claims.TokenID)
		assert.True(t, claims.ExpiresAt.After(time.Now()))
	})

	t.Run("refresh token rejected as access token", func(t *testing.T) {
		claims, err := service.ValidateToken(refreshToken)
		assert.ErrorIs(t, err, ErrTokenScopeInvalid)
		assert.Nil(t, claims)
	})

	t.Run("garbage token", func(t *testing.T) {
		claims, err := service.ValidateToken("not-a-jwt")
		assert.ErrorIs(t, err, ErrTokenInvalid)
		assert.Nil(t, claims)
	})

	t.Run("token signed with different key", func(t *testing.T) {
		other, err := NewTokenService(
			15*time.Minute,
			7*24*time.Hour,
			"test-issuer",
			"test-audience",
			false,
			"",
			"",
			"a-completely-different-signing-key-32ch",
		)
		require.NoError(t, err)

		foreign, _, err := other.GenerateTokens("alice")
		require.NoError(t, err)

		claims, err := service.ValidateToken(foreign)
		assert.ErrorIs(t, err, ErrTokenInvalid)
		assert.Nil(t, claims)
	})
}

func TestValidateRefreshToken(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	accessToken, refreshToken, err := service.GenerateTokens("bob")
	require.NoError(t, err)

	t.Run("valid refresh token", func(t *testing.T) {
		claims, err := service.ValidateRefreshToken(refreshToken)
		require.NoError(t, err)
		assert.Equal(t, "bob", claims.Subject)
		assert.Equal(t, TokenScopeRefresh, claims.Scope)
	})

	t.Run("access token rejected as refresh token", func(t *testing.T) {
		claims, err := service.ValidateRefreshToken(accessToken)
		assert.ErrorIs(t, err, ErrTokenScopeInvalid)
		assert.Nil(t, claims)
	})
}

func TestRefreshTokens(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	_, refreshToken, err := service.GenerateTokens("carol")
	require.NoError(t, err)

	newAccess, newRefresh, err := service.RefreshTokens(refreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, newAccess)
	assert.NotEmpty(t, newRefresh)

	// New pair carries the same subject
	claims, err := service.ValidateToken(newAccess)
	require.NoError(t, err)
	assert.Equal(t, "carol", claims.Subject)

	// Access tokens cannot be refreshed
	_, _, err = service.RefreshTokens(newAccess)
	assert.ErrorIs(t, err, ErrTokenScopeInvalid)
}

func TestExpiredToken(t *testing.T) {
	service, err := NewTokenService(
		-1*time.Minute, // already expired
		7*24*time.Hour,
		"test-issuer",
		"test-audience",
		false,
		"",
		"",
		"test-secret-key-for-jwt-signing-32-chars",
	)
	require.NoError(t, err)

	accessToken, _, err := service.GenerateTokens("dave")
	require.NoError(t, err)

	claims, err := service.ValidateToken(accessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.Nil(t, claims)
}
