// Package services provides external service integrations and technical concerns like inventory and tokens
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klb1963/yachtpricer/models"
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
			secretKey:   "test-secret-key-for-jwt-signing-32-chars",
			expectError: false,
		},
		{
			name:        "missing secret key",
			secretKey:   "",
			expectError: true,
		},
		{
			name:        "RSA requested without keys",
			useRSAKeys:  true,
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

	accessToken, refreshToken, err := service.GenerateTokens(123, models.RoleManager)
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.NotEqual(t, accessToken, refreshToken)

	// JWT header prefix
	assert.Contains(t, accessToken, "eyJ")
	assert.Contains(t, refreshToken, "eyJ")
}

func TestValidateToken(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	accessToken, refreshToken, err := service.GenerateTokens(123, models.RoleOwner)
	require.NoError(t, err)

	t.Run("valid access token", func(t *testing.T) {
		claims, err := service.ValidateToken(accessToken)
		require.NoError(t, err)
		assert.Equal(t, uint(123), claims.UserID)
		assert.Equal(t, models.RoleOwner, claims.Role)
		assert.Equal(t, "access", claims.TokenType)
		assert.NotEmpty(t, claims.TokenID)
	})

	t.Run("valid refresh token", func(t *testing.T) {
		claims, err := service.ValidateToken(refreshToken)
		require.NoError(t, err)
		assert.Equal(t, "refresh", claims.TokenType)
	})

	t.Run("empty token", func(t *testing.T) {
		_, err := service.ValidateToken("")
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("malformed token", func(t *testing.T) {
		_, err := service.ValidateToken("eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.invalid.signature")
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("token signed with a different key", func(t *testing.T) {
		other, err := NewTokenService(
			15*time.Minute, 7*24*time.Hour,
			"test-issuer", "test-audience",
			false, "", "", "a-completely-different-secret-key-here",
		)
		require.NoError(t, err)
		foreign, _, err := other.GenerateTokens(123, models.RoleOwner)
		require.NoError(t, err)

		_, err = service.ValidateToken(foreign)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("expired token", func(t *testing.T) {
		shortLived, err := NewTokenService(
			-1*time.Minute, -1*time.Minute,
			"test-issuer", "test-audience",
			false, "", "", "test-secret-key-for-jwt-signing-32-chars",
		)
		require.NoError(t, err)
		expired, _, err := shortLived.GenerateTokens(123, models.RoleOwner)
		require.NoError(t, err)

		_, err = service.ValidateToken(expired)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})
}

func TestRefreshToken(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	accessToken, refreshToken, err := service.GenerateTokens(42, models.RoleFleetManager)
	require.NoError(t, err)

	t.Run("refresh token yields a fresh pair with same identity", func(t *testing.T) {
		newAccess, newRefresh, err := service.RefreshToken(refreshToken)
		require.NoError(t, err)
		claims, err := service.ValidateToken(newAccess)
		require.NoError(t, err)
		assert.Equal(t, uint(42), claims.UserID)
		assert.Equal(t, models.RoleFleetManager, claims.Role)
		assert.NotEmpty(t, newRefresh)
	})

	t.Run("access token cannot refresh", func(t *testing.T) {
		_, _, err := service.RefreshToken(accessToken)
		assert.Error(t, err)
	})
}
