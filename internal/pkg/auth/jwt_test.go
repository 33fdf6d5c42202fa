// internal/pkg/auth/jwt_test.go
package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/marketplace-storefront/internal/config"
)

func testManager() *JWTManager {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	return NewJWTManager(cfg)
}

func signToken(t *testing.T, secret, tokenType string, expiry time.Duration) string {
	t.Helper()
	now := time.Now().UTC()
	claims := &Claims{
		UserID:    42,
		Email:     "priya@example.com",
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestValidateAccessToken(t *testing.T) {
	manager := testManager()
	token := signToken(t, "test-secret", "access", time.Hour)

	claims, err := manager.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "priya@example.com", claims.Email)
}

func TestValidateAccessTokenRejectsWrongSecret(t *testing.T) {
	manager := testManager()
	token := signToken(t, "other-secret", "access", time.Hour)

	_, err := manager.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateAccessTokenRejectsExpired(t *testing.T) {
	manager := testManager()
	token := signToken(t, "test-secret", "access", -time.Hour)

	_, err := manager.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateAccessTokenRejectsRefreshToken(t *testing.T) {
	manager := testManager()
	token := signToken(t, "test-secret", "refresh", time.Hour)

	_, err := manager.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc123", ExtractTokenFromHeader("Bearer abc123"))
	assert.Empty(t, ExtractTokenFromHeader("abc123"))
	assert.Empty(t, ExtractTokenFromHeader(""))
	assert.Empty(t, ExtractTokenFromHeader("Basic abc123"))
}
