package auth

import (
	"testing"
	"time"

	"vkladovke/config"
	"vkladovke/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func testTokenConfig() *config.Config {
	cfg := &config.Config{}
	cfg.SecretKey.Access = "test_access_secret_key_very_long_for_testing"
	cfg.SecretKey.Refresh = "test_refresh_secret_key_very_long_for_testing"
	cfg.SecretKey.Mail = "test_mail_secret_key_very_long_for_testing"

	return cfg
}

func TestJWTService_GenerateAndValidateTokens(t *testing.T) {
	jwtService, err := NewJWTService(testTokenConfig())
	assert.NoError(t, err)
	assert.NotNil(t, jwtService)

	userID := uuid.New()

	accessToken, refreshToken, err := jwtService.GenerateTokens(userID)
	assert.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)

	// Validate access token
	accessClaims, err := jwtService.ValidateAccessToken(accessToken)
	assert.NoError(t, err)
	assert.NotNil(t, accessClaims)
	assert.Equal(t, userID, accessClaims.UserID)
	assert.Equal(t, "access", accessClaims.Type)

	// Validate refresh token
	refreshClaims, err := jwtService.ValidateRefreshToken(refreshToken)
	assert.NoError(t, err)
	assert.NotNil(t, refreshClaims)
	assert.Equal(t, userID, refreshClaims.UserID)
	assert.Equal(t, "refresh", refreshClaims.Type)
}

func TestJWTService_TokenTypeMismatch(t *testing.T) {
	jwtService, err := NewJWTService(testTokenConfig())
	assert.NoError(t, err)

	accessToken, refreshToken, err := jwtService.GenerateTokens(uuid.New())
	assert.NoError(t, err)

	// A refresh token must not validate as an access token and vice versa.
	claims, err := jwtService.ValidateAccessToken(refreshToken)
	assert.Error(t, err)
	assert.Nil(t, claims)

	claims, err = jwtService.ValidateRefreshToken(accessToken)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_InvalidToken(t *testing.T) {
	jwtService, err := NewJWTService(testTokenConfig())
	assert.NoError(t, err)

	claims, err := jwtService.ValidateAccessToken("clearly-not-a-jwt-token-format")
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_MailTokens(t *testing.T) {
	jwtService, err := NewJWTService(testTokenConfig())
	assert.NoError(t, err)

	userID := uuid.New()

	token, err := jwtService.GenerateMailToken(userID, service.TokenPurposeVerifyEmail)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := jwtService.ValidateMailToken(token, service.TokenPurposeVerifyEmail)
	assert.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, service.TokenPurposeVerifyEmail, claims.Purpose)

	// Purpose mismatch must fail: a verification token cannot reset a password.
	claims, err = jwtService.ValidateMailToken(token, service.TokenPurposeResetPassword)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_EmptySecrets(t *testing.T) {
	cfg := &config.Config{}

	jwtService, err := NewJWTService(cfg)
	assert.Error(t, err)
	assert.Nil(t, jwtService)
	assert.Contains(t, err.Error(), "jwt secrets must be provided")
}

func TestJWTService_HashTokenIsStable(t *testing.T) {
	jwtService, err := NewJWTService(testTokenConfig())
	assert.NoError(t, err)

	hash1 := jwtService.HashToken("some-refresh-token")
	hash2 := jwtService.HashToken("some-refresh-token")
	assert.Equal(t, hash1, hash2)
	assert.NotEqual(t, hash1, jwtService.HashToken("another-token"))
	assert.Len(t, hash1, 64)
}

func TestJWTService_GetRefreshTokenDuration(t *testing.T) {
	cfg := testTokenConfig()
	cfg.Auth = &config.AuthConfig{RefreshTokenTTL: 48 * time.Hour}

	jwtService, err := NewJWTService(cfg)
	assert.NoError(t, err)
	assert.Equal(t, 48*time.Hour, jwtService.GetRefreshTokenDuration())
}
