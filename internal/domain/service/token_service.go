package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token purposes for single-use mail tokens.
const (
	TokenPurposeVerifyEmail   = "verify_email"
	TokenPurposeResetPassword = "reset_password"
)

// Claims defines the custom claims for the JWT tokens.
type Claims struct {
	UserID  uuid.UUID
	Type    string // "access", "refresh" or a mail token purpose
	Purpose string // Set on mail tokens only
	jwt.RegisteredClaims
}

// TokenService defines the interface for generating and validating JWTs.
// This abstracts the details of token creation from the use cases.
type TokenService interface {
	// GenerateTokens creates a new access token and refresh token for a given user.
	GenerateTokens(userID uuid.UUID) (accessToken string, refreshToken string, err error)

	// ValidateAccessToken checks the validity of an access token string.
	ValidateAccessToken(tokenString string) (*Claims, error)

	// ValidateRefreshToken checks the validity of a refresh token string.
	ValidateRefreshToken(tokenString string) (*Claims, error)

	// GenerateMailToken creates a single-purpose token embedded in
	// verification and password reset links.
	GenerateMailToken(userID uuid.UUID, purpose string) (string, error)

	// ValidateMailToken checks a mail token and that it carries the expected purpose.
	ValidateMailToken(tokenString, purpose string) (*Claims, error)

	// HashToken returns the SHA-256 hash used to store refresh tokens at rest.
	HashToken(token string) string

	// GetRefreshTokenDuration returns the configured duration for refresh tokens.
	GetRefreshTokenDuration() time.Duration
}
