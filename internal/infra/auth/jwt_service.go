// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"vkladovke/config"
	"vkladovke/internal/domain/service"
)

// Fallback TTLs when the auth section does not configure them.
const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
	defaultMailTTL    = 24 * time.Hour
)

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	accessSecret  string        // Secret key for signing access tokens.
	refreshSecret string        // Secret key for signing refresh tokens.
	mailSecret    string        // Secret key for signing single-use mail tokens.
	accessTTL     time.Duration // Time-to-live for access tokens.
	refreshTTL    time.Duration // Time-to-live for refresh tokens.
	mailTTL       time.Duration // Time-to-live for mail tokens.
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Access == "" || cfg.SecretKey.Refresh == "" {
		return nil, errors.New("jwt secrets must be provided")
	}

	mailSecret := cfg.SecretKey.Mail
	if mailSecret == "" {
		// Mail tokens fall back to the access secret; they are still
		// distinguished by the purpose claim.
		mailSecret = cfg.SecretKey.Access
	}

	s := &jwtService{
		accessSecret:  cfg.SecretKey.Access,
		refreshSecret: cfg.SecretKey.Refresh,
		mailSecret:    mailSecret,
		accessTTL:     defaultAccessTTL,
		refreshTTL:    defaultRefreshTTL,
		mailTTL:       defaultMailTTL,
	}
	if cfg.Auth != nil {
		if cfg.Auth.AccessTokenTTL > 0 {
			s.accessTTL = cfg.Auth.AccessTokenTTL
		}
		if cfg.Auth.RefreshTokenTTL > 0 {
			s.refreshTTL = cfg.Auth.RefreshTokenTTL
		}
		if cfg.Auth.MailTokenTTL > 0 {
			s.mailTTL = cfg.Auth.MailTokenTTL
		}
	}

	return s, nil
}

// GenerateTokens creates a new access token and refresh token for a given user.
func (s *jwtService) GenerateTokens(userID uuid.UUID) (accessToken string, refreshToken string, err error) {
	accessToken, err = s.generateToken(userID, "access", "", s.accessTTL, s.accessSecret)
	if err != nil {
		return "", "", err
	}

	refreshToken, err = s.generateToken(userID, "refresh", "", s.refreshTTL, s.refreshSecret)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// ValidateAccessToken checks the validity of an access token string.
func (s *jwtService) ValidateAccessToken(tokenString string) (*service.Claims, error) {
	return s.parseToken(tokenString, s.accessSecret, "access")
}

// ValidateRefreshToken checks the validity of a refresh token string.
func (s *jwtService) ValidateRefreshToken(tokenString string) (*service.Claims, error) {
	return s.parseToken(tokenString, s.refreshSecret, "refresh")
}

// GenerateMailToken creates a single-purpose token embedded in
// verification and password reset links.
func (s *jwtService) GenerateMailToken(userID uuid.UUID, purpose string) (string, error) {
	return s.generateToken(userID, "mail", purpose, s.mailTTL, s.mailSecret)
}

// ValidateMailToken checks a mail token and that it carries the expected purpose.
func (s *jwtService) ValidateMailToken(tokenString, purpose string) (*service.Claims, error) {
	claims, err := s.parseToken(tokenString, s.mailSecret, "mail")
	if err != nil {
		return nil, err
	}
	if claims.Purpose != purpose {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}

// HashToken returns the SHA-256 hash used to store refresh tokens at rest.
func (s *jwtService) HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))

	return hex.EncodeToString(sum[:])
}

// GetRefreshTokenDuration returns the configured duration for refresh tokens.
func (s *jwtService) GetRefreshTokenDuration() time.Duration {
	return s.refreshTTL
}

// generateToken is a private helper to create a JWT with specific claims.
func (s *jwtService) generateToken(userID uuid.UUID, tokenType, purpose string, ttl time.Duration, secret string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID.String(),     // Subject (who the token is for)
		"iat":  now.Unix(),          // Issued At
		"exp":  now.Add(ttl).Unix(), // Expiration Time
		"type": tokenType,           // Type of token (access, refresh or mail)
	}
	if purpose != "" {
		claims["purpose"] = purpose
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(secret))
}

// parseToken validates the signature, expiry and token type, then maps
// the raw claims into the domain Claims struct.
func (s *jwtService) parseToken(tokenString, secret, wantType string) (*service.Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}

	tokenType, _ := mapClaims["type"].(string)
	if tokenType != wantType {
		return nil, jwt.ErrTokenInvalidClaims
	}

	sub, _ := mapClaims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, jwt.ErrTokenInvalidSubject
	}

	purpose, _ := mapClaims["purpose"].(string)

	return &service.Claims{
		UserID:  userID,
		Type:    tokenType,
		Purpose: purpose,
	}, nil
}
