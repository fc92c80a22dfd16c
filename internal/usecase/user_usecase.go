// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"vkladovke/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// SignUpInput defines the data required to register a new user.
type SignUpInput struct {
	DisplayName string
	Email       string
	Password    string
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// GoogleSignInInput defines the data required for Google Sign-In.
type GoogleSignInInput struct {
	IDToken string
}

// RefreshTokenInput defines the data required to refresh an access token.
type RefreshTokenInput struct {
	RefreshToken string
}

// LogoutInput defines the data required to log out.
type LogoutInput struct {
	RefreshToken string
}

// ConfirmPasswordResetInput carries the mail token and the new password.
type ConfirmPasswordResetInput struct {
	Token       string
	NewPassword string
}

// --- Output DTOs ---

// AuthOutput returns the generated tokens after a successful authentication.
type AuthOutput struct {
	AccessToken  string
	RefreshToken string
	User         *entity.User
}

// RefreshTokenOutput returns the newly issued access token.
type RefreshTokenOutput struct {
	AccessToken string
}

// UserUsecase defines the interface for account and session operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type UserUsecase interface {
	// SignUp creates a user with a fresh group and an email credential.
	SignUp(ctx context.Context, input *SignUpInput) (*AuthOutput, error)

	// Login authenticates an email/password pair and opens a session.
	Login(ctx context.Context, input *LoginInput) (*AuthOutput, error)

	// GoogleSignIn authenticates a Google ID token, creating the user on first sign-in.
	GoogleSignIn(ctx context.Context, input *GoogleSignInInput) (*AuthOutput, error)

	// RefreshToken issues a new access token; the refresh token stays unchanged.
	RefreshToken(ctx context.Context, input *RefreshTokenInput) (*RefreshTokenOutput, error)

	// Logout ends the session identified by the refresh token.
	Logout(ctx context.Context, input *LogoutInput) error

	// LogoutAllDevices ends every session of the user.
	LogoutAllDevices(ctx context.Context, userID uuid.UUID) error

	// GetActiveSessions lists the user's open sessions.
	GetActiveSessions(ctx context.Context, userID uuid.UUID) ([]*entity.RefreshToken, error)

	// RevokeSession ends one specific session of the user.
	RevokeSession(ctx context.Context, userID, tokenID uuid.UUID) error

	// GetProfile returns the user's own account data.
	GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error)

	// UpdateDisplayName changes the name shown to other group members.
	UpdateDisplayName(ctx context.Context, userID uuid.UUID, displayName string) error

	// UpdateFCMToken stores the device push token, empty to unregister.
	UpdateFCMToken(ctx context.Context, userID uuid.UUID, fcmToken string) error

	// SendVerificationMail sends (or resends) the email confirmation link.
	SendVerificationMail(ctx context.Context, userID uuid.UUID) error

	// ConfirmEmail marks the email verified using a mail token.
	ConfirmEmail(ctx context.Context, token string) error

	// RequestPasswordReset mails a reset link when the email has a password credential.
	RequestPasswordReset(ctx context.Context, email string) error

	// ConfirmPasswordReset sets a new password using a mail token and
	// ends every session of the user.
	ConfirmPasswordReset(ctx context.Context, input *ConfirmPasswordResetInput) error
}
