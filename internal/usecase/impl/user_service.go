// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"
	"unicode"

	"vkladovke/config"
	deliverycontext "vkladovke/internal/delivery/context"
	"vkladovke/internal/domain/entity"
	domainerrors "vkladovke/internal/domain/errors"
	"vkladovke/internal/domain/repository"
	"vkladovke/internal/domain/service"
	"vkladovke/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// userService implements the UserUsecase interface.
type userService struct {
	txManager         repository.TransactionManager
	userRepo          repository.UserRepository
	authRepo          repository.AuthRepository
	refreshTokenRepo  repository.RefreshTokenRepository
	hasher            service.PasswordHasher
	tokenService      service.TokenService
	googleAuthService service.OAuthAuthService
	mailService       service.MailService
	passwordRules     *config.PasswordStrengthConfig
	maxActiveSessions int
	logger            *slog.Logger
}

// UserServiceParams holds dependencies for UserService, injected by Fx.
type UserServiceParams struct {
	fx.In

	TxManager         repository.TransactionManager
	UserRepo          repository.UserRepository
	AuthRepo          repository.AuthRepository
	RefreshTokenRepo  repository.RefreshTokenRepository
	Hasher            service.PasswordHasher
	TokenService      service.TokenService
	GoogleAuthService service.OAuthAuthService
	MailService       service.MailService
	Config            *config.Config
	Logger            *slog.Logger
}

// NewUserService is the constructor for userService. It receives all dependencies as interfaces.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	maxActiveSessions := 0
	if params.Config != nil && params.Config.Auth != nil {
		maxActiveSessions = params.Config.Auth.MaxActiveSessions
	}

	var passwordRules *config.PasswordStrengthConfig
	if params.Config != nil {
		passwordRules = params.Config.PasswordStrength
	}

	return &userService{
		txManager:         params.TxManager,
		userRepo:          params.UserRepo,
		authRepo:          params.AuthRepo,
		refreshTokenRepo:  params.RefreshTokenRepo,
		hasher:            params.Hasher,
		tokenService:      params.TokenService,
		googleAuthService: params.GoogleAuthService,
		mailService:       params.MailService,
		passwordRules:     passwordRules,
		maxActiveSessions: maxActiveSessions,
		logger:            params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// SignUp orchestrates the complete registration process. The new user gets
// a fresh group of their own; joining someone else's group happens later
// through an invitation.
func (srv *userService) SignUp(ctx context.Context, input *usecase.SignUpInput) (*usecase.AuthOutput, error) {
	srv.log(ctx).Info("Starting signup", slog.String("email", input.Email))

	if err := srv.validatePasswordStrength(input.Password); err != nil {
		srv.log(ctx).Warn("Password validation failed during signup", slog.String("email", input.Email), slog.Any("error", err))

		return nil, err
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during signup", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrPasswordHashFailed, "failed to hash password during signup")
	}

	var newUser *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()
		authRepo := repoFactory.NewAuthRepository()

		if _, findErr := userRepo.FindByEmail(ctx, input.Email); findErr == nil {
			return errors.Wrap(domainerrors.ErrUserAlreadyExists, "email already registered")
		} else if !errors.Is(findErr, repository.ErrUserNotFound) {
			return errors.Wrap(findErr, "failed to check existing user")
		}

		newUser = &entity.User{
			Email:       input.Email,
			DisplayName: input.DisplayName,
			GroupID:     uuid.New(),
		}

		if createErr := userRepo.Create(ctx, newUser); createErr != nil {
			return errors.Wrap(createErr, "failed to create user during signup")
		}

		newAuth := &entity.Authentication{
			UserID:         newUser.ID,
			Provider:       entity.ProviderTypeEmail.String(),
			ProviderUserID: input.Email,
			PasswordHash:   hashedPassword,
		}

		if authErr := authRepo.CreateAuthentication(ctx, newAuth); authErr != nil {
			return errors.Wrap(authErr, "failed to create authentication during signup")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute signup transaction", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute signup transaction")
	}

	// Verification mail is best effort: the account exists either way and
	// the link can be re-requested.
	if mailErr := srv.SendVerificationMail(ctx, newUser.ID); mailErr != nil {
		srv.log(ctx).Warn("Failed to send verification mail after signup", slog.Any("userID", newUser.ID), slog.Any("error", mailErr))
	}

	return srv.openSession(ctx, newUser)
}

// Login orchestrates the user login process.
func (srv *userService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.AuthOutput, error) {
	srv.log(ctx).Debug("Starting user login", slog.String("email", input.Email))

	authRecord, err := srv.loadLoginAuth(ctx, input.Email)
	if err != nil {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, err
	}

	// Check password outside transaction (bcrypt is CPU-bound).
	if !srv.hasher.Check(input.Password, authRecord.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.Any("error", domainerrors.ErrInvalidCredentials))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	loggedInUser, err := srv.userRepo.FindByID(ctx, authRecord.UserID)
	if err != nil {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to load login user")
	}

	return srv.openSession(ctx, loggedInUser)
}

func (srv *userService) loadLoginAuth(ctx context.Context, email string) (*entity.Authentication, error) {
	authRecord, err := srv.authRepo.FindAuthentication(ctx, entity.ProviderTypeEmail.String(), email)
	if err != nil {
		if errors.Is(err, repository.ErrAuthNotFound) {
			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
		}

		return nil, errors.Wrap(err, "failed to find authentication")
	}

	return authRecord, nil
}

// openSession generates the token pair and persists the refresh token.
func (srv *userService) openSession(ctx context.Context, user *entity.User) (*usecase.AuthOutput, error) {
	accessToken, refreshTokenString, err := srv.tokenService.GenerateTokens(user.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate tokens")
	}

	if err := srv.persistRefreshToken(ctx, user.ID, refreshTokenString); err != nil {
		return nil, err
	}

	srv.log(ctx).Debug("Session opened", slog.Any("userID", user.ID))

	return &usecase.AuthOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshTokenString,
		User:         user,
	}, nil
}

func (srv *userService) persistRefreshToken(ctx context.Context, userID uuid.UUID, refreshTokenString string) error {
	if srv.maxActiveSessions > 0 {
		// When session limit is enabled, keep count/insert in one short transaction.
		if err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
			refreshRepo := repoFactory.NewRefreshTokenRepository()

			activeSessions, err := refreshRepo.CountActiveSessionsByUserID(ctx, userID)
			if err != nil {
				return errors.Wrap(err, "failed to count active sessions")
			}
			if activeSessions >= srv.maxActiveSessions {
				return errors.Wrap(domainerrors.ErrSessionLimitExceeded, "active session limit exceeded")
			}

			return srv.storeRefreshToken(ctx, refreshRepo, userID, refreshTokenString)
		}); err != nil {
			return errors.Wrap(err, "failed to execute session transaction")
		}

		return nil
	}

	// No session limit: direct insert avoids unnecessary transaction overhead.
	return srv.storeRefreshToken(ctx, srv.refreshTokenRepo, userID, refreshTokenString)
}

func (srv *userService) storeRefreshToken(ctx context.Context, refreshRepo repository.RefreshTokenRepository, userID uuid.UUID, refreshTokenString string) error {
	newRefreshToken := &entity.RefreshToken{
		UserID:    userID,
		TokenHash: srv.tokenService.HashToken(refreshTokenString),
		ExpiresAt: time.Now().Add(srv.tokenService.GetRefreshTokenDuration()),
	}

	if err := refreshRepo.CreateRefreshToken(ctx, newRefreshToken); err != nil {
		return errors.Wrap(err, "failed to store refresh token")
	}

	return nil
}

// GoogleSignIn handles the user login or registration via Google Sign-In.
func (srv *userService) GoogleSignIn(ctx context.Context, input *usecase.GoogleSignInInput) (*usecase.AuthOutput, error) {
	srv.log(ctx).Info("Handling Google sign-in")

	oauthUser, err := srv.googleAuthService.VerifyIDToken(ctx, input.IDToken)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrOAuthTokenInvalid, err.Error())
	}

	var loggedInUser *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		user, userErr := srv.findOrCreateGoogleUser(ctx, repoFactory, oauthUser)
		if userErr != nil {
			return userErr
		}
		loggedInUser = user

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute Google sign-in transaction", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute Google sign-in transaction")
	}

	return srv.openSession(ctx, loggedInUser)
}

// findOrCreateGoogleUser finds existing user or creates new one for Google authentication.
func (srv *userService) findOrCreateGoogleUser(ctx context.Context, repoFactory repository.RepositoryFactory, oauthUser *service.OAuthUser) (*entity.User, error) {
	authRepo := repoFactory.NewAuthRepository()
	userRepo := repoFactory.NewUserRepository()

	authRecord, err := authRepo.FindAuthentication(ctx, entity.ProviderTypeGoogle.String(), oauthUser.ID)
	if err != nil && !errors.Is(err, repository.ErrAuthNotFound) {
		return nil, errors.Wrap(err, "failed to find authentication")
	}

	if err == nil {
		user, findErr := userRepo.FindByID(ctx, authRecord.UserID)
		if findErr != nil {
			return nil, errors.Wrap(findErr, "failed to find user for google auth")
		}

		return user, nil
	}

	srv.log(ctx).Info("Google user not found, creating new user", slog.String("email", oauthUser.Email))

	newUser := &entity.User{
		Email:         oauthUser.Email,
		DisplayName:   oauthUser.Name,
		GroupID:       uuid.New(),
		EmailVerified: oauthUser.EmailVerified,
	}

	if err := userRepo.Create(ctx, newUser); err != nil {
		return nil, errors.Wrap(err, "failed to create user for google auth")
	}

	newAuth := &entity.Authentication{
		UserID:         newUser.ID,
		Provider:       entity.ProviderTypeGoogle.String(),
		ProviderUserID: oauthUser.ID,
	}

	if err := authRepo.CreateAuthentication(ctx, newAuth); err != nil {
		return nil, errors.Wrap(err, "failed to create google authentication")
	}

	return newUser, nil
}

// RefreshToken issues a new access token using a refresh token.
// The refresh token remains unchanged for security reasons.
func (srv *userService) RefreshToken(ctx context.Context, input *usecase.RefreshTokenInput) (*usecase.RefreshTokenOutput, error) {
	srv.log(ctx).Info("Attempting to refresh access token")

	claims, err := srv.tokenService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "invalid refresh token")
	}

	// Verify the session still exists in the database.
	tokenHash := srv.tokenService.HashToken(input.RefreshToken)
	if _, err := srv.refreshTokenRepo.FindRefreshTokenByHash(ctx, tokenHash); err != nil {
		if errors.Is(err, repository.ErrRefreshTokenExpired) {
			return nil, errors.Wrap(domainerrors.ErrRefreshTokenExpired, "refresh token expired")
		}

		return nil, errors.Wrap(domainerrors.ErrRefreshTokenNotFound, "refresh token not found")
	}

	user, err := srv.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find user")
	}

	newAccessToken, _, err := srv.tokenService.GenerateTokens(user.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate new access token")
	}

	return &usecase.RefreshTokenOutput{AccessToken: newAccessToken}, nil
}

// Logout invalidates a user's session by deleting their refresh token.
func (srv *userService) Logout(ctx context.Context, input *usecase.LogoutInput) error {
	srv.log(ctx).Info("Attempting to log out")

	if _, err := srv.tokenService.ValidateRefreshToken(input.RefreshToken); err != nil {
		// Even if the token is invalid, we can proceed to delete it from the database.
		srv.log(ctx).Warn("Logout with invalid token", slog.Any("error", err))
	}

	tokenHash := srv.tokenService.HashToken(input.RefreshToken)
	if err := srv.refreshTokenRepo.DeleteRefreshTokenByHash(ctx, tokenHash); err != nil {
		srv.log(ctx).Error("Failed to delete refresh token", slog.Any("error", err))

		return errors.Wrap(err, "failed to delete refresh token")
	}
	srv.log(ctx).Info("Successfully logged out")

	return nil
}

// LogoutAllDevices invalidates all user sessions by deleting all refresh tokens.
func (srv *userService) LogoutAllDevices(ctx context.Context, userID uuid.UUID) error {
	srv.log(ctx).Info("Attempting to log out from all devices", slog.Any("userID", userID))

	if err := srv.refreshTokenRepo.DeleteRefreshTokensByUserID(ctx, userID); err != nil {
		srv.log(ctx).Error("Failed to delete all refresh tokens", slog.Any("error", err), slog.Any("userID", userID))

		return errors.Wrap(err, "failed to delete all refresh tokens")
	}
	srv.log(ctx).Info("Successfully logged out from all devices", slog.Any("userID", userID))

	return nil
}

// GetActiveSessions retrieves all active sessions for a user.
func (srv *userService) GetActiveSessions(ctx context.Context, userID uuid.UUID) ([]*entity.RefreshToken, error) {
	srv.log(ctx).Debug("Getting active sessions", slog.Any("userID", userID))

	sessions, err := srv.refreshTokenRepo.FindRefreshTokensByUserID(ctx, userID)
	if err != nil {
		srv.log(ctx).Error("Failed to get active sessions", slog.Any("error", err), slog.Any("userID", userID))

		return nil, errors.Wrap(err, "failed to get active sessions")
	}

	return sessions, nil
}

// RevokeSession revokes a specific session by refresh token ID.
func (srv *userService) RevokeSession(ctx context.Context, userID, tokenID uuid.UUID) error {
	srv.log(ctx).Info("Attempting to revoke session", slog.Any("userID", userID), slog.Any("tokenID", tokenID))

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		refreshRepo := repoFactory.NewRefreshTokenRepository()

		// Verify the token belongs to the user before deleting.
		sessions, err := refreshRepo.FindRefreshTokensByUserID(ctx, userID)
		if err != nil {
			return errors.Wrap(err, "failed to list user sessions")
		}

		owned := false
		for _, session := range sessions {
			if session.ID == tokenID {
				owned = true

				break
			}
		}
		if !owned {
			return errors.Wrap(domainerrors.ErrForbidden, "token does not belong to user")
		}

		if err := refreshRepo.DeleteRefreshToken(ctx, tokenID); err != nil {
			return errors.Wrap(err, "failed to delete refresh token")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to revoke session", slog.Any("error", err), slog.Any("userID", userID), slog.Any("tokenID", tokenID))

		return errors.Wrap(err, "failed to revoke session")
	}
	srv.log(ctx).Info("Successfully revoked session", slog.Any("userID", userID), slog.Any("tokenID", tokenID))

	return nil
}

// GetProfile returns the user's own account data.
func (srv *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrUserNotFound, "profile not found")
		}

		return nil, errors.Wrap(err, "failed to load profile")
	}

	return user, nil
}

// UpdateDisplayName changes the name shown to other group members.
func (srv *userService) UpdateDisplayName(ctx context.Context, userID uuid.UUID, displayName string) error {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		return errors.Wrap(err, "failed to load user for display name update")
	}

	user.DisplayName = displayName
	if err := srv.userRepo.Update(ctx, user); err != nil {
		return errors.Wrap(err, "failed to update display name")
	}
	srv.log(ctx).Debug("Display name updated", slog.Any("userID", userID))

	return nil
}

// UpdateFCMToken stores the device push token, empty to unregister.
func (srv *userService) UpdateFCMToken(ctx context.Context, userID uuid.UUID, fcmToken string) error {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		return errors.Wrap(err, "failed to load user for fcm token update")
	}

	user.FCMToken = fcmToken
	if err := srv.userRepo.Update(ctx, user); err != nil {
		return errors.Wrap(err, "failed to update fcm token")
	}

	return nil
}

// SendVerificationMail sends (or resends) the email confirmation link.
func (srv *userService) SendVerificationMail(ctx context.Context, userID uuid.UUID) error {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		return errors.Wrap(err, "failed to load user for verification mail")
	}

	if user.EmailVerified {
		srv.log(ctx).Debug("Email already verified, skipping mail", slog.Any("userID", userID))

		return nil
	}

	token, err := srv.tokenService.GenerateMailToken(user.ID, service.TokenPurposeVerifyEmail)
	if err != nil {
		return errors.Wrap(err, "failed to generate verification token")
	}

	if err := srv.mailService.SendVerificationMail(ctx, user.Email, token); err != nil {
		return errors.Wrap(domainerrors.ErrMailSendFailed, err.Error())
	}
	srv.log(ctx).Info("Verification mail sent", slog.Any("userID", userID))

	return nil
}

// ConfirmEmail marks the email verified using a mail token.
func (srv *userService) ConfirmEmail(ctx context.Context, token string) error {
	claims, err := srv.tokenService.ValidateMailToken(token, service.TokenPurposeVerifyEmail)
	if err != nil {
		return errors.Wrap(domainerrors.ErrMailTokenInvalid, "invalid verification token")
	}

	user, err := srv.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return errors.Wrap(err, "failed to load user for email confirmation")
	}

	if user.EmailVerified {
		return nil
	}

	user.EmailVerified = true
	if err := srv.userRepo.Update(ctx, user); err != nil {
		return errors.Wrap(err, "failed to mark email verified")
	}
	srv.log(ctx).Info("Email confirmed", slog.Any("userID", user.ID))

	return nil
}

// RequestPasswordReset mails a reset link when the email has a password credential.
// It never reveals whether the email is registered.
func (srv *userService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := srv.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Info("Password reset requested for unknown email")

			return nil
		}

		return errors.Wrap(err, "failed to look up user for password reset")
	}

	if _, err := srv.authRepo.FindAuthentication(ctx, entity.ProviderTypeEmail.String(), email); err != nil {
		if errors.Is(err, repository.ErrAuthNotFound) {
			srv.log(ctx).Info("Password reset requested for account without password", slog.Any("userID", user.ID))

			return nil
		}

		return errors.Wrap(err, "failed to look up authentication for password reset")
	}

	token, err := srv.tokenService.GenerateMailToken(user.ID, service.TokenPurposeResetPassword)
	if err != nil {
		return errors.Wrap(err, "failed to generate reset token")
	}

	if err := srv.mailService.SendPasswordResetMail(ctx, user.Email, token); err != nil {
		return errors.Wrap(domainerrors.ErrMailSendFailed, err.Error())
	}
	srv.log(ctx).Info("Password reset mail sent", slog.Any("userID", user.ID))

	return nil
}

// ConfirmPasswordReset sets a new password using a mail token and ends every session.
func (srv *userService) ConfirmPasswordReset(ctx context.Context, input *usecase.ConfirmPasswordResetInput) error {
	claims, err := srv.tokenService.ValidateMailToken(input.Token, service.TokenPurposeResetPassword)
	if err != nil {
		return errors.Wrap(domainerrors.ErrMailTokenInvalid, "invalid reset token")
	}

	if err := srv.validatePasswordStrength(input.NewPassword); err != nil {
		return err
	}

	hashedPassword, err := srv.hasher.Hash(input.NewPassword)
	if err != nil {
		return errors.Wrap(domainerrors.ErrPasswordHashFailed, "failed to hash new password")
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()
		authRepo := repoFactory.NewAuthRepository()
		refreshRepo := repoFactory.NewRefreshTokenRepository()

		user, findErr := userRepo.FindByID(ctx, claims.UserID)
		if findErr != nil {
			return errors.Wrap(findErr, "failed to load user for password reset")
		}

		authRecord, authErr := authRepo.FindAuthentication(ctx, entity.ProviderTypeEmail.String(), user.Email)
		if authErr != nil {
			return errors.Wrap(authErr, "failed to load authentication for password reset")
		}

		authRecord.PasswordHash = hashedPassword
		if updateErr := authRepo.UpdateAuthentication(ctx, authRecord); updateErr != nil {
			return errors.Wrap(updateErr, "failed to update password")
		}

		// A reset proves mailbox ownership, so log out every open session.
		if delErr := refreshRepo.DeleteRefreshTokensByUserID(ctx, user.ID); delErr != nil {
			return errors.Wrap(delErr, "failed to revoke sessions after password reset")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute password reset transaction", slog.Any("error", err))

		return errors.Wrap(err, "failed to execute password reset transaction")
	}
	srv.log(ctx).Info("Password reset completed", slog.Any("userID", claims.UserID))

	return nil
}

// validatePasswordStrength checks the configured complexity rules.
// Without configuration only a minimum length of 8 is enforced.
func (srv *userService) validatePasswordStrength(password string) error {
	minLength := 8
	maxLength := 0
	requireUpper, requireLower, requireNumbers, requireSpecial := false, false, false, false

	if srv.passwordRules != nil {
		if srv.passwordRules.MinLength > 0 {
			minLength = srv.passwordRules.MinLength
		}
		maxLength = srv.passwordRules.MaxLength
		requireUpper = srv.passwordRules.RequireUppercase
		requireLower = srv.passwordRules.RequireLowercase
		requireNumbers = srv.passwordRules.RequireNumbers
		requireSpecial = srv.passwordRules.RequireSpecial
	}

	runes := []rune(password)
	if len(runes) < minLength {
		return errors.Wrap(domainerrors.ErrPasswordStrength, "password too short")
	}
	if maxLength > 0 && len(runes) > maxLength {
		return errors.Wrap(domainerrors.ErrPasswordStrength, "password too long")
	}

	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, r := range runes {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsNumber(r):
			hasNumber = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	if requireUpper && !hasUpper {
		return errors.Wrap(domainerrors.ErrPasswordStrength, "password requires an uppercase letter")
	}
	if requireLower && !hasLower {
		return errors.Wrap(domainerrors.ErrPasswordStrength, "password requires a lowercase letter")
	}
	if requireNumbers && !hasNumber {
		return errors.Wrap(domainerrors.ErrPasswordStrength, "password requires a digit")
	}
	if requireSpecial && !hasSpecial {
		return errors.Wrap(domainerrors.ErrPasswordStrength, "password requires a special character")
	}

	return nil
}
