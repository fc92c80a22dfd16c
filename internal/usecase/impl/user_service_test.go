package impl

import (
	"context"
	"testing"
	"time"

	"vkladovke/internal/domain/entity"
	domainerrors "vkladovke/internal/domain/errors"
	"vkladovke/internal/domain/repository"
	"vkladovke/internal/domain/service"
	mockRepo "vkladovke/internal/mocks/repository"
	mockSvc "vkladovke/internal/mocks/service"
	"vkladovke/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// userServiceFixtures holds all test dependencies for user service tests.
type userServiceFixtures struct {
	service           usecase.UserUsecase
	userRepo          *mockRepo.MockUserRepository
	authRepo          *mockRepo.MockAuthRepository
	refreshTokenRepo  *mockRepo.MockRefreshTokenRepository
	hasher            *mockSvc.MockPasswordHasher
	tokenService      *mockSvc.MockTokenService
	googleAuthService *mockSvc.MockOAuthAuthService
	mailService       *mockSvc.MockMailService
}

func createTestUserService(maxActiveSessions int) userServiceFixtures {
	userRepo := &mockRepo.MockUserRepository{}
	authRepo := &mockRepo.MockAuthRepository{}
	refreshTokenRepo := &mockRepo.MockRefreshTokenRepository{}
	hasher := &mockSvc.MockPasswordHasher{}
	tokenService := &mockSvc.MockTokenService{}
	googleAuthService := &mockSvc.MockOAuthAuthService{}
	mailService := &mockSvc.MockMailService{}

	txManager := &mockRepo.StubTransactionManager{
		Factory: &mockRepo.StubRepositoryFactory{
			UserRepo:         userRepo,
			AuthRepo:         authRepo,
			RefreshTokenRepo: refreshTokenRepo,
		},
	}

	svc := NewUserService(UserServiceParams{
		TxManager:         txManager,
		UserRepo:          userRepo,
		AuthRepo:          authRepo,
		RefreshTokenRepo:  refreshTokenRepo,
		Hasher:            hasher,
		TokenService:      tokenService,
		GoogleAuthService: googleAuthService,
		MailService:       mailService,
		Config:            newTestConfig(maxActiveSessions),
		Logger:            newDiscardLogger(),
	})

	return userServiceFixtures{
		service:           svc,
		userRepo:          userRepo,
		authRepo:          authRepo,
		refreshTokenRepo:  refreshTokenRepo,
		hasher:            hasher,
		tokenService:      tokenService,
		googleAuthService: googleAuthService,
		mailService:       mailService,
	}
}

func TestUserService_SignUp_Success(t *testing.T) {
	fixtures := createTestUserService(0)
	ctx := context.Background()

	input := &usecase.SignUpInput{
		DisplayName: "Анна",
		Email:       "anna@example.com",
		Password:    "StrongPass123",
	}

	fixtures.hasher.On("Hash", input.Password).Return("hashed_password", nil)
	fixtures.userRepo.On("FindByEmail", mock.Anything, input.Email).
		Return(nil, repository.ErrUserNotFound).Once()
	fixtures.userRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.User")).
		Run(func(args mock.Arguments) {
			user := args.Get(1).(*entity.User)
			user.ID = uuid.New()
		}).
		Return(nil)
	fixtures.authRepo.On("CreateAuthentication", mock.Anything, mock.AnythingOfType("*entity.Authentication")).
		Return(nil)

	// Verification mail after the transaction.
	fixtures.userRepo.On("FindByID", mock.Anything, mock.AnythingOfType("uuid.UUID")).
		Return(&entity.User{Email: input.Email}, nil)
	fixtures.tokenService.On("GenerateMailToken", mock.Anything, service.TokenPurposeVerifyEmail).
		Return("mail_token", nil)
	fixtures.mailService.On("SendVerificationMail", mock.Anything, input.Email, "mail_token").
		Return(nil)

	// Session.
	fixtures.tokenService.On("GenerateTokens", mock.Anything).
		Return("access_token", "refresh_token", nil)
	fixtures.tokenService.On("HashToken", "refresh_token").Return("refresh_hash")
	fixtures.tokenService.On("GetRefreshTokenDuration").Return(7 * 24 * time.Hour)
	fixtures.refreshTokenRepo.On("CreateRefreshToken", mock.Anything, mock.AnythingOfType("*entity.RefreshToken")).
		Return(nil)

	output, err := fixtures.service.SignUp(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "access_token", output.AccessToken)
	assert.Equal(t, "refresh_token", output.RefreshToken)
	assert.Equal(t, input.Email, output.User.Email)
	assert.NotEqual(t, uuid.Nil, output.User.GroupID, "signup must assign a fresh group")
	fixtures.authRepo.AssertExpectations(t)
}

func TestUserService_SignUp_EmailTaken(t *testing.T) {
	fixtures := createTestUserService(0)

	input := &usecase.SignUpInput{
		DisplayName: "Анна",
		Email:       "taken@example.com",
		Password:    "StrongPass123",
	}

	fixtures.hasher.On("Hash", input.Password).Return("hashed_password", nil)
	fixtures.userRepo.On("FindByEmail", mock.Anything, input.Email).
		Return(&entity.User{ID: uuid.New(), Email: input.Email}, nil)

	output, err := fixtures.service.SignUp(context.Background(), input)

	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)
}

func TestUserService_SignUp_WeakPassword(t *testing.T) {
	fixtures := createTestUserService(0)

	output, err := fixtures.service.SignUp(context.Background(), &usecase.SignUpInput{
		DisplayName: "Анна",
		Email:       "anna@example.com",
		Password:    "short",
	})

	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrPasswordStrength)
	fixtures.userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserService_Login_Success(t *testing.T) {
	fixtures := createTestUserService(0)
	userID := uuid.New()

	fixtures.authRepo.On("FindAuthentication", mock.Anything, "email", "anna@example.com").
		Return(&entity.Authentication{UserID: userID, PasswordHash: "hashed"}, nil)
	fixtures.hasher.On("Check", "StrongPass123", "hashed").Return(true)
	fixtures.userRepo.On("FindByID", mock.Anything, userID).
		Return(&entity.User{ID: userID, Email: "anna@example.com"}, nil)
	fixtures.tokenService.On("GenerateTokens", userID).
		Return("access_token", "refresh_token", nil)
	fixtures.tokenService.On("HashToken", "refresh_token").Return("refresh_hash")
	fixtures.tokenService.On("GetRefreshTokenDuration").Return(7 * 24 * time.Hour)
	fixtures.refreshTokenRepo.On("CreateRefreshToken", mock.Anything, mock.AnythingOfType("*entity.RefreshToken")).
		Return(nil)

	output, err := fixtures.service.Login(context.Background(), &usecase.LoginInput{
		Email:    "anna@example.com",
		Password: "StrongPass123",
	})

	require.NoError(t, err)
	assert.Equal(t, userID, output.User.ID)
}

func TestUserService_Login_WrongPassword(t *testing.T) {
	fixtures := createTestUserService(0)

	fixtures.authRepo.On("FindAuthentication", mock.Anything, "email", "anna@example.com").
		Return(&entity.Authentication{UserID: uuid.New(), PasswordHash: "hashed"}, nil)
	fixtures.hasher.On("Check", "wrong", "hashed").Return(false)

	output, err := fixtures.service.Login(context.Background(), &usecase.LoginInput{
		Email:    "anna@example.com",
		Password: "wrong",
	})

	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestUserService_Login_UnknownEmail(t *testing.T) {
	fixtures := createTestUserService(0)

	fixtures.authRepo.On("FindAuthentication", mock.Anything, "email", "nobody@example.com").
		Return(nil, repository.ErrAuthNotFound)

	output, err := fixtures.service.Login(context.Background(), &usecase.LoginInput{
		Email:    "nobody@example.com",
		Password: "whatever123",
	})

	assert.Nil(t, output)
	// Unknown email and wrong password are indistinguishable to the caller.
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestUserService_Login_SessionLimitExceeded(t *testing.T) {
	fixtures := createTestUserService(2)
	userID := uuid.New()

	fixtures.authRepo.On("FindAuthentication", mock.Anything, "email", "anna@example.com").
		Return(&entity.Authentication{UserID: userID, PasswordHash: "hashed"}, nil)
	fixtures.hasher.On("Check", "StrongPass123", "hashed").Return(true)
	fixtures.userRepo.On("FindByID", mock.Anything, userID).
		Return(&entity.User{ID: userID}, nil)
	fixtures.tokenService.On("GenerateTokens", userID).
		Return("access_token", "refresh_token", nil)
	fixtures.refreshTokenRepo.On("CountActiveSessionsByUserID", mock.Anything, userID).
		Return(2, nil)

	output, err := fixtures.service.Login(context.Background(), &usecase.LoginInput{
		Email:    "anna@example.com",
		Password: "StrongPass123",
	})

	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrSessionLimitExceeded)
	fixtures.refreshTokenRepo.AssertNotCalled(t, "CreateRefreshToken", mock.Anything, mock.Anything)
}

func TestUserService_GoogleSignIn_CreatesUserOnFirstLogin(t *testing.T) {
	fixtures := createTestUserService(0)

	oauthUser := &service.OAuthUser{
		ID:            "google-sub-123",
		Email:         "anna@example.com",
		Name:          "Анна",
		Provider:      entity.ProviderTypeGoogle,
		EmailVerified: true,
	}

	fixtures.googleAuthService.On("VerifyIDToken", mock.Anything, "id_token").Return(oauthUser, nil)
	fixtures.authRepo.On("FindAuthentication", mock.Anything, "google", "google-sub-123").
		Return(nil, repository.ErrAuthNotFound)
	fixtures.userRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.User")).
		Run(func(args mock.Arguments) {
			user := args.Get(1).(*entity.User)
			user.ID = uuid.New()
		}).
		Return(nil)
	fixtures.authRepo.On("CreateAuthentication", mock.Anything, mock.AnythingOfType("*entity.Authentication")).
		Return(nil)
	fixtures.tokenService.On("GenerateTokens", mock.Anything).
		Return("access_token", "refresh_token", nil)
	fixtures.tokenService.On("HashToken", "refresh_token").Return("refresh_hash")
	fixtures.tokenService.On("GetRefreshTokenDuration").Return(7 * 24 * time.Hour)
	fixtures.refreshTokenRepo.On("CreateRefreshToken", mock.Anything, mock.AnythingOfType("*entity.RefreshToken")).
		Return(nil)

	output, err := fixtures.service.GoogleSignIn(context.Background(), &usecase.GoogleSignInInput{IDToken: "id_token"})

	require.NoError(t, err)
	assert.Equal(t, "anna@example.com", output.User.Email)
	assert.True(t, output.User.EmailVerified)
	assert.NotEqual(t, uuid.Nil, output.User.GroupID)
}

func TestUserService_GoogleSignIn_InvalidToken(t *testing.T) {
	fixtures := createTestUserService(0)

	fixtures.googleAuthService.On("VerifyIDToken", mock.Anything, "bad_token").
		Return(nil, errors.New("token verification failed"))

	output, err := fixtures.service.GoogleSignIn(context.Background(), &usecase.GoogleSignInInput{IDToken: "bad_token"})

	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrOAuthTokenInvalid)
}

func TestUserService_RefreshToken_Success(t *testing.T) {
	fixtures := createTestUserService(0)
	userID := uuid.New()

	fixtures.tokenService.On("ValidateRefreshToken", "refresh_token").
		Return(&service.Claims{UserID: userID, Type: "refresh"}, nil)
	fixtures.tokenService.On("HashToken", "refresh_token").Return("refresh_hash")
	fixtures.refreshTokenRepo.On("FindRefreshTokenByHash", mock.Anything, "refresh_hash").
		Return(&entity.RefreshToken{UserID: userID}, nil)
	fixtures.userRepo.On("FindByID", mock.Anything, userID).
		Return(&entity.User{ID: userID}, nil)
	fixtures.tokenService.On("GenerateTokens", userID).
		Return("new_access_token", "unused_refresh", nil)

	output, err := fixtures.service.RefreshToken(context.Background(), &usecase.RefreshTokenInput{RefreshToken: "refresh_token"})

	require.NoError(t, err)
	assert.Equal(t, "new_access_token", output.AccessToken)
}

func TestUserService_RefreshToken_SessionRevoked(t *testing.T) {
	fixtures := createTestUserService(0)

	fixtures.tokenService.On("ValidateRefreshToken", "refresh_token").
		Return(&service.Claims{UserID: uuid.New(), Type: "refresh"}, nil)
	fixtures.tokenService.On("HashToken", "refresh_token").Return("refresh_hash")
	fixtures.refreshTokenRepo.On("FindRefreshTokenByHash", mock.Anything, "refresh_hash").
		Return(nil, repository.ErrRefreshTokenNotFound)

	output, err := fixtures.service.RefreshToken(context.Background(), &usecase.RefreshTokenInput{RefreshToken: "refresh_token"})

	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenNotFound)
}

func TestUserService_Logout(t *testing.T) {
	fixtures := createTestUserService(0)

	fixtures.tokenService.On("ValidateRefreshToken", "refresh_token").
		Return(&service.Claims{UserID: uuid.New(), Type: "refresh"}, nil)
	fixtures.tokenService.On("HashToken", "refresh_token").Return("refresh_hash")
	fixtures.refreshTokenRepo.On("DeleteRefreshTokenByHash", mock.Anything, "refresh_hash").
		Return(nil)

	err := fixtures.service.Logout(context.Background(), &usecase.LogoutInput{RefreshToken: "refresh_token"})

	assert.NoError(t, err)
	fixtures.refreshTokenRepo.AssertExpectations(t)
}

func TestUserService_RevokeSession_Forbidden(t *testing.T) {
	fixtures := createTestUserService(0)
	userID := uuid.New()
	foreignTokenID := uuid.New()

	fixtures.refreshTokenRepo.On("FindRefreshTokensByUserID", mock.Anything, userID).
		Return([]*entity.RefreshToken{{ID: uuid.New(), UserID: userID}}, nil)

	err := fixtures.service.RevokeSession(context.Background(), userID, foreignTokenID)

	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
	fixtures.refreshTokenRepo.AssertNotCalled(t, "DeleteRefreshToken", mock.Anything, mock.Anything)
}

func TestUserService_ConfirmEmail(t *testing.T) {
	fixtures := createTestUserService(0)
	userID := uuid.New()

	fixtures.tokenService.On("ValidateMailToken", "mail_token", service.TokenPurposeVerifyEmail).
		Return(&service.Claims{UserID: userID}, nil)
	fixtures.userRepo.On("FindByID", mock.Anything, userID).
		Return(&entity.User{ID: userID, Email: "anna@example.com"}, nil)
	fixtures.userRepo.On("Update", mock.Anything, mock.MatchedBy(func(user *entity.User) bool {
		return user.EmailVerified
	})).Return(nil)

	err := fixtures.service.ConfirmEmail(context.Background(), "mail_token")

	assert.NoError(t, err)
	fixtures.userRepo.AssertExpectations(t)
}

func TestUserService_ConfirmEmail_InvalidToken(t *testing.T) {
	fixtures := createTestUserService(0)

	fixtures.tokenService.On("ValidateMailToken", "bad_token", service.TokenPurposeVerifyEmail).
		Return(nil, errors.New("token expired"))

	err := fixtures.service.ConfirmEmail(context.Background(), "bad_token")

	assert.ErrorIs(t, err, domainerrors.ErrMailTokenInvalid)
}

func TestUserService_RequestPasswordReset_UnknownEmailIsSilent(t *testing.T) {
	fixtures := createTestUserService(0)

	fixtures.userRepo.On("FindByEmail", mock.Anything, "nobody@example.com").
		Return(nil, repository.ErrUserNotFound)

	err := fixtures.service.RequestPasswordReset(context.Background(), "nobody@example.com")

	// The caller must not learn whether the email is registered.
	assert.NoError(t, err)
	fixtures.mailService.AssertNotCalled(t, "SendPasswordResetMail", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserService_ConfirmPasswordReset_RevokesSessions(t *testing.T) {
	fixtures := createTestUserService(0)
	userID := uuid.New()

	fixtures.tokenService.On("ValidateMailToken", "reset_token", service.TokenPurposeResetPassword).
		Return(&service.Claims{UserID: userID}, nil)
	fixtures.hasher.On("Hash", "NewStrongPass123").Return("new_hash", nil)
	fixtures.userRepo.On("FindByID", mock.Anything, userID).
		Return(&entity.User{ID: userID, Email: "anna@example.com"}, nil)
	fixtures.authRepo.On("FindAuthentication", mock.Anything, "email", "anna@example.com").
		Return(&entity.Authentication{UserID: userID, PasswordHash: "old_hash"}, nil)
	fixtures.authRepo.On("UpdateAuthentication", mock.Anything, mock.MatchedBy(func(auth *entity.Authentication) bool {
		return auth.PasswordHash == "new_hash"
	})).Return(nil)
	fixtures.refreshTokenRepo.On("DeleteRefreshTokensByUserID", mock.Anything, userID).
		Return(nil)

	err := fixtures.service.ConfirmPasswordReset(context.Background(), &usecase.ConfirmPasswordResetInput{
		Token:       "reset_token",
		NewPassword: "NewStrongPass123",
	})

	assert.NoError(t, err)
	fixtures.refreshTokenRepo.AssertExpectations(t)
}
