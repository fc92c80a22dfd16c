// Package service provides hand-written testify doubles for the domain
// service interfaces, used by the usecase tests.
package service

import (
	"context"
	"time"

	"vkladovke/internal/domain/entity"
	"vkladovke/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockPasswordHasher mocks service.PasswordHasher.
type MockPasswordHasher struct {
	mock.Mock
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)

	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Check(password, hash string) bool {
	return m.Called(password, hash).Bool(0)
}

// MockTokenService mocks service.TokenService.
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateTokens(userID uuid.UUID) (string, string, error) {
	args := m.Called(userID)

	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockTokenService) ValidateAccessToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	claims, _ := args.Get(0).(*service.Claims)

	return claims, args.Error(1)
}

func (m *MockTokenService) ValidateRefreshToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	claims, _ := args.Get(0).(*service.Claims)

	return claims, args.Error(1)
}

func (m *MockTokenService) GenerateMailToken(userID uuid.UUID, purpose string) (string, error) {
	args := m.Called(userID, purpose)

	return args.String(0), args.Error(1)
}

func (m *MockTokenService) ValidateMailToken(tokenString, purpose string) (*service.Claims, error) {
	args := m.Called(tokenString, purpose)
	claims, _ := args.Get(0).(*service.Claims)

	return claims, args.Error(1)
}

func (m *MockTokenService) HashToken(token string) string {
	return m.Called(token).String(0)
}

func (m *MockTokenService) GetRefreshTokenDuration() time.Duration {
	args := m.Called()
	duration, _ := args.Get(0).(time.Duration)

	return duration
}

// MockOAuthAuthService mocks service.OAuthAuthService.
type MockOAuthAuthService struct {
	mock.Mock
}

func (m *MockOAuthAuthService) VerifyIDToken(ctx context.Context, idToken string) (*service.OAuthUser, error) {
	args := m.Called(ctx, idToken)
	user, _ := args.Get(0).(*service.OAuthUser)

	return user, args.Error(1)
}

func (m *MockOAuthAuthService) GetProvider() entity.ProviderType {
	args := m.Called()
	provider, _ := args.Get(0).(entity.ProviderType)

	return provider
}

// MockMailService mocks service.MailService.
type MockMailService struct {
	mock.Mock
}

func (m *MockMailService) SendVerificationMail(ctx context.Context, to, token string) error {
	return m.Called(ctx, to, token).Error(0)
}

func (m *MockMailService) SendPasswordResetMail(ctx context.Context, to, token string) error {
	return m.Called(ctx, to, token).Error(0)
}

// MockQRCodeService mocks service.QRCodeService.
type MockQRCodeService struct {
	mock.Mock
}

func (m *MockQRCodeService) GenerateInvitationQR(inviteeEmail string) ([]byte, error) {
	args := m.Called(inviteeEmail)
	png, _ := args.Get(0).([]byte)

	return png, args.Error(1)
}

func (m *MockQRCodeService) ParseInvitationQR(qrData string) (string, error) {
	args := m.Called(qrData)

	return args.String(0), args.Error(1)
}

// MockEventPublisher mocks service.EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishOrderEvent(ctx context.Context, event *service.OrderEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockEventPublisher) Close() error {
	return m.Called().Error(0)
}

// MockNotificationService mocks service.NotificationService.
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) SendBatchNotification(ctx context.Context, tokens []string, title, body string, data map[string]string) (int, int, []string, error) {
	args := m.Called(ctx, tokens, title, body, data)
	invalid, _ := args.Get(2).([]string)

	return args.Int(0), args.Int(1), invalid, args.Error(3)
}

func (m *MockNotificationService) SendSingleNotification(ctx context.Context, token, title, body string, data map[string]string) error {
	return m.Called(ctx, token, title, body, data).Error(0)
}
