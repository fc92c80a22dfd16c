// Package usecase provides hand-written testify doubles for the usecase
// interfaces, used by the HTTP handler tests.
package usecase

import (
	"context"

	"vkladovke/internal/domain/entity"
	"vkladovke/internal/domain/repository"
	"vkladovke/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserUsecase mocks usecase.UserUsecase.
type MockUserUsecase struct {
	mock.Mock
}

func (m *MockUserUsecase) SignUp(ctx context.Context, input *usecase.SignUpInput) (*usecase.AuthOutput, error) {
	args := m.Called(ctx, input)
	output, _ := args.Get(0).(*usecase.AuthOutput)

	return output, args.Error(1)
}

func (m *MockUserUsecase) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.AuthOutput, error) {
	args := m.Called(ctx, input)
	output, _ := args.Get(0).(*usecase.AuthOutput)

	return output, args.Error(1)
}

func (m *MockUserUsecase) GoogleSignIn(ctx context.Context, input *usecase.GoogleSignInInput) (*usecase.AuthOutput, error) {
	args := m.Called(ctx, input)
	output, _ := args.Get(0).(*usecase.AuthOutput)

	return output, args.Error(1)
}

func (m *MockUserUsecase) RefreshToken(ctx context.Context, input *usecase.RefreshTokenInput) (*usecase.RefreshTokenOutput, error) {
	args := m.Called(ctx, input)
	output, _ := args.Get(0).(*usecase.RefreshTokenOutput)

	return output, args.Error(1)
}

func (m *MockUserUsecase) Logout(ctx context.Context, input *usecase.LogoutInput) error {
	return m.Called(ctx, input).Error(0)
}

func (m *MockUserUsecase) LogoutAllDevices(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockUserUsecase) GetActiveSessions(ctx context.Context, userID uuid.UUID) ([]*entity.RefreshToken, error) {
	args := m.Called(ctx, userID)
	sessions, _ := args.Get(0).([]*entity.RefreshToken)

	return sessions, args.Error(1)
}

func (m *MockUserUsecase) RevokeSession(ctx context.Context, userID, tokenID uuid.UUID) error {
	return m.Called(ctx, userID, tokenID).Error(0)
}

func (m *MockUserUsecase) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*entity.User)

	return user, args.Error(1)
}

func (m *MockUserUsecase) UpdateDisplayName(ctx context.Context, userID uuid.UUID, displayName string) error {
	return m.Called(ctx, userID, displayName).Error(0)
}

func (m *MockUserUsecase) UpdateFCMToken(ctx context.Context, userID uuid.UUID, fcmToken string) error {
	return m.Called(ctx, userID, fcmToken).Error(0)
}

func (m *MockUserUsecase) SendVerificationMail(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockUserUsecase) ConfirmEmail(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockUserUsecase) RequestPasswordReset(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockUserUsecase) ConfirmPasswordReset(ctx context.Context, input *usecase.ConfirmPasswordResetInput) error {
	return m.Called(ctx, input).Error(0)
}

// MockCatalogUsecase mocks usecase.CatalogUsecase.
type MockCatalogUsecase struct {
	mock.Mock
}

func (m *MockCatalogUsecase) GetSettings(ctx context.Context) (*entity.Settings, error) {
	args := m.Called(ctx)
	settings, _ := args.Get(0).(*entity.Settings)

	return settings, args.Error(1)
}

func (m *MockCatalogUsecase) GetProducts(ctx context.Context, actorID uuid.UUID) ([]*entity.Product, error) {
	args := m.Called(ctx, actorID)
	products, _ := args.Get(0).([]*entity.Product)

	return products, args.Error(1)
}

func (m *MockCatalogUsecase) AddProduct(ctx context.Context, input *usecase.AddProductInput) (*entity.Product, error) {
	args := m.Called(ctx, input)
	product, _ := args.Get(0).(*entity.Product)

	return product, args.Error(1)
}

func (m *MockCatalogUsecase) UpdateProduct(ctx context.Context, input *usecase.UpdateProductInput) (*entity.Product, error) {
	args := m.Called(ctx, input)
	product, _ := args.Get(0).(*entity.Product)

	return product, args.Error(1)
}

func (m *MockCatalogUsecase) DeleteProduct(ctx context.Context, actorID, productID uuid.UUID) error {
	return m.Called(ctx, actorID, productID).Error(0)
}

func (m *MockCatalogUsecase) ResolveProductInfo(ctx context.Context, actorID uuid.UUID, productIDs []uuid.UUID) (map[uuid.UUID]entity.ProductInfo, error) {
	args := m.Called(ctx, actorID, productIDs)
	resolved, _ := args.Get(0).(map[uuid.UUID]entity.ProductInfo)

	return resolved, args.Error(1)
}

// MockOrderUsecase mocks usecase.OrderUsecase.
type MockOrderUsecase struct {
	mock.Mock
}

func (m *MockOrderUsecase) ListOrders(ctx context.Context, actorID uuid.UUID, filter repository.OrderFilter) ([]*entity.Order, error) {
	args := m.Called(ctx, actorID, filter)
	orders, _ := args.Get(0).([]*entity.Order)

	return orders, args.Error(1)
}

func (m *MockOrderUsecase) GetOrder(ctx context.Context, actorID, orderID uuid.UUID) (*entity.Order, error) {
	args := m.Called(ctx, actorID, orderID)
	order, _ := args.Get(0).(*entity.Order)

	return order, args.Error(1)
}

func (m *MockOrderUsecase) CreateOrder(ctx context.Context, input *usecase.CreateOrderInput) (*entity.Order, error) {
	args := m.Called(ctx, input)
	order, _ := args.Get(0).(*entity.Order)

	return order, args.Error(1)
}

func (m *MockOrderUsecase) UpdateOrder(ctx context.Context, input *usecase.UpdateOrderInput) (*entity.Order, error) {
	args := m.Called(ctx, input)
	order, _ := args.Get(0).(*entity.Order)

	return order, args.Error(1)
}

func (m *MockOrderUsecase) CompleteOrder(ctx context.Context, input *usecase.CompleteOrderInput) (*entity.Order, error) {
	args := m.Called(ctx, input)
	order, _ := args.Get(0).(*entity.Order)

	return order, args.Error(1)
}

func (m *MockOrderUsecase) ReopenOrder(ctx context.Context, actorID, orderID uuid.UUID) (*entity.Order, error) {
	args := m.Called(ctx, actorID, orderID)
	order, _ := args.Get(0).(*entity.Order)

	return order, args.Error(1)
}

func (m *MockOrderUsecase) DeleteOrder(ctx context.Context, actorID, orderID uuid.UUID) error {
	return m.Called(ctx, actorID, orderID).Error(0)
}

func (m *MockOrderUsecase) CompleteItem(ctx context.Context, actorID, orderID, productID uuid.UUID) (*entity.Order, error) {
	args := m.Called(ctx, actorID, orderID, productID)
	order, _ := args.Get(0).(*entity.Order)

	return order, args.Error(1)
}

func (m *MockOrderUsecase) ReopenItem(ctx context.Context, actorID, orderID, productID uuid.UUID) (*entity.Order, error) {
	args := m.Called(ctx, actorID, orderID, productID)
	order, _ := args.Get(0).(*entity.Order)

	return order, args.Error(1)
}

func (m *MockOrderUsecase) UpdateItem(ctx context.Context, input *usecase.UpdateItemInput) (*entity.Order, error) {
	args := m.Called(ctx, input)
	order, _ := args.Get(0).(*entity.Order)

	return order, args.Error(1)
}

func (m *MockOrderUsecase) AddItem(ctx context.Context, input *usecase.AddItemInput) (*entity.Order, error) {
	args := m.Called(ctx, input)
	order, _ := args.Get(0).(*entity.Order)

	return order, args.Error(1)
}

func (m *MockOrderUsecase) RemoveItem(ctx context.Context, actorID, orderID, productID uuid.UUID) (*entity.Order, error) {
	args := m.Called(ctx, actorID, orderID, productID)
	order, _ := args.Get(0).(*entity.Order)

	return order, args.Error(1)
}

// MockInvitationUsecase mocks usecase.InvitationUsecase.
type MockInvitationUsecase struct {
	mock.Mock
}

func (m *MockInvitationUsecase) Invite(ctx context.Context, actorID uuid.UUID, inviteeEmail string) error {
	return m.Called(ctx, actorID, inviteeEmail).Error(0)
}

func (m *MockInvitationUsecase) GetPendingInvitation(ctx context.Context, actorID uuid.UUID) (*entity.Invitation, error) {
	args := m.Called(ctx, actorID)
	invitation, _ := args.Get(0).(*entity.Invitation)

	return invitation, args.Error(1)
}

func (m *MockInvitationUsecase) ApplyInvitation(ctx context.Context, actorID uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, actorID)
	user, _ := args.Get(0).(*entity.User)

	return user, args.Error(1)
}

func (m *MockInvitationUsecase) DeclineInvitation(ctx context.Context, actorID uuid.UUID) error {
	return m.Called(ctx, actorID).Error(0)
}

func (m *MockInvitationUsecase) InvitationQR(ctx context.Context, actorID uuid.UUID) ([]byte, error) {
	args := m.Called(ctx, actorID)
	png, _ := args.Get(0).([]byte)

	return png, args.Error(1)
}
