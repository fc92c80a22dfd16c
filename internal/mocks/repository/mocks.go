// Package repository provides hand-written testify doubles for the
// persistence interfaces, used by the usecase tests.
package repository

import (
	"context"

	"vkladovke/internal/domain/entity"
	"vkladovke/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository mocks repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*entity.User)

	return user, args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*entity.User)

	return user, args.Error(1)
}

func (m *MockUserRepository) FindByGroupID(ctx context.Context, groupID uuid.UUID) ([]*entity.User, error) {
	args := m.Called(ctx, groupID)
	users, _ := args.Get(0).([]*entity.User)

	return users, args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *entity.User) error {
	return m.Called(ctx, user).Error(0)
}

// MockAuthRepository mocks repository.AuthRepository.
type MockAuthRepository struct {
	mock.Mock
}

func (m *MockAuthRepository) CreateAuthentication(ctx context.Context, auth *entity.Authentication) error {
	return m.Called(ctx, auth).Error(0)
}

func (m *MockAuthRepository) FindAuthentication(ctx context.Context, provider, providerUserID string) (*entity.Authentication, error) {
	args := m.Called(ctx, provider, providerUserID)
	auth, _ := args.Get(0).(*entity.Authentication)

	return auth, args.Error(1)
}

func (m *MockAuthRepository) UpdateAuthentication(ctx context.Context, auth *entity.Authentication) error {
	return m.Called(ctx, auth).Error(0)
}

// MockRefreshTokenRepository mocks repository.RefreshTokenRepository.
type MockRefreshTokenRepository struct {
	mock.Mock
}

func (m *MockRefreshTokenRepository) CreateRefreshToken(ctx context.Context, token *entity.RefreshToken) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockRefreshTokenRepository) FindRefreshTokenByHash(ctx context.Context, tokenHash string) (*entity.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	token, _ := args.Get(0).(*entity.RefreshToken)

	return token, args.Error(1)
}

func (m *MockRefreshTokenRepository) FindRefreshTokensByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.RefreshToken, error) {
	args := m.Called(ctx, userID)
	tokens, _ := args.Get(0).([]*entity.RefreshToken)

	return tokens, args.Error(1)
}

func (m *MockRefreshTokenRepository) DeleteRefreshToken(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRefreshTokenRepository) DeleteRefreshTokenByHash(ctx context.Context, tokenHash string) error {
	return m.Called(ctx, tokenHash).Error(0)
}

func (m *MockRefreshTokenRepository) DeleteRefreshTokensByUserID(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockRefreshTokenRepository) DeleteExpiredRefreshTokens(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockRefreshTokenRepository) CountActiveSessionsByUserID(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)

	return args.Int(0), args.Error(1)
}

// MockInvitationRepository mocks repository.InvitationRepository.
type MockInvitationRepository struct {
	mock.Mock
}

func (m *MockInvitationRepository) Upsert(ctx context.Context, invitation *entity.Invitation) error {
	return m.Called(ctx, invitation).Error(0)
}

func (m *MockInvitationRepository) FindByInviteeEmail(ctx context.Context, email string) (*entity.Invitation, error) {
	args := m.Called(ctx, email)
	invitation, _ := args.Get(0).(*entity.Invitation)

	return invitation, args.Error(1)
}

func (m *MockInvitationRepository) DeleteByInviteeEmail(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

// MockProductRepository mocks repository.ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	args := m.Called(ctx, id)
	product, _ := args.Get(0).(*entity.Product)

	return product, args.Error(1)
}

func (m *MockProductRepository) FindByGroupID(ctx context.Context, groupID uuid.UUID) ([]*entity.Product, error) {
	args := m.Called(ctx, groupID)
	products, _ := args.Get(0).([]*entity.Product)

	return products, args.Error(1)
}

func (m *MockProductRepository) ExistsActiveByName(ctx context.Context, groupID uuid.UUID, name string) (bool, error) {
	args := m.Called(ctx, groupID, name)

	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *entity.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *entity.Product) error {
	return m.Called(ctx, product).Error(0)
}

// MockSettingsRepository mocks repository.SettingsRepository.
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) FindSettings(ctx context.Context) (*entity.Settings, error) {
	args := m.Called(ctx)
	settings, _ := args.Get(0).(*entity.Settings)

	return settings, args.Error(1)
}

// MockOrderRepository mocks repository.OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByGroupID(ctx context.Context, groupID uuid.UUID, filter repository.OrderFilter) ([]*entity.Order, error) {
	args := m.Called(ctx, groupID, filter)
	orders, _ := args.Get(0).([]*entity.Order)

	return orders, args.Error(1)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	args := m.Called(ctx, id)
	order, _ := args.Get(0).(*entity.Order)

	return order, args.Error(1)
}

func (m *MockOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	args := m.Called(ctx, id)
	order, _ := args.Get(0).(*entity.Order)

	return order, args.Error(1)
}

func (m *MockOrderRepository) Create(ctx context.Context, order *entity.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, order *entity.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// StubRepositoryFactory hands out fixed repository instances, letting a
// test run a whole transaction against its mocks.
type StubRepositoryFactory struct {
	UserRepo         repository.UserRepository
	AuthRepo         repository.AuthRepository
	RefreshTokenRepo repository.RefreshTokenRepository
	InvitationRepo   repository.InvitationRepository
	ProductRepo      repository.ProductRepository
	OrderRepo        repository.OrderRepository
}

func (f *StubRepositoryFactory) NewUserRepository() repository.UserRepository {
	return f.UserRepo
}

func (f *StubRepositoryFactory) NewAuthRepository() repository.AuthRepository {
	return f.AuthRepo
}

func (f *StubRepositoryFactory) NewRefreshTokenRepository() repository.RefreshTokenRepository {
	return f.RefreshTokenRepo
}

func (f *StubRepositoryFactory) NewInvitationRepository() repository.InvitationRepository {
	return f.InvitationRepo
}

func (f *StubRepositoryFactory) NewProductRepository() repository.ProductRepository {
	return f.ProductRepo
}

func (f *StubRepositoryFactory) NewOrderRepository() repository.OrderRepository {
	return f.OrderRepo
}

// StubTransactionManager runs the transactional function directly against
// the stub factory, without any real transaction semantics.
type StubTransactionManager struct {
	Factory *StubRepositoryFactory
}

func (m *StubTransactionManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(m.Factory)
}
