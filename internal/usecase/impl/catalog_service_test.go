package impl

import (
	"context"
	"testing"

	"vkladovke/internal/domain/entity"
	domainerrors "vkladovke/internal/domain/errors"
	"vkladovke/internal/domain/repository"
	mockRepo "vkladovke/internal/mocks/repository"
	"vkladovke/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type catalogServiceFixtures struct {
	service      usecase.CatalogUsecase
	userRepo     *mockRepo.MockUserRepository
	productRepo  *mockRepo.MockProductRepository
	settingsRepo *mockRepo.MockSettingsRepository
}

func createTestCatalogService() catalogServiceFixtures {
	userRepo := &mockRepo.MockUserRepository{}
	productRepo := &mockRepo.MockProductRepository{}
	settingsRepo := &mockRepo.MockSettingsRepository{}

	txManager := &mockRepo.StubTransactionManager{
		Factory: &mockRepo.StubRepositoryFactory{
			UserRepo:    userRepo,
			ProductRepo: productRepo,
		},
	}

	svc := NewCatalogService(CatalogServiceParams{
		TxManager:    txManager,
		UserRepo:     userRepo,
		ProductRepo:  productRepo,
		SettingsRepo: settingsRepo,
		Logger:       newDiscardLogger(),
	})

	return catalogServiceFixtures{
		service:      svc,
		userRepo:     userRepo,
		productRepo:  productRepo,
		settingsRepo: settingsRepo,
	}
}

func catalogActor() *entity.User {
	return &entity.User{ID: uuid.New(), Email: "anna@example.com", GroupID: uuid.New()}
}

func TestCatalogService_GetSettings(t *testing.T) {
	fixtures := createTestCatalogService()

	settings := &entity.Settings{
		Units:      []entity.Unit{{ID: uuid.New(), Name: "шт."}},
		Categories: []entity.Category{{ID: uuid.New(), Name: "Овощи"}},
	}
	fixtures.settingsRepo.On("FindSettings", mock.Anything).Return(settings, nil)

	got, err := fixtures.service.GetSettings(context.Background())

	require.NoError(t, err)
	assert.Equal(t, settings, got)
}

func TestCatalogService_GetProducts_IncludesDeleted(t *testing.T) {
	fixtures := createTestCatalogService()
	actor := catalogActor()

	products := []*entity.Product{
		{ID: uuid.New(), GroupID: actor.GroupID, Name: "Молоко", State: entity.ProductStateActive},
		{ID: uuid.New(), GroupID: actor.GroupID, Name: "Старый товар", State: entity.ProductStateDeleted},
	}

	fixtures.userRepo.On("FindByID", mock.Anything, actor.ID).Return(actor, nil)
	fixtures.productRepo.On("FindByGroupID", mock.Anything, actor.GroupID).Return(products, nil)

	got, err := fixtures.service.GetProducts(context.Background(), actor.ID)

	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestCatalogService_AddProduct_Success(t *testing.T) {
	fixtures := createTestCatalogService()
	actor := catalogActor()

	fixtures.userRepo.On("FindByID", mock.Anything, actor.ID).Return(actor, nil)
	fixtures.productRepo.On("ExistsActiveByName", mock.Anything, actor.GroupID, "Молоко").
		Return(false, nil)
	fixtures.productRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Product")).
		Run(func(args mock.Arguments) {
			product := args.Get(1).(*entity.Product)
			product.ID = uuid.New()
		}).
		Return(nil)

	product, err := fixtures.service.AddProduct(context.Background(), &usecase.AddProductInput{
		ActorID: actor.ID,
		Name:    "  Молоко ",
	})

	require.NoError(t, err)
	assert.Equal(t, "Молоко", product.Name, "name must be trimmed")
	assert.Equal(t, actor.GroupID, product.GroupID)
	assert.Equal(t, entity.ProductStateActive, product.State)
}

func TestCatalogService_AddProduct_NameTaken(t *testing.T) {
	fixtures := createTestCatalogService()
	actor := catalogActor()

	fixtures.userRepo.On("FindByID", mock.Anything, actor.ID).Return(actor, nil)
	fixtures.productRepo.On("ExistsActiveByName", mock.Anything, actor.GroupID, "Молоко").
		Return(true, nil)

	product, err := fixtures.service.AddProduct(context.Background(), &usecase.AddProductInput{
		ActorID: actor.ID,
		Name:    "Молоко",
	})

	assert.Nil(t, product)
	assert.ErrorIs(t, err, domainerrors.ErrProductAlreadyExists)
	fixtures.productRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCatalogService_UpdateProduct_OtherGroupForbidden(t *testing.T) {
	fixtures := createTestCatalogService()
	actor := catalogActor()
	productID := uuid.New()

	fixtures.userRepo.On("FindByID", mock.Anything, actor.ID).Return(actor, nil)
	fixtures.productRepo.On("FindByID", mock.Anything, productID).
		Return(&entity.Product{ID: productID, GroupID: uuid.New(), Name: "Чужой"}, nil)

	product, err := fixtures.service.UpdateProduct(context.Background(), &usecase.UpdateProductInput{
		ActorID:   actor.ID,
		ProductID: productID,
		Name:      "Чужой",
	})

	assert.Nil(t, product)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestCatalogService_UpdateProduct_SameNameKeepsNoConflict(t *testing.T) {
	fixtures := createTestCatalogService()
	actor := catalogActor()
	productID := uuid.New()

	existing := &entity.Product{
		ID:      productID,
		GroupID: actor.GroupID,
		Name:    "Молоко",
		State:   entity.ProductStateActive,
	}

	fixtures.userRepo.On("FindByID", mock.Anything, actor.ID).Return(actor, nil)
	fixtures.productRepo.On("FindByID", mock.Anything, productID).Return(existing, nil)
	fixtures.productRepo.On("Update", mock.Anything, mock.AnythingOfType("*entity.Product")).Return(nil)

	// Changing only the letter case of the product's own name is not a conflict.
	product, err := fixtures.service.UpdateProduct(context.Background(), &usecase.UpdateProductInput{
		ActorID:   actor.ID,
		ProductID: productID,
		Name:      "МОЛОКО",
	})

	require.NoError(t, err)
	assert.Equal(t, "МОЛОКО", product.Name)
	fixtures.productRepo.AssertNotCalled(t, "ExistsActiveByName", mock.Anything, mock.Anything, mock.Anything)
}

func TestCatalogService_DeleteProduct_SoftDeletes(t *testing.T) {
	fixtures := createTestCatalogService()
	actor := catalogActor()
	productID := uuid.New()

	existing := &entity.Product{
		ID:      productID,
		GroupID: actor.GroupID,
		Name:    "Молоко",
		State:   entity.ProductStateActive,
	}

	fixtures.userRepo.On("FindByID", mock.Anything, actor.ID).Return(actor, nil)
	fixtures.productRepo.On("FindByID", mock.Anything, productID).Return(existing, nil)
	fixtures.productRepo.On("Update", mock.Anything, mock.MatchedBy(func(product *entity.Product) bool {
		return product.State == entity.ProductStateDeleted
	})).Return(nil)

	err := fixtures.service.DeleteProduct(context.Background(), actor.ID, productID)

	assert.NoError(t, err)
	fixtures.productRepo.AssertExpectations(t)
}

func TestCatalogService_DeleteProduct_AlreadyDeletedIsIdempotent(t *testing.T) {
	fixtures := createTestCatalogService()
	actor := catalogActor()
	productID := uuid.New()

	fixtures.userRepo.On("FindByID", mock.Anything, actor.ID).Return(actor, nil)
	fixtures.productRepo.On("FindByID", mock.Anything, productID).
		Return(&entity.Product{ID: productID, GroupID: actor.GroupID, State: entity.ProductStateDeleted}, nil)

	err := fixtures.service.DeleteProduct(context.Background(), actor.ID, productID)

	assert.NoError(t, err)
	fixtures.productRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCatalogService_ResolveProductInfo_FallbackSentinels(t *testing.T) {
	fixtures := createTestCatalogService()
	actor := catalogActor()

	categoryID := uuid.New()
	unitID := uuid.New()
	known := &entity.Product{
		ID:         uuid.New(),
		GroupID:    actor.GroupID,
		Name:       "Молоко",
		CategoryID: categoryID,
		UnitID:     unitID,
		State:      entity.ProductStateActive,
	}
	unknownID := uuid.New()

	fixtures.userRepo.On("FindByID", mock.Anything, actor.ID).Return(actor, nil)
	fixtures.productRepo.On("FindByGroupID", mock.Anything, actor.GroupID).
		Return([]*entity.Product{known}, nil)
	fixtures.settingsRepo.On("FindSettings", mock.Anything).Return(&entity.Settings{
		Units:      []entity.Unit{{ID: unitID, Name: "л"}},
		Categories: []entity.Category{{ID: categoryID, Name: "Молочные продукты"}},
	}, nil)

	resolved, err := fixtures.service.ResolveProductInfo(context.Background(), actor.ID, []uuid.UUID{known.ID, unknownID})

	require.NoError(t, err)
	require.Len(t, resolved, 2)

	assert.Equal(t, "Молоко", resolved[known.ID].Name)
	assert.Equal(t, "Молочные продукты", resolved[known.ID].Category)
	assert.Equal(t, "л", resolved[known.ID].Unit)
	assert.False(t, resolved[known.ID].Deleted)

	// Unknown product resolves to the display sentinels.
	assert.Equal(t, entity.NoNameProduct, resolved[unknownID].Name)
	assert.Equal(t, entity.FallbackCatName, resolved[unknownID].Category)
	assert.Equal(t, entity.DefaultUnitName, resolved[unknownID].Unit)
	assert.True(t, resolved[unknownID].Deleted)
}

func TestCatalogService_ResolveProductInfo_UsesMirrorAfterWrite(t *testing.T) {
	fixtures := createTestCatalogService()
	actor := catalogActor()

	fixtures.userRepo.On("FindByID", mock.Anything, actor.ID).Return(actor, nil)
	fixtures.productRepo.On("FindByGroupID", mock.Anything, actor.GroupID).
		Return([]*entity.Product{}, nil).Once()
	fixtures.productRepo.On("ExistsActiveByName", mock.Anything, actor.GroupID, "Молоко").
		Return(false, nil)
	fixtures.productRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Product")).
		Run(func(args mock.Arguments) {
			product := args.Get(1).(*entity.Product)
			product.ID = uuid.New()
		}).
		Return(nil)
	fixtures.settingsRepo.On("FindSettings", mock.Anything).Return(&entity.Settings{}, nil)

	// Warm the mirror, then write through it.
	_, err := fixtures.service.GetProducts(context.Background(), actor.ID)
	require.NoError(t, err)

	product, err := fixtures.service.AddProduct(context.Background(), &usecase.AddProductInput{
		ActorID: actor.ID,
		Name:    "Молоко",
	})
	require.NoError(t, err)

	// FindByGroupID was consumed by the warm-up call; resolution now runs
	// off the mirrored catalog.
	resolved, err := fixtures.service.ResolveProductInfo(context.Background(), actor.ID, []uuid.UUID{product.ID})
	require.NoError(t, err)
	assert.Equal(t, "Молоко", resolved[product.ID].Name)
}

func TestCatalogService_GetProducts_ActorNotFound(t *testing.T) {
	fixtures := createTestCatalogService()
	actorID := uuid.New()

	fixtures.userRepo.On("FindByID", mock.Anything, actorID).
		Return(nil, repository.ErrUserNotFound)

	products, err := fixtures.service.GetProducts(context.Background(), actorID)

	assert.Nil(t, products)
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}
