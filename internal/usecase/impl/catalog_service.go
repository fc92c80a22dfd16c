package impl

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	deliverycontext "vkladovke/internal/delivery/context"
	"vkladovke/internal/domain/entity"
	domainerrors "vkladovke/internal/domain/errors"
	"vkladovke/internal/domain/repository"
	"vkladovke/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// catalogService implements the CatalogUsecase interface. It keeps an
// in-memory mirror of each group's catalog, refreshed on reads and
// updated write-through, so resolving product references for order
// rendering does not hit the database every time. The mirror is only a
// per-instance cache; the database stays the source of truth.
type catalogService struct {
	txManager    repository.TransactionManager
	userRepo     repository.UserRepository
	productRepo  repository.ProductRepository
	settingsRepo repository.SettingsRepository
	logger       *slog.Logger

	mu     sync.RWMutex
	mirror map[uuid.UUID]map[uuid.UUID]*entity.Product // groupID -> productID -> product
}

// CatalogServiceParams holds dependencies for CatalogService, injected by Fx.
type CatalogServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	UserRepo     repository.UserRepository
	ProductRepo  repository.ProductRepository
	SettingsRepo repository.SettingsRepository
	Logger       *slog.Logger
}

// NewCatalogService is the constructor for catalogService.
func NewCatalogService(params CatalogServiceParams) usecase.CatalogUsecase {
	return &catalogService{
		txManager:    params.TxManager,
		userRepo:     params.UserRepo,
		productRepo:  params.ProductRepo,
		settingsRepo: params.SettingsRepo,
		logger:       params.Logger,
		mirror:       make(map[uuid.UUID]map[uuid.UUID]*entity.Product),
	}
}

func (srv *catalogService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetSettings returns the units and categories reference data.
func (srv *catalogService) GetSettings(ctx context.Context) (*entity.Settings, error) {
	settings, err := srv.settingsRepo.FindSettings(ctx)
	if err != nil {
		srv.log(ctx).Error("Failed to load settings", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to load settings")
	}

	return settings, nil
}

// GetProducts returns every product of the actor's group, deleted ones included.
func (srv *catalogService) GetProducts(ctx context.Context, actorID uuid.UUID) ([]*entity.Product, error) {
	actor, err := srv.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	products, err := srv.productRepo.FindByGroupID(ctx, actor.GroupID)
	if err != nil {
		srv.log(ctx).Error("Failed to load products", slog.Any("groupID", actor.GroupID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to load products")
	}

	srv.replaceMirror(actor.GroupID, products)

	return products, nil
}

// AddProduct creates an active product after checking name uniqueness
// among the group's active products, case-insensitively.
func (srv *catalogService) AddProduct(ctx context.Context, input *usecase.AddProductInput) (*entity.Product, error) {
	actor, err := srv.loadActor(ctx, input.ActorID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "product name is required")
	}

	var product *entity.Product
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		productRepo := repoFactory.NewProductRepository()

		taken, existsErr := productRepo.ExistsActiveByName(ctx, actor.GroupID, name)
		if existsErr != nil {
			return errors.Wrap(existsErr, "failed to check product name")
		}
		if taken {
			return errors.Wrap(domainerrors.ErrProductAlreadyExists, "product name already taken")
		}

		product = &entity.Product{
			GroupID:    actor.GroupID,
			Name:       name,
			CategoryID: input.CategoryID,
			UnitID:     input.UnitID,
			State:      entity.ProductStateActive,
		}

		if createErr := productRepo.Create(ctx, product); createErr != nil {
			return errors.Wrap(createErr, "failed to create product")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to add product", slog.Any("groupID", actor.GroupID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute add product transaction")
	}

	srv.mirrorWrite(actor.GroupID, product)
	srv.log(ctx).Info("Product added", slog.Any("productID", product.ID), slog.Any("groupID", actor.GroupID))

	return product, nil
}

// UpdateProduct modifies a product's name, category or unit.
func (srv *catalogService) UpdateProduct(ctx context.Context, input *usecase.UpdateProductInput) (*entity.Product, error) {
	actor, err := srv.loadActor(ctx, input.ActorID)
	if err != nil {
		return nil, err
	}

	var product *entity.Product
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		productRepo := repoFactory.NewProductRepository()

		existing, findErr := productRepo.FindByID(ctx, input.ProductID)
		if findErr != nil {
			if errors.Is(findErr, repository.ErrProductNotFound) {
				return errors.Wrap(domainerrors.ErrProductNotFound, "product not found")
			}

			return errors.Wrap(findErr, "failed to load product")
		}
		if existing.GroupID != actor.GroupID {
			return errors.Wrap(domainerrors.ErrForbidden, "product belongs to another group")
		}

		name := strings.TrimSpace(input.Name)
		if name == "" {
			return errors.Wrap(domainerrors.ErrValidationFailed, "product name is required")
		}

		// Renaming to a name held by another active product is a conflict;
		// keeping the same name (any case) is not.
		if !strings.EqualFold(name, existing.Name) {
			taken, existsErr := productRepo.ExistsActiveByName(ctx, actor.GroupID, name)
			if existsErr != nil {
				return errors.Wrap(existsErr, "failed to check product name")
			}
			if taken {
				return errors.Wrap(domainerrors.ErrProductAlreadyExists, "product name already taken")
			}
		}

		existing.Name = name
		existing.CategoryID = input.CategoryID
		existing.UnitID = input.UnitID

		if updateErr := productRepo.Update(ctx, existing); updateErr != nil {
			return errors.Wrap(updateErr, "failed to update product")
		}
		product = existing

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to update product", slog.Any("productID", input.ProductID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute update product transaction")
	}

	srv.mirrorWrite(actor.GroupID, product)

	return product, nil
}

// DeleteProduct marks a product deleted without removing it from storage,
// so rows in existing orders keep resolving its name and unit.
func (srv *catalogService) DeleteProduct(ctx context.Context, actorID, productID uuid.UUID) error {
	actor, err := srv.loadActor(ctx, actorID)
	if err != nil {
		return err
	}

	var deleted *entity.Product
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		productRepo := repoFactory.NewProductRepository()

		existing, findErr := productRepo.FindByID(ctx, productID)
		if findErr != nil {
			if errors.Is(findErr, repository.ErrProductNotFound) {
				return errors.Wrap(domainerrors.ErrProductNotFound, "product not found")
			}

			return errors.Wrap(findErr, "failed to load product")
		}
		if existing.GroupID != actor.GroupID {
			return errors.Wrap(domainerrors.ErrForbidden, "product belongs to another group")
		}

		if existing.State == entity.ProductStateDeleted {
			deleted = existing

			return nil
		}

		existing.State = entity.ProductStateDeleted
		if updateErr := productRepo.Update(ctx, existing); updateErr != nil {
			return errors.Wrap(updateErr, "failed to mark product deleted")
		}
		deleted = existing

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to delete product", slog.Any("productID", productID), slog.Any("error", err))

		return errors.Wrap(err, "failed to execute delete product transaction")
	}

	srv.mirrorWrite(actor.GroupID, deleted)
	srv.log(ctx).Info("Product deleted", slog.Any("productID", productID), slog.Any("groupID", actor.GroupID))

	return nil
}

// ResolveProductInfo resolves product references for display. Unknown ids
// resolve to the no-name sentinel with the default unit so old orders
// render even after catalog changes.
func (srv *catalogService) ResolveProductInfo(ctx context.Context, actorID uuid.UUID, productIDs []uuid.UUID) (map[uuid.UUID]entity.ProductInfo, error) {
	actor, err := srv.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	catalog, err := srv.groupCatalog(ctx, actor.GroupID)
	if err != nil {
		return nil, err
	}

	settings, err := srv.settingsRepo.FindSettings(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load settings for product resolution")
	}

	categories := make(map[uuid.UUID]string, len(settings.Categories))
	for _, category := range settings.Categories {
		categories[category.ID] = category.Name
	}
	units := make(map[uuid.UUID]string, len(settings.Units))
	for _, unit := range settings.Units {
		units[unit.ID] = unit.Name
	}

	resolved := make(map[uuid.UUID]entity.ProductInfo, len(productIDs))
	for _, id := range productIDs {
		resolved[id] = resolveOne(id, catalog, categories, units)
	}

	return resolved, nil
}

func resolveOne(id uuid.UUID, catalog map[uuid.UUID]*entity.Product, categories, units map[uuid.UUID]string) entity.ProductInfo {
	product, ok := catalog[id]
	if !ok {
		return entity.ProductInfo{
			ID:       id,
			Name:     entity.NoNameProduct,
			Category: entity.FallbackCatName,
			Unit:     entity.DefaultUnitName,
			Deleted:  true,
		}
	}

	categoryName, ok := categories[product.CategoryID]
	if !ok {
		categoryName = entity.FallbackCatName
	}
	unitName, ok := units[product.UnitID]
	if !ok {
		unitName = entity.DefaultUnitName
	}

	return entity.ProductInfo{
		ID:       product.ID,
		Name:     product.Name,
		Category: categoryName,
		Unit:     unitName,
		Deleted:  product.State == entity.ProductStateDeleted,
	}
}

func (srv *catalogService) loadActor(ctx context.Context, actorID uuid.UUID) (*entity.User, error) {
	actor, err := srv.userRepo.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrUserNotFound, "actor not found")
		}

		return nil, errors.Wrap(err, "failed to load actor")
	}

	return actor, nil
}

// groupCatalog returns a snapshot of the mirrored catalog, loading it on
// a cold cache. Snapshots keep callers safe from concurrent mirror writes.
func (srv *catalogService) groupCatalog(ctx context.Context, groupID uuid.UUID) (map[uuid.UUID]*entity.Product, error) {
	srv.mu.RLock()
	cached, ok := srv.mirror[groupID]
	var snapshot map[uuid.UUID]*entity.Product
	if ok {
		snapshot = make(map[uuid.UUID]*entity.Product, len(cached))
		for id, product := range cached {
			snapshot[id] = product
		}
	}
	srv.mu.RUnlock()
	if ok {
		return snapshot, nil
	}

	products, err := srv.productRepo.FindByGroupID(ctx, groupID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load products for resolution")
	}

	return srv.replaceMirror(groupID, products), nil
}

func (srv *catalogService) replaceMirror(groupID uuid.UUID, products []*entity.Product) map[uuid.UUID]*entity.Product {
	byID := make(map[uuid.UUID]*entity.Product, len(products))
	stored := make(map[uuid.UUID]*entity.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
		stored[product.ID] = product
	}

	srv.mu.Lock()
	srv.mirror[groupID] = stored
	srv.mu.Unlock()

	return byID
}

// mirrorWrite applies a single write to the mirror when the group is cached.
func (srv *catalogService) mirrorWrite(groupID uuid.UUID, product *entity.Product) {
	if product == nil {
		return
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()

	if byID, ok := srv.mirror[groupID]; ok {
		byID[product.ID] = product
	}
}
