package usecase

import (
	"context"

	"vkladovke/internal/domain/entity"

	"github.com/google/uuid"
)

// AddProductInput defines the data required to add a catalog product.
type AddProductInput struct {
	ActorID    uuid.UUID
	Name       string
	CategoryID uuid.UUID
	UnitID     uuid.UUID
}

// UpdateProductInput defines the data required to update a catalog product.
type UpdateProductInput struct {
	ActorID    uuid.UUID
	ProductID  uuid.UUID
	Name       string
	CategoryID uuid.UUID
	UnitID     uuid.UUID
}

// CatalogUsecase defines the interface for catalog and reference data operations.
// The catalog is shared by the whole group; products are soft-deleted so
// existing orders keep resolving them.
type CatalogUsecase interface {
	// GetSettings returns the units and categories reference data.
	GetSettings(ctx context.Context) (*entity.Settings, error)

	// GetProducts returns every product of the actor's group, deleted ones included.
	GetProducts(ctx context.Context, actorID uuid.UUID) ([]*entity.Product, error)

	// AddProduct creates an active product. The name must be unique
	// (case-insensitive) among the group's active products.
	AddProduct(ctx context.Context, input *AddProductInput) (*entity.Product, error)

	// UpdateProduct modifies a product's name, category or unit.
	UpdateProduct(ctx context.Context, input *UpdateProductInput) (*entity.Product, error)

	// DeleteProduct marks a product deleted without removing it from storage.
	DeleteProduct(ctx context.Context, actorID, productID uuid.UUID) error

	// ResolveProductInfo resolves product references for display. Unknown
	// ids resolve to the no-name sentinel with the default unit.
	ResolveProductInfo(ctx context.Context, actorID uuid.UUID, productIDs []uuid.UUID) (map[uuid.UUID]entity.ProductInfo, error)
}
