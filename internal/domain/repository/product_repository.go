// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"vkladovke/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Domain-specific errors for catalog persistence.
var (
	// ErrProductNotFound is returned when a product is not found.
	ErrProductNotFound = errors.New("product not found")
	// ErrProductNameTaken is returned when an active product with the same name already exists.
	ErrProductNameTaken = errors.New("product name already taken")
)

// ProductRepository defines the operations for catalog product persistence.
// Deleted products stay in storage so existing orders keep resolving them.
type ProductRepository interface {
	// FindByID retrieves a single product regardless of its lifecycle state.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	// FindByGroupID retrieves every product of a group, including deleted ones.
	FindByGroupID(ctx context.Context, groupID uuid.UUID) ([]*entity.Product, error)

	// ExistsActiveByName reports whether an active product with the given
	// name (case-insensitive) already exists in the group.
	ExistsActiveByName(ctx context.Context, groupID uuid.UUID, name string) (bool, error)

	// Create persists a new product.
	Create(ctx context.Context, product *entity.Product) error

	// Update modifies an existing product, including its lifecycle state.
	Update(ctx context.Context, product *entity.Product) error
}

// SettingsRepository provides the read-only reference data (units, categories).
type SettingsRepository interface {
	// FindSettings retrieves all units and categories.
	FindSettings(ctx context.Context) (*entity.Settings, error)
}
