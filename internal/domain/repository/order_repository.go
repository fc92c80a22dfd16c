// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"vkladovke/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrOrderNotFound is returned when an order is not found.
var ErrOrderNotFound = errors.New("order not found")

// OrderFilter selects which orders a listing returns.
type OrderFilter string

const (
	// OrderFilterAll returns every order of the group.
	OrderFilterAll OrderFilter = "all"
	// OrderFilterActive returns only orders that are not completed.
	OrderFilterActive OrderFilter = "active"
	// OrderFilterCompleted returns only completed orders.
	OrderFilterCompleted OrderFilter = "completed"
)

// OrderRepository defines the operations for order persistence. Items are
// an embedded array: Update always writes the whole items array back, so a
// concurrent writer that read the same snapshot loses its changes unless
// the calls are serialized through FindByIDForUpdate in a transaction.
type OrderRepository interface {
	// FindByGroupID retrieves the group's orders matching the filter,
	// sorted by creation time descending.
	FindByGroupID(ctx context.Context, groupID uuid.UUID, filter OrderFilter) ([]*entity.Order, error)

	// FindByID retrieves a single order by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)

	// FindByIDForUpdate retrieves an order and locks its row for the
	// duration of the surrounding transaction.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Order, error)

	// Create persists a new order and its embedded items.
	Create(ctx context.Context, order *entity.Order) error

	// Update writes the order back, replacing the whole items array.
	Update(ctx context.Context, order *entity.Order) error

	// Delete removes an order unconditionally.
	Delete(ctx context.Context, id uuid.UUID) error
}
