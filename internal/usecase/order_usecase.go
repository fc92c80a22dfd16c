package usecase

import (
	"context"

	"vkladovke/internal/domain/entity"
	"vkladovke/internal/domain/repository"

	"github.com/google/uuid"
)

// OrderItemInput is one shopping list row as submitted by the client.
type OrderItemInput struct {
	ProductID       uuid.UUID
	Quantity        float64
	BuyOnlyByAction bool
	IsCompleted     bool
	Comment         string
}

// CreateOrderInput defines the data required to create an order.
// Rows with quantity <= 0 are dropped and every row starts uncompleted,
// whatever the client sent.
type CreateOrderInput struct {
	ActorID uuid.UUID
	Title   string
	Comment string
	Items   []OrderItemInput
}

// UpdateOrderInput replaces the order's title, comment and items.
type UpdateOrderInput struct {
	ActorID uuid.UUID
	OrderID uuid.UUID
	Title   string
	Comment string
	Items   []OrderItemInput
}

// CompleteOrderInput defines the data required to complete an order.
// ConfirmPending acknowledges completion while uncompleted items remain.
type CompleteOrderInput struct {
	ActorID        uuid.UUID
	OrderID        uuid.UUID
	ConfirmPending bool
}

// UpdateItemInput modifies a single row of an open order.
type UpdateItemInput struct {
	ActorID         uuid.UUID
	OrderID         uuid.UUID
	ProductID       uuid.UUID
	Quantity        float64
	BuyOnlyByAction bool
	Comment         string
}

// AddItemInput appends a new row to an open order.
type AddItemInput struct {
	ActorID uuid.UUID
	OrderID uuid.UUID
	Item    OrderItemInput
}

// OrderUsecase defines the interface for shopping list operations.
// Every operation checks that the actor belongs to the order's group.
type OrderUsecase interface {
	// ListOrders returns the actor's group orders, newest first.
	ListOrders(ctx context.Context, actorID uuid.UUID, filter repository.OrderFilter) ([]*entity.Order, error)

	// GetOrder returns a single order of the actor's group.
	GetOrder(ctx context.Context, actorID, orderID uuid.UUID) (*entity.Order, error)

	// CreateOrder creates an order with a server-stamped creation time and
	// a date-based default title when the title is blank.
	CreateOrder(ctx context.Context, input *CreateOrderInput) (*entity.Order, error)

	// UpdateOrder replaces the order's title, comment and items.
	UpdateOrder(ctx context.Context, input *UpdateOrderInput) (*entity.Order, error)

	// CompleteOrder marks the order done, stamping the completion time.
	// Completing an already completed order re-stamps it.
	CompleteOrder(ctx context.Context, input *CompleteOrderInput) (*entity.Order, error)

	// ReopenOrder clears the completion mark and timestamp.
	ReopenOrder(ctx context.Context, actorID, orderID uuid.UUID) (*entity.Order, error)

	// DeleteOrder removes an order unconditionally.
	DeleteOrder(ctx context.Context, actorID, orderID uuid.UUID) error

	// CompleteItem marks one row bought.
	CompleteItem(ctx context.Context, actorID, orderID, productID uuid.UUID) (*entity.Order, error)

	// ReopenItem marks one row not bought.
	ReopenItem(ctx context.Context, actorID, orderID, productID uuid.UUID) (*entity.Order, error)

	// UpdateItem modifies one row's quantity, action flag and comment.
	UpdateItem(ctx context.Context, input *UpdateItemInput) (*entity.Order, error)

	// AddItem appends a row. The product must be selected, the quantity
	// at least one, and no row for the same product may already exist.
	AddItem(ctx context.Context, input *AddItemInput) (*entity.Order, error)

	// RemoveItem deletes one row.
	RemoveItem(ctx context.Context, actorID, orderID, productID uuid.UUID) (*entity.Order, error)
}
