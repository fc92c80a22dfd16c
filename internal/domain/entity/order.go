package entity

import (
	"time"

	"github.com/google/uuid"
)

// Order is a shopping list owned by a group. Items are embedded: every
// item mutation reads the whole order, transforms the items in memory
// and writes the whole array back.
type Order struct {
	ID          uuid.UUID   // The Global Unique Identifier (GUID) for the order.
	GroupID     uuid.UUID   // The shopping group that owns this order.
	Title       string      // Order title, defaulted from the creation date when left empty.
	Comment     string      // Free-form note for the whole order.
	Items       []OrderItem // The embedded shopping list rows.
	IsCompleted bool        // Whether the order as a whole is done.
	CompletedAt *time.Time  // When the order was (last) completed, nil while open.
	CreatedAt   time.Time   // Server-stamped creation time, orders list sorts by this descending.
	UpdatedAt   time.Time   // Timestamp of the last modification.
}

// OrderItem is a single row of a shopping list. It references the
// catalog product by id only; name, category and unit resolve at read time.
type OrderItem struct {
	ProductID       uuid.UUID `json:"productId"`       // Opaque reference into the catalog.
	Quantity        float64   `json:"quantity"`        // Amount to buy, rows with quantity <= 0 are dropped on save.
	BuyOnlyByAction bool      `json:"buyOnlyByAction"` // Buy only when discounted.
	IsCompleted     bool      `json:"isCompleted"`     // Whether this row was already bought.
	Comment         string    `json:"comment"`         // Free-form note for this row.
}

// PendingCount returns the number of items not yet completed.
func (o *Order) PendingCount() int {
	count := 0
	for _, item := range o.Items {
		if !item.IsCompleted {
			count++
		}
	}

	return count
}

// FindItem returns the index of the item referencing productID, or -1.
func (o *Order) FindItem(productID uuid.UUID) int {
	for i, item := range o.Items {
		if item.ProductID == productID {
			return i
		}
	}

	return -1
}
