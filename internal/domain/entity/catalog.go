package entity

import (
	"time"

	"github.com/google/uuid"
)

// Default display values used when a reference cannot be resolved.
// Orders keep opaque product references, so a product deleted from the
// catalog (or an unknown category/unit id) still renders with these.
const (
	NoNameProduct   = "Без названия"
	FallbackCatName = "Разное"
	DefaultUnitName = "шт."
)

// Product is a catalog entry shared by the whole group.
type Product struct {
	ID         uuid.UUID    // The Global Unique Identifier (GUID) for the product.
	GroupID    uuid.UUID    // The shopping group that owns this catalog entry.
	Name       string       // Product display name, unique (case-insensitive) among active products.
	CategoryID uuid.UUID    // Reference to the product's category, zero when uncategorized.
	UnitID     uuid.UUID    // Reference to the measurement unit, zero means the default unit.
	State      ProductState // Lifecycle state, deleted products stay resolvable in old orders.
	CreatedAt  time.Time    // Timestamp of when this product was added to the catalog.
	UpdatedAt  time.Time    // Timestamp of the last modification.
}

// Category is reference data grouping catalog products.
type Category struct {
	ID   uuid.UUID
	Name string
}

// Unit is reference data describing how a product quantity is measured.
type Unit struct {
	ID   uuid.UUID
	Name string
}

// Settings bundles the reference data a client needs to render the catalog.
type Settings struct {
	Units      []Unit
	Categories []Category
}

// ProductInfo is a product reference resolved for display. When the
// product id cannot be resolved the sentinel name and default unit are used.
type ProductInfo struct {
	ID       uuid.UUID
	Name     string
	Category string
	Unit     string
	Deleted  bool
}
