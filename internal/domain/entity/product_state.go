// Package entity contains the core business objects of the project.
package entity

// ProductState represents the lifecycle state of a catalog product.
type ProductState string

const (
	// ProductStateActive indicates the product can be added to new orders.
	ProductStateActive ProductState = "active"
	// ProductStateDeleted indicates the product was removed from the catalog
	// but is kept so existing orders keep resolving its name and unit.
	ProductStateDeleted ProductState = "deleted"
)

// String returns the string representation of the ProductState.
func (s ProductState) String() string {
	return string(s)
}

// IsValid checks if the ProductState is a valid value.
func (s ProductState) IsValid() bool {
	switch s {
	case ProductStateActive, ProductStateDeleted:
		return true
	default:
		return false
	}
}
