package model

import (
	"time"

	"github.com/google/uuid"
)

// ProductModel mirrors the 'products' table. Deleted products keep their
// row so existing orders can still resolve name, category and unit.
type ProductModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	GroupID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Name       string    `gorm:"type:varchar(255);not null"`
	CategoryID uuid.UUID `gorm:"type:uuid"`
	UnitID     uuid.UUID `gorm:"type:uuid"`
	State      string    `gorm:"type:varchar(20);not null;default:'active'"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName explicitly sets the table name for GORM.
func (ProductModel) TableName() string {
	return "products"
}

// CategoryModel mirrors the 'categories' reference table.
type CategoryModel struct {
	ID   uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Name string    `gorm:"type:varchar(100);not null"`
}

// TableName explicitly sets the table name for GORM.
func (CategoryModel) TableName() string {
	return "categories"
}

// UnitModel mirrors the 'units' reference table.
type UnitModel struct {
	ID   uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Name string    `gorm:"type:varchar(50);not null"`
}

// TableName explicitly sets the table name for GORM.
func (UnitModel) TableName() string {
	return "units"
}
