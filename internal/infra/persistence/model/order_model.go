package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// OrderModel mirrors the 'orders' table. Items are stored as a jsonb
// array; every item mutation rewrites the whole column.
type OrderModel struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	GroupID     uuid.UUID      `gorm:"type:uuid;not null;index"`
	Title       string         `gorm:"type:varchar(255)"`
	Comment     string         `gorm:"type:text"`
	Items       datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'"`
	IsCompleted bool           `gorm:"not null;default:false;index"`
	CompletedAt *time.Time
	CreatedAt   time.Time `gorm:"index:idx_orders_group_created,sort:desc"`
	UpdatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (OrderModel) TableName() string {
	return "orders"
}
