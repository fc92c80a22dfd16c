package model

import (
	"time"

	"github.com/google/uuid"
)

// InvitationModel mirrors the 'invitations' table. The invitee email is
// unique, so re-inviting the same person replaces the pending row.
type InvitationModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	InviteeEmail string    `gorm:"type:varchar(255);unique;not null"`
	InviterEmail string    `gorm:"type:varchar(255);not null"`
	InviterName  string    `gorm:"type:varchar(100)"`
	GroupID      uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (InvitationModel) TableName() string {
	return "invitations"
}
