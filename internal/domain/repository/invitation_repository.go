// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"vkladovke/internal/domain/entity"

	"github.com/pkg/errors"
)

// ErrInvitationNotFound is returned when no pending invitation exists.
var ErrInvitationNotFound = errors.New("invitation not found")

// InvitationRepository defines the operations for invitation persistence.
// The invitee email is unique: saving over an existing invitation replaces it.
type InvitationRepository interface {
	// Upsert creates the invitation or replaces the pending one for the same invitee.
	Upsert(ctx context.Context, invitation *entity.Invitation) error

	// FindByInviteeEmail retrieves the pending invitation addressed to an email.
	FindByInviteeEmail(ctx context.Context, email string) (*entity.Invitation, error)

	// DeleteByInviteeEmail removes the pending invitation addressed to an email.
	// Deleting a non-existent invitation is not an error.
	DeleteByInviteeEmail(ctx context.Context, email string) error
}
