package usecase

import (
	"context"

	"vkladovke/internal/domain/entity"

	"github.com/google/uuid"
)

// InvitationUsecase defines the interface for group invitation operations.
// An invitation is keyed by the invitee email; inviting the same person
// again overwrites the previous offer.
type InvitationUsecase interface {
	// Invite offers the actor's group to an existing user.
	Invite(ctx context.Context, actorID uuid.UUID, inviteeEmail string) error

	// GetPendingInvitation returns the invitation addressed to the actor, if any.
	GetPendingInvitation(ctx context.Context, actorID uuid.UUID) (*entity.Invitation, error)

	// ApplyInvitation moves the actor into the inviter's group and removes
	// both the actor's and the inviter's pending invitations.
	ApplyInvitation(ctx context.Context, actorID uuid.UUID) (*entity.User, error)

	// DeclineInvitation removes the invitation addressed to the actor.
	DeclineInvitation(ctx context.Context, actorID uuid.UUID) error

	// InvitationQR renders the actor's pending invitation as a QR code PNG.
	InvitationQR(ctx context.Context, actorID uuid.UUID) ([]byte, error)
}
