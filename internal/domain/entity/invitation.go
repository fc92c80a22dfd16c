package entity

import (
	"time"

	"github.com/google/uuid"
)

// Invitation is a pending offer to join the inviter's shopping group.
// At most one invitation exists per invitee email; inviting the same
// person again overwrites the previous offer.
type Invitation struct {
	ID           uuid.UUID // The unique ID for this invitation record.
	InviteeEmail string    // Email of the invited user. Unique: the latest invitation wins.
	InviterEmail string    // Email of the user who sent the invitation.
	InviterName  string    // Display name of the inviter, shown on the invitation screen.
	GroupID      uuid.UUID // The inviter's group the invitee would join.
	CreatedAt    time.Time // Timestamp of when the invitation was (last) sent.
}
