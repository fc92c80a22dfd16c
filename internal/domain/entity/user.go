// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core entity in the system, representing a unique "person" or "account".
// Every user belongs to exactly one shopping group; a fresh group is created at signup
// and replaced when the user accepts an invitation.
type User struct {
	ID            uuid.UUID // The Global Unique Identifier (GUID) for the user.
	Email         string    // The user's primary contact email, used as the login identifier.
	DisplayName   string    // The user's display name, shown to other group members.
	GroupID       uuid.UUID // The shopping group this user currently belongs to.
	EmailVerified bool      // Whether the user has confirmed ownership of the email address.
	FCMToken      string    // The device push token, empty when the user has no registered device.
	CreatedAt     time.Time // Timestamp of when this user account was created.
	UpdatedAt     time.Time // Timestamp of the last modification to this user's data.
}
