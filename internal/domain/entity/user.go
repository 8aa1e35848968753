// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core identity in the system, representing one customer account.
// Elevated roles are expressed through RoleGrant records, not fields here.
type User struct {
	ID           uuid.UUID // The Global Unique Identifier (GUID) for the user.
	Email        string    // The user's contact email, also the login identifier.
	Name         string    // The user's display name.
	PasswordHash string    // Stores the bcrypt-hashed login password.
	// ResetToken stores a server-side copy of the most recent password-reset
	// token. Reset tokens are single-use: the stored copy is compared on
	// confirmation and cleared afterwards, independent of token expiry.
	ResetToken string
	CreatedAt  time.Time // Timestamp of when this account was created.
	UpdatedAt  time.Time // Timestamp of the last modification to this user's data.
}
