// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Role represents the type of role a user can have in the system.
type Role string

const (
	// RoleUser indicates a regular storefront customer.
	RoleUser Role = "user"
	// RoleAdmin indicates a product-manager/admin role.
	RoleAdmin Role = "admin"
	// RoleSalesAdmin indicates a sales-admin role (pricing, discounts, refunds).
	RoleSalesAdmin Role = "salesAdmin"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSalesAdmin:
		return true
	default:
		return false
	}
}

// RoleGrant marks a user as holding an elevated role. The existence of the
// record is itself the authorization fact; grants are provisioned out of band.
type RoleGrant struct {
	UserID    uuid.UUID // The user holding the grant.
	Role      Role      // The granted role (admin or salesAdmin).
	CreatedAt time.Time // Timestamp of when the grant was provisioned.
}
