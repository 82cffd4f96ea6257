// Copyright (c) 2026 Revora. All rights reserved.

package sec

// # User Roles

// UserRole represents the authorization tier granted to an account.
type UserRole string

const (
	// Unrestricted access, including account administration
	RoleAdmin UserRole = "admin"

	// Can edit or remove any review and comment regardless of authorship
	RoleModerator UserRole = "moderator"

	// Default tier for registered accounts
	RoleUser UserRole = "user"
)

// Valid reports whether r is one of the closed set of roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleUser:
		return true
	}
	return false
}

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) level() int {

	// Linear scale (10-30) allows for future intermediate roles
	switch r {
	case RoleAdmin:
		return 30
	case RoleModerator:
		return 20
	case RoleUser:
		return 10
	default:
		return 0
	}
}
