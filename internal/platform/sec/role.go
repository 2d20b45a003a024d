// Copyright (c) 2026 Opsboard. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
//
// The set is closed: any value outside the constants below is treated as an
// unknown role and never satisfies a role requirement (fail-closed).
type UserRole string

const (
	// Unrestricted system access: user management, exports, task scheduling
	RoleAdmin UserRole = "admin"

	// Default role for standard registered users
	RoleUser UserRole = "user"
)

// IsValid reports whether the role is a member of the closed role set.
func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleUser:
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

	// Linear scale (10-40) allows for future intermediate roles
	switch r {
	case RoleAdmin:
		return 40
	case RoleUser:
		return 10
	default:
		return 0
	}
}

// # Identity

// Identity is the per-request authenticated principal.
//
// It is resolved from the session store on EVERY request — never cached in a
// token — so role changes take effect immediately without re-login.
type Identity struct {
	UserID   string
	Username string
	Role     UserRole
}
