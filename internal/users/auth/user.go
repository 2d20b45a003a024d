// Copyright (c) 2026 Opsboard. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the user identity and session management layer.

It defines the core domain entities (User, Session) and logic for
authentication, authorization, and the session lifecycle.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no
transport dependencies and encapsulate all business rules related to user
identity. Sessions are opaque, high-entropy tokens stored server-side: the
token carries no claims, so every request re-resolves identity and role
against the store.
*/
package auth

import (
	"time"

	"github.com/taibuivan/opsboard/internal/platform/sec"
)

// # Domain Entities

// User represents a registered operator of the Opsboard dashboard.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`

	// PasswordHash and Salt are the stored credential. They are never
	// logged and never serialized to clients.
	PasswordHash []byte `json:"-"`
	Salt         []byte `json:"-"`

	Role        sec.UserRole `json:"role"`
	IsActive    bool         `json:"is_active"`
	CreatedAt   time.Time    `json:"created_at"`
	LastLoginAt *time.Time   `json:"last_login_at,omitempty"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Session represents an active login session.
//
// The ID is the session token itself: a 256-bit random value that is the
// sole capability needed to act as the owning user. It is transported only
// inside the session cookie and is never included in response bodies.
type Session struct {
	ID        string    `json:"-"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired reports whether the session is no longer valid at the given instant.
//
// The boundary is exact: a session is valid strictly before ExpiresAt and
// invalid at or after it.
func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldUsername   = "username"
	FieldEmail      = "email"
	FieldPassword   = "password"
	FieldIdentifier = "identifier"
	FieldUser       = "user"
	FieldMessage    = "message"
)
