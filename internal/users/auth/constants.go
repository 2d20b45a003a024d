// Copyright (c) 2026 Opsboard. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "time"

// # Authentication Constraints

const (
	// DefaultSessionTTL is the session lifetime used when no override is
	// configured. Seven days balances operator convenience against the
	// exposure window of a leaked cookie.
	DefaultSessionTTL = 7 * 24 * time.Hour

	// MaxLoginAttempts is the number of failed logins allowed per identifier
	// before the throttle window rejects further attempts.
	MaxLoginAttempts = 10

	// LoginThrottleTTL is the sliding window for failed-login counting.
	LoginThrottleTTL = 15 * time.Minute
)

// # Client-Safe Messages

const (
	// duplicateCredentialMessage deliberately does not reveal whether the
	// username or the email collided.
	duplicateCredentialMessage = "Username or email is already registered"

	// invalidCredentialMessage is identical for unknown identifiers and
	// wrong passwords, so login cannot be used as an account-enumeration
	// oracle.
	invalidCredentialMessage = "Invalid login credentials"
)
