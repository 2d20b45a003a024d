// Copyright (c) 2026 Opsboard. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// SessionTokenLength is the byte length of the random session token.
// 32 bytes = 256 bits of entropy, which makes enumeration infeasible.
const SessionTokenLength = 32

// GenerateSessionToken returns a new high-entropy opaque token.
//
// The token is the sole capability needed to act as its owning user, so it is
// drawn from crypto/rand and encoded as unpadded base64url (cookie-safe).
func GenerateSessionToken() (string, error) {
	raw := make([]byte, SessionTokenLength)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("sec: failed to generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
