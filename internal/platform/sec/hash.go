// Copyright (c) 2026 Opsboard. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives for the platform.
//
// # Architecture
//
// This package isolates security-sensitive code (credential hashing, session
// token generation, signed download links) from the domain logic. Everything
// here is stateless and safe for concurrent, unsynchronized use.
package sec

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// # Credential Hashing Parameters

const (
	// SaltLength is the byte length of a freshly generated salt.
	SaltLength = 16

	// HashIterations is the PBKDF2 iteration count.
	// OWASP recommends 210k for PBKDF2-HMAC-SHA-512 as of 2023.
	HashIterations = 210_000

	// HashKeyLength is the fixed byte length of the derived key.
	HashKeyLength = 64
)

// GenerateSalt returns cryptographically secure random bytes for use as a
// per-credential salt. Every call yields an independent value.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("sec: failed to generate salt: %w", err)
	}
	return salt, nil
}

/*
HashPassword derives a fixed-length credential hash from a plain-text password
and a salt using PBKDF2-HMAC-SHA-512.

Description: Deterministic for a given (password, salt) pair. Different salts
for the same password yield unrelated hashes, which defeats rainbow-table
reuse across accounts.

Parameters:
  - plainTextPassword: string
  - salt: []byte

Returns:
  - []byte: Derived key of [HashKeyLength] bytes
  - error: Only on malformed input (empty password or salt)
*/
func HashPassword(plainTextPassword string, salt []byte) ([]byte, error) {
	if plainTextPassword == "" {
		return nil, fmt.Errorf("sec: refusing to hash an empty password")
	}
	if len(salt) == 0 {
		return nil, fmt.Errorf("sec: refusing to hash with an empty salt")
	}

	return pbkdf2.Key([]byte(plainTextPassword), salt, HashIterations, HashKeyLength, sha512.New), nil
}

/*
VerifyPassword recomputes the hash for a password candidate and compares it
to the stored hash in constant time.

Description: The comparison never short-circuits on the first mismatching
byte, so response timing does not reveal how close a guess was.

Parameters:
  - plainTextPassword: string
  - salt: []byte
  - expectedHash: []byte

Returns:
  - bool: true only on an exact match
*/
func VerifyPassword(plainTextPassword string, salt, expectedHash []byte) bool {
	candidate, err := HashPassword(plainTextPassword, salt)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(candidate, expectedHash) == 1
}
