// Copyright (c) 2026 Opsboard. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/opsboard/internal/platform/sec"
)

/*
TestGenerateSalt verifies salt length and uniqueness across calls.
*/
func TestGenerateSalt(t *testing.T) {
	first, err := sec.GenerateSalt()
	require.NoError(t, err)
	assert.Len(t, first, sec.SaltLength)

	second, err := sec.GenerateSalt()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

/*
TestHashPassword_Deterministic verifies the derivation is stable for the
same password and salt, and produces the configured key length.
*/
func TestHashPassword_Deterministic(t *testing.T) {
	salt, err := sec.GenerateSalt()
	require.NoError(t, err)

	first, err := sec.HashPassword("correct horse battery staple", salt)
	require.NoError(t, err)
	assert.Len(t, first, sec.HashKeyLength)

	second, err := sec.HashPassword("correct horse battery staple", salt)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

/*
TestHashPassword_DistinctSalts verifies that the same password under two
different salts yields two different hashes.
*/
func TestHashPassword_DistinctSalts(t *testing.T) {
	saltA, err := sec.GenerateSalt()
	require.NoError(t, err)
	saltB, err := sec.GenerateSalt()
	require.NoError(t, err)

	hashA, err := sec.HashPassword("same-password", saltA)
	require.NoError(t, err)
	hashB, err := sec.HashPassword("same-password", saltB)
	require.NoError(t, err)

	assert.NotEqual(t, hashA, hashB)
}

/*
TestHashPassword_EmptyInputs verifies empty password or salt is rejected.
*/
func TestHashPassword_EmptyInputs(t *testing.T) {
	salt, err := sec.GenerateSalt()
	require.NoError(t, err)

	_, err = sec.HashPassword("", salt)
	assert.Error(t, err)

	_, err = sec.HashPassword("password", nil)
	assert.Error(t, err)
}

/*
TestVerifyPassword covers the round-trip and the rejection paths.
*/
func TestVerifyPassword(t *testing.T) {
	salt, err := sec.GenerateSalt()
	require.NoError(t, err)

	hash, err := sec.HashPassword("hunter2hunter2", salt)
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		salt     []byte
		expected []byte
		isValid  bool
	}{
		{"correct_password", "hunter2hunter2", salt, hash, true},
		{"wrong_password", "hunter3hunter3", salt, hash, false},
		{"wrong_salt", "hunter2hunter2", make([]byte, sec.SaltLength), hash, false},
		{"empty_password", "", salt, hash, false},
		{"empty_hash", "hunter2hunter2", salt, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isValid, sec.VerifyPassword(tt.password, tt.salt, tt.expected))
		})
	}
}
