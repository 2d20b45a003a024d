// Copyright (c) 2026 Opsboard. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/opsboard/internal/platform/sec"
)

const testSignerSecret = "0123456789abcdef0123456789abcdef"

/*
TestLinkSigner_RoundTrip verifies sign-then-verify preserves the claims.
*/
func TestLinkSigner_RoundTrip(t *testing.T) {
	signer, err := sec.NewLinkSigner(testSignerSecret, "opsboard.app")
	require.NoError(t, err)

	token, err := signer.Sign("artifact-1", "user-1", time.Minute)
	require.NoError(t, err)

	claims, err := signer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "artifact-1", claims.ArtifactID)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "opsboard.app", claims.Issuer)
}

/*
TestLinkSigner_Expired verifies an expired token fails verification.
*/
func TestLinkSigner_Expired(t *testing.T) {
	signer, err := sec.NewLinkSigner(testSignerSecret, "opsboard.app")
	require.NoError(t, err)

	token, err := signer.Sign("artifact-1", "user-1", -time.Minute)
	require.NoError(t, err)

	_, err = signer.Verify(token)
	assert.Error(t, err)
}

/*
TestLinkSigner_WrongSecret verifies tokens from another signer are rejected.
*/
func TestLinkSigner_WrongSecret(t *testing.T) {
	signer, err := sec.NewLinkSigner(testSignerSecret, "opsboard.app")
	require.NoError(t, err)

	other, err := sec.NewLinkSigner("ffffffffffffffffffffffffffffffff", "opsboard.app")
	require.NoError(t, err)

	token, err := other.Sign("artifact-1", "user-1", time.Minute)
	require.NoError(t, err)

	_, err = signer.Verify(token)
	assert.Error(t, err)
}

/*
TestNewLinkSigner_ShortSecret verifies weak secrets are rejected at
construction time.
*/
func TestNewLinkSigner_ShortSecret(t *testing.T) {
	_, err := sec.NewLinkSigner("too-short", "opsboard.app")
	assert.Error(t, err)
}
