// Copyright (c) 2026 Opsboard. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LinkClaims is the payload embedded inside a signed download token.
//
// # Why JWT here but not for sessions?
//
// Session tokens are opaque and resolved against the store on every request
// so that role changes and logouts take effect immediately. Download links
// are different: they are single-purpose, short-lived, and reference an
// immutable artifact, so a self-contained signed token is the right fit.
type LinkClaims struct {
	jwt.RegisteredClaims

	// ArtifactID identifies the cached export artifact.
	ArtifactID string `json:"art"`

	// UserID records which account requested the export (audit trail).
	UserID string `json:"uid"`
}

// LinkSigner issues and verifies HS256-signed download tokens.
type LinkSigner struct {
	secret []byte
	issuer string
}

// NewLinkSigner creates a LinkSigner from a shared HMAC secret.
func NewLinkSigner(secret, issuer string) (*LinkSigner, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("sec: link signer secret must be at least 32 bytes")
	}
	return &LinkSigner{secret: []byte(secret), issuer: issuer}, nil
}

// Sign creates a signed token granting time-limited access to one artifact.
func (signer *LinkSigner) Sign(artifactID, userID string, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims := LinkClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   artifactID,
			Issuer:    signer.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		ArtifactID: artifactID,
		UserID:     userID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(signer.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign download token: %w", err)
	}

	return signedToken, nil
}

// Verify checks the signature and expiry of a download token string.
func (signer *LinkSigner) Verify(tokenString string) (*LinkClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &LinkClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return signer.secret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("sec: invalid download token: %w", err)
	}

	claims, ok := token.Claims.(*LinkClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("sec: invalid download token claims")
	}

	return claims, nil
}
