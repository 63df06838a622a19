// Package token generates the opaque bearer tokens stored on the user
// row. Tokens are revoked server-side by clearing that row, which is
// why they are random credentials rather than signed claims.
package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// TTL is how long an issued token stays valid.
const TTL = 30 * 24 * time.Hour

// tokenBytes is the raw entropy per token (256 bits, rendered as 64 hex chars).
const tokenBytes = 32

// New returns a cryptographically random token rendered as hex.
func New() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// ExpiresInMS returns the token lifetime in milliseconds, the unit the
// API reports to clients.
func ExpiresInMS() int64 {
	return TTL.Milliseconds()
}
