package token

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_LengthAndEncoding(t *testing.T) {
	tok, err := New()
	assert.NoError(t, err)
	assert.Len(t, tok, 64, "token should be 32 bytes rendered as hex")

	_, err = hex.DecodeString(tok)
	assert.NoError(t, err, "token should be valid hex")
}

func TestNew_Unique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		tok, err := New()
		assert.NoError(t, err)
		_, dup := seen[tok]
		assert.False(t, dup, "tokens must not repeat")
		seen[tok] = struct{}{}
	}
}

func TestExpiresInMS(t *testing.T) {
	assert.Equal(t, int64(30*24*60*60*1000), ExpiresInMS())
}
