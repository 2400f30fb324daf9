package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashPassword_KnownDigest(t *testing.T) {
	// base64(sha256("password")), matching hashes already in the store.
	assert.Equal(t, "XohImNooBHFR0OVvjcYpJ3NgPQ1qq73WKhHvch0VQtg=", HashPassword("password"))
}

func TestVerifyPassword(t *testing.T) {
	hash := HashPassword("s3cret-value")

	assert.True(t, VerifyPassword(hash, "s3cret-value"))
	assert.False(t, VerifyPassword(hash, "s3cret-valuE"))
	assert.False(t, VerifyPassword(hash, ""))
	assert.False(t, VerifyPassword("", "s3cret-value"))
}

func TestHashPassword_Deterministic(t *testing.T) {
	assert.Equal(t, HashPassword("same input"), HashPassword("same input"))
	assert.NotEqual(t, HashPassword("one"), HashPassword("two"))
}
