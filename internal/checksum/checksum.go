// Package checksum hashes API tokens before they reach the store.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Token returns the stored form of a bearer token. Surrounding
// whitespace is not part of the token.
func Token(token string) string {
	return Sum([]byte(strings.TrimSpace(token)))
}
