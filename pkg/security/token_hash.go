package security

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashToken returns the hex sha256 of a bearer token. Session rows store this
// instead of the token itself.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
