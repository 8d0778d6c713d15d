// Package identity provides the deterministic key hashing used for owner-scoped
// uniqueness checks, and caller identity propagation through context.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// TokenLength is the length of every token produced by Hash and HashScoped.
const TokenLength = 24

// globalScope is the scope used when hashing keys that belong to the shared tenant.
const globalScope = "global"

// Normalize trims surrounding whitespace and lowercases the key. Hash applies it
// internally so every call site agrees on the same canonical form.
func Normalize(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// Hash computes a compact token from the normalized key. Tokens are deterministic
// and always TokenLength characters, regardless of input length.
func Hash(key string) string {
	sum := sha256.Sum256([]byte(Normalize(key)))
	return hex.EncodeToString(sum[:])[:TokenLength]
}

// HashScoped computes a token from the normalized key bound to an owner scope.
// A nil ownerID means the shared global tenant. Scoping the digest input keeps
// equal keys from colliding across owners.
func HashScoped(key string, ownerID *string) string {
	scope := globalScope
	if ownerID != nil {
		scope = *ownerID
	}
	sum := sha256.Sum256([]byte(scope + "\x00" + Normalize(key)))
	return hex.EncodeToString(sum[:])[:TokenLength]
}
