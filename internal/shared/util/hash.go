package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashCredential returns a stable, log-safe identifier for secret material.
func HashCredential(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
