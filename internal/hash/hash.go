// Package hash provides SHA-256 digest helpers.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hex returns the full hex-encoded SHA-256 digest of data.
func Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Fingerprint returns the first n hex characters of the SHA-256 digest of s.
// It is used to derive short, stable suffixes for object names.
func Fingerprint(s string, n int) string {
	digest := Hex([]byte(s))
	if n <= 0 || n > len(digest) {
		return digest
	}
	return digest[:n]
}
