// Package digest provides the hashing and keyed-MAC primitives used to seal evidence.
// Digests are rendered as lowercase hex strings of fixed length.
package digest

import (
	"crypto/hmac"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
)

// Size is the length in characters of a hex-encoded digest.
const Size = sha512.Size * 2

// Sum returns the hex-encoded SHA-512 digest of data.
func Sum(data []byte) string {
	sum := sha512.Sum512(data)
	return hex.EncodeToString(sum[:])
}

// SumString returns the hex-encoded SHA-512 digest of s.
func SumString(s string) string {
	return Sum([]byte(s))
}

// MAC returns the hex-encoded HMAC-SHA-512 of data under key.
func MAC(key, data []byte) string {
	m := hmac.New(sha512.New, key)
	m.Write(data)
	return hex.EncodeToString(m.Sum(nil))
}

// Equal reports whether two digests are identical using a constant-time comparison.
func Equal(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// Valid reports whether d has the shape of a digest produced by Sum or MAC.
func Valid(d string) bool {
	if len(d) != Size {
		return false
	}
	for i := 0; i < len(d); i++ {
		c := d[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// Verify reports whether data hashes to expected.
// A malformed expected digest never matches.
func Verify(data []byte, expected string) bool {
	if !Valid(expected) {
		return false
	}
	return Equal(Sum(data), expected)
}
