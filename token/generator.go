package token

import (
	"crypto/rand"
	"encoding/base64"
)

// tokenBytes is 256 bits of entropy plus one byte so the base64 encoding
// comes out padding-free.
const tokenBytes = 256/8 + 1

// Generate returns a fresh opaque token id: 264 bits of cryptographically
// secure randomness in URL-safe base64. Safe to place in headers and query
// strings without escaping.
func Generate() string {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms.
		panic("token: reading random source: " + err.Error())
	}
	return base64.URLEncoding.EncodeToString(buf)
}
