// Package crypto provides cryptographic utilities.
package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
)

// DefaultTokenBytes is the entropy of a generated token in bytes.
// 16 bytes gives 128 bits, enough for collision probability to be
// negligible at any realistic account count.
const DefaultTokenBytes = 16

// GenerateRandomBytes generates n cryptographically secure random bytes.
func GenerateRandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// GenerateRandomString generates a random string of the specified byte length.
// The returned string is URL-safe base64 encoded.
func GenerateRandomString(byteLength int) (string, error) {
	b, err := GenerateRandomBytes(byteLength)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// GenerateRandomHex generates a random hex string of the specified byte length.
// The returned string will be 2*byteLength characters.
func GenerateRandomHex(byteLength int) (string, error) {
	b, err := GenerateRandomBytes(byteLength)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GenerateToken generates an opaque credential token with byteLength
// bytes of entropy, encoded as hex. Non-positive lengths fall back to
// DefaultTokenBytes.
func GenerateToken(byteLength int) (string, error) {
	if byteLength <= 0 {
		byteLength = DefaultTokenBytes
	}
	return GenerateRandomHex(byteLength)
}
