package helpers

import (
	"crypto/sha256"
	"encoding/hex"
)

const shortHashLength = 8

// SHA256 returns the hex encoded digest of input.
func SHA256(input []byte) string {
	hash := sha256.Sum256(input)
	return hex.EncodeToString(hash[:])
}

// ShortHash is the digest prefix used to name inline and stdin sources.
func ShortHash(input []byte) string {
	return SHA256(input)[:shortHashLength]
}
