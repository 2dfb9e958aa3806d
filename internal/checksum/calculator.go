package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// ShortLength is the number of hex digits Short keeps.
const ShortLength = 12

// Calculator computes content fingerprints.
type Calculator interface {
	// CalculateRaw computes a checksum of the exact bytes.
	CalculateRaw(content []byte) string
}

// SHA256 implements Calculator using SHA-256.
// It is a zero-size type and is safe for concurrent use.
type SHA256 struct{}

// New creates a SHA-256 calculator.
func New() SHA256 {
	return SHA256{}
}

// CalculateRaw returns the hex SHA-256 of content.
func (c SHA256) CalculateRaw(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// Same reports whether a and b have the same fingerprint under c.
func Same(c Calculator, a, b []byte) bool {
	return c.CalculateRaw(a) == c.CalculateRaw(b)
}

// Short abbreviates a checksum for log output.
func Short(sum string) string {
	if len(sum) <= ShortLength {
		return sum
	}
	return sum[:ShortLength]
}
