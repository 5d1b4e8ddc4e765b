// Package security provides secure random generation utilities
package security

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/oklog/ulid/v2"
)

const identityIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateULID generates a new ULID string.
func GenerateULID() string {
	return ulid.Make().String()
}

// GenerateIdentityID generates a short opaque identity id of the form
// "u" followed by eight base36 characters. Uniqueness against the local
// roster is the caller's responsibility (retry on collision).
func GenerateIdentityID() (string, error) {
	buf := make([]byte, 8)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(identityIDAlphabet))))
		if err != nil {
			return "", fmt.Errorf("failed to generate identity id: %w", err)
		}
		buf[i] = identityIDAlphabet[n.Int64()]
	}
	return "u" + string(buf), nil
}
