package util

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateSecureToken returns a hex-encoded random token of n bytes,
// used for password reset links.
func GenerateSecureToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
