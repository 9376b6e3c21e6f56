package util

import (
	"golang.org/x/crypto/bcrypt"
)

// Cost 12 keeps a single hash around a quarter second on current
// hardware, slow enough for stored listener credentials.
const bcryptCost = 12

// HashPassword derives a bcrypt hash for storage. The salt is embedded
// in the returned string, so no extra column is needed.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether the plain password matches the stored
// hash. Any comparison failure, malformed hash included, reads as a
// mismatch.
func VerifyPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}
