// Package password implements hashing and verification of user passwords.
//
// Hash produces a bcrypt hash for storage; Compare checks a submitted
// password against the stored hash.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hash takes a raw password and returns its bcrypt hash for storage.
func Hash(raw string) (string, error) {
	const op = "password.Hash"
	hashed, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// Compare checks a submitted password against a stored bcrypt hash.
//
// Returns nil when they match, an error otherwise.
func Compare(storedHash, submitted string) error {
	const op = "password.Compare"
	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(submitted)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
