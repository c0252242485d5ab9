// Package hash provides password hashing backed by bcrypt.
package hash

import (
	"golang.org/x/crypto/bcrypt"

	"auth_backend/internal/feature/auth/usecase"
)

// bcryptHasher hashes and verifies passwords using bcrypt.
// Every hash embeds a freshly generated random salt and the configured cost,
// so no separate salt storage is needed.
type bcryptHasher struct {
	cost int
}

// Compile-time check to ensure bcryptHasher implements PasswordHasher.
var _ usecase.PasswordHasher = (*bcryptHasher)(nil)

// NewBcryptHasher creates a bcrypt hasher with the given cost.
// Costs outside the range bcrypt supports fall back to bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *bcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

// Hash generates a salted bcrypt hash from a plaintext password.
func (h *bcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Compare checks a plaintext password against a stored bcrypt hash.
// It returns an error when the password does not match or the hash is malformed.
func (h *bcryptHasher) Compare(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
