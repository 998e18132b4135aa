package auth

import (
	"golang.org/x/crypto/bcrypt"

	"farmradar/internal/domain/service"
)

type bcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a bcrypt-backed PasswordHasher. Costs outside
// bcrypt's supported range fall back to the library default.
func NewBcryptHasher(cost int) service.PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	return &bcryptHasher{cost: cost}
}

// Hash derives a salted bcrypt hash from the password.
func (h *bcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)

	return string(bytes), err
}

// Check reports whether the password matches the bcrypt hash.
func (h *bcryptHasher) Check(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
