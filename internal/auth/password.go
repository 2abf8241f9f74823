package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/facility-service/internal/config"
)

// PasswordHasher hashes account passwords at the bcrypt cost set in AuthConfig.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher reads the cost from cfg. Zero uses bcrypt.DefaultCost and
// values outside bcrypt's range are clamped.
func NewPasswordHasher(cfg config.AuthConfig) PasswordHasher {
	cost := cfg.BcryptCost
	switch {
	case cost == 0:
		cost = bcrypt.DefaultCost
	case cost < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	}
	return PasswordHasher{cost: cost}
}

// Cost is the bcrypt cost new hashes are generated with.
func (h PasswordHasher) Cost() int {
	return h.cost
}

// Hash returns the bcrypt hash of password.
func (h PasswordHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Compare reports a non-nil error when plain does not match hashed.
func (h PasswordHasher) Compare(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
