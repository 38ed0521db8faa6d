package security

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/aegisid/identity-service/internal/core/domain"
)

// BcryptHasher implements domain.PasswordHasher on top of x/crypto/bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher builds a hasher with the given cost. Costs outside bcrypt's
// valid range fall back to the library default.
func NewBcryptHasher(cost int) BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return BcryptHasher{cost: cost}
}

func (h BcryptHasher) Hash(plain domain.PlainPassword) (domain.PasswordHash, error) {
	raw, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt hash: %w", err)
	}
	return domain.NewPasswordHash(string(raw))
}

func (h BcryptHasher) Match(plain domain.PlainPassword, hash domain.PasswordHash) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
