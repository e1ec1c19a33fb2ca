package services

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	types "github.com/yungbote/bookshelf-backend/internal/domain"
)

// CredentialVerifier checks a login credential against a user. A nil user
// must cost about the same as a real check and always fail.
type CredentialVerifier interface {
	Verify(user *types.User, supplied string) bool
	Hash(credential string) (string, error)
}

type bcryptVerifier struct {
	cost   int
	shared []byte
	dummy  []byte
}

// NewBcryptVerifier hashes sharedSecret once at startup. Users without a
// personal password hash authenticate against it.
func NewBcryptVerifier(sharedSecret string, cost int) (CredentialVerifier, error) {
	if sharedSecret == "" {
		return nil, fmt.Errorf("shared login secret required")
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	shared, err := bcrypt.GenerateFromPassword([]byte(sharedSecret), cost)
	if err != nil {
		return nil, fmt.Errorf("hash shared secret: %w", err)
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("no-such-user"), cost)
	if err != nil {
		return nil, fmt.Errorf("hash dummy secret: %w", err)
	}
	return &bcryptVerifier{cost: cost, shared: shared, dummy: dummy}, nil
}

func (v *bcryptVerifier) Verify(user *types.User, supplied string) bool {
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(v.dummy, []byte(supplied))
		return false
	}
	hash := v.shared
	if user.PasswordHash != "" {
		hash = []byte(user.PasswordHash)
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(supplied)) == nil
}

func (v *bcryptVerifier) Hash(credential string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(credential), v.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
