package auth

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor for new password hashes. Tests lower it to
// bcrypt.MinCost to keep suites fast.
var BcryptCost = 12

// HashPassword will generate a password hash
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	return string(h), err
}

// ComparePasswordAndHash will validate the given cleartext
// password matches the hashed password
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidCredentials
		}
		return err
	}
	return nil
}

var (
	guardHashOnce sync.Once
	guardHash     string
)

// EnumerationGuardHash returns a throwaway hash used to run a comparison
// when no account matches the identifier, so the unknown-user path costs
// roughly the same as a real mismatch.
func EnumerationGuardHash() string {
	guardHashOnce.Do(func() {
		h, err := HashPassword(uuid.NewString())
		if err != nil {
			// HashPassword only fails on empty input; a fresh UUID never is.
			panic(err)
		}
		guardHash = h
	})
	return guardHash
}
