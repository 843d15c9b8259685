package auth

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

var (
	dummyOnce sync.Once
	dummyHash []byte
)

// HashPassword returns a salted bcrypt hash.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword reports whether password matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// RejectPassword runs a full bcrypt comparison against a throwaway hash and
// always reports false. Login calls it for unknown emails so both failure
// paths cost one hash comparison.
func RejectPassword(password string) bool {
	dummyOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("cleansweep-unknown-account"), bcryptCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
	return false
}
