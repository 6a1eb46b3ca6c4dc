package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword will generate a password hash
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost())
	return string(h), err
}

// ComparePasswordAndHash will validate the given cleartext
// password matches the hashed password
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedHashAndPassword
		}
		// Malformed hashes are indistinguishable from bad credentials
		// to the outside world.
		return ErrMismatchedHashAndPassword
	}
	return nil
}

// BcryptPasswords is the default PasswordAuthenticator
type BcryptPasswords struct{}

func (BcryptPasswords) HashPassword(password string) (string, error) {
	return HashPassword(password)
}

func (BcryptPasswords) ComparePasswordAndHash(password, hash string) error {
	return ComparePasswordAndHash(password, hash)
}

var _ PasswordAuthenticator = BcryptPasswords{}
