package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var ErrBadCredentials = errors.New("invalid username or password")

// Verifier checks the configured admin credential pair. Only the bcrypt hash
// is held in memory.
type Verifier struct {
	username     string
	passwordHash []byte
}

// NewVerifier takes the admin username and either a precomputed bcrypt hash
// or, when hash is empty, a plaintext password hashed on the spot.
func NewVerifier(username, hash, password string) (*Verifier, error) {
	if hash == "" {
		if password == "" {
			return nil, errors.New("auth: no admin password configured")
		}
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("auth: hash password: %w", err)
		}
		hash = string(h)
	}
	return &Verifier{username: username, passwordHash: []byte(hash)}, nil
}

// Verify checks a login attempt. The username comparison is constant time so
// it leaks nothing about which half failed.
func (v *Verifier) Verify(username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(v.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(v.passwordHash, []byte(password))
	if !userOK || passErr != nil {
		return ErrBadCredentials
	}
	return nil
}
