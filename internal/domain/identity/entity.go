// internal/domain/identity/entity.go
package identity

import (
	"errors"
	"strings"
)

var (
	// ErrEmailAlreadyInUse is the "already registered" sign-up failure.
	// Callers surface it distinctly from other provider failures.
	ErrEmailAlreadyInUse = errors.New("identity: email already in use")

	// ErrInvalidCredential covers wrong password / unknown email on sign-in.
	ErrInvalidCredential = errors.New("identity: invalid credential")

	// ErrProvider is any other identity provider failure.
	ErrProvider = errors.New("identity: provider error")
)

// Identity is the authenticated principal for a session.
// Absent (nil) means guest.
type Identity struct {
	UID   string `json:"uid"`
	Email string `json:"email,omitempty"`

	// Tokens issued by the provider at sign-in/sign-up. The storefront
	// returns them to the frontend and otherwise does not hold them.
	IDToken      string `json:"idToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// Valid reports whether the identity carries a usable uid.
func (i *Identity) Valid() bool {
	return i != nil && strings.TrimSpace(i.UID) != ""
}
