// internal/domain/identity/provider_port.go
package identity

import "context"

// Provider is the hosted identity provider capability.
// Each mutating call may fail; failures map onto ErrEmailAlreadyInUse /
// ErrInvalidCredential / ErrProvider so callers can pick a user-facing
// message without knowing the backend.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*Identity, error)
	SignUp(ctx context.Context, email, password string) (*Identity, error)

	// SignInWithGoogle exchanges a Google ID token obtained by the frontend
	// for a provider identity.
	SignInWithGoogle(ctx context.Context, googleIDToken string) (*Identity, error)

	// ResetPassword triggers password-reset delivery for email.
	ResetPassword(ctx context.Context, email string) error

	// SignOut revokes the user's refresh tokens.
	SignOut(ctx context.Context, uid string) error
}
