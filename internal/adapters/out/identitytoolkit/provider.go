// internal/adapters/out/identitytoolkit/provider.go
package identitytoolkit

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"

	mailout "github.com/alpesh377/e-commerce-store/internal/adapters/out/mail"
	identitydom "github.com/alpesh377/e-commerce-store/internal/domain/identity"
)

// Provider implements identity.Provider.
//
// Split of responsibilities:
//   - password / Google sign-in and sign-up: Identity Toolkit REST (Client)
//   - refresh-token revocation and reset-link generation: Admin SDK
//   - reset-link delivery: SendGrid
type Provider struct {
	Toolkit *Client
	Admin   *fbauth.Client

	Mailer   mailout.Client
	MailFrom string
}

func NewProvider(toolkit *Client, admin *fbauth.Client, mailer mailout.Client, mailFrom string) *Provider {
	return &Provider{
		Toolkit:  toolkit,
		Admin:    admin,
		Mailer:   mailer,
		MailFrom: strings.TrimSpace(mailFrom),
	}
}

func (p *Provider) SignIn(ctx context.Context, email, password string) (*identitydom.Identity, error) {
	if p == nil || p.Toolkit == nil {
		return nil, errors.New("identitytoolkit: provider not configured")
	}

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, identitydom.ErrInvalidCredential
	}
	return p.Toolkit.SignInWithPassword(ctx, email, password)
}

func (p *Provider) SignUp(ctx context.Context, email, password string) (*identitydom.Identity, error) {
	if p == nil || p.Toolkit == nil {
		return nil, errors.New("identitytoolkit: provider not configured")
	}

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, identitydom.ErrInvalidCredential
	}
	return p.Toolkit.SignUp(ctx, email, password)
}

func (p *Provider) SignInWithGoogle(ctx context.Context, googleIDToken string) (*identitydom.Identity, error) {
	if p == nil || p.Toolkit == nil {
		return nil, errors.New("identitytoolkit: provider not configured")
	}

	tok := strings.TrimSpace(googleIDToken)
	if tok == "" {
		return nil, identitydom.ErrInvalidCredential
	}
	return p.Toolkit.SignInWithIdp(ctx, tok)
}

// ResetPassword generates a reset link with the Admin SDK and delivers it
// via SendGrid. An unknown email is reported as an invalid credential so the
// caller's message does not leak account existence details beyond what the
// provider already reveals.
func (p *Provider) ResetPassword(ctx context.Context, email string) error {
	if p == nil || p.Admin == nil {
		return errors.New("identitytoolkit: admin client not configured")
	}
	if p.Mailer == nil || p.MailFrom == "" {
		return fmt.Errorf("%w: mail delivery not configured", identitydom.ErrProvider)
	}

	email = strings.TrimSpace(email)
	if email == "" {
		return identitydom.ErrInvalidCredential
	}

	link, err := p.Admin.PasswordResetLink(ctx, email)
	if err != nil {
		if fbauth.IsEmailNotFound(err) {
			return identitydom.ErrInvalidCredential
		}
		return fmt.Errorf("%w: reset link: %v", identitydom.ErrProvider, err)
	}

	body := "A password reset was requested for this address.\n\n" +
		"Reset your password: " + link + "\n\n" +
		"If you did not request this, you can ignore this email."
	if err := p.Mailer.Send(ctx, p.MailFrom, email, "Reset your password", body); err != nil {
		return fmt.Errorf("%w: reset mail: %v", identitydom.ErrProvider, err)
	}

	log.Printf("[identity_provider] password reset mail sent to=%s", email)
	return nil
}

// SignOut revokes the user's refresh tokens; issued ID tokens then expire
// out within the hour.
func (p *Provider) SignOut(ctx context.Context, uid string) error {
	if p == nil || p.Admin == nil {
		return errors.New("identitytoolkit: admin client not configured")
	}

	uid = strings.TrimSpace(uid)
	if uid == "" {
		return identitydom.ErrInvalidCredential
	}

	if err := p.Admin.RevokeRefreshTokens(ctx, uid); err != nil {
		return fmt.Errorf("%w: revoke tokens: %v", identitydom.ErrProvider, err)
	}
	return nil
}
