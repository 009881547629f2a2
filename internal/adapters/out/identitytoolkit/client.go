// internal/adapters/out/identitytoolkit/client.go
package identitytoolkit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	identitydom "github.com/alpesh377/e-commerce-store/internal/domain/identity"
)

const defaultBaseURL = "https://identitytoolkit.googleapis.com/v1"

// Client calls the Firebase Identity Toolkit REST API. The Admin SDK cannot
// sign a user in with a password; that path goes through this endpoint,
// keyed by the project's web API key.
type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewClient builds a toolkit client. baseURL is overridable for tests; empty
// means the Google endpoint.
func NewClient(baseURL, apiKey string) *Client {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	return &Client{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: baseURL,
		apiKey:  strings.TrimSpace(apiKey),
	}
}

// tokenResponse is the shared success shape of the accounts:* endpoints.
type tokenResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// SignInWithPassword exchanges email/password for an identity.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*identitydom.Identity, error) {
	body := map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}
	return c.post(ctx, "accounts:signInWithPassword", body)
}

// SignUp registers a new email/password user and signs it in.
func (c *Client) SignUp(ctx context.Context, email, password string) (*identitydom.Identity, error) {
	body := map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}
	return c.post(ctx, "accounts:signUp", body)
}

// SignInWithIdp exchanges a Google ID token for an identity.
func (c *Client) SignInWithIdp(ctx context.Context, googleIDToken string) (*identitydom.Identity, error) {
	body := map[string]any{
		"postBody":            "id_token=" + googleIDToken + "&providerId=google.com",
		"requestUri":          "http://localhost",
		"returnIdpCredential": true,
		"returnSecureToken":   true,
	}
	return c.post(ctx, "accounts:signInWithIdp", body)
}

func (c *Client) post(ctx context.Context, endpoint string, body map[string]any) (*identitydom.Identity, error) {
	if c == nil || c.client == nil {
		return nil, fmt.Errorf("identitytoolkit: client is nil")
	}
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: web api key not configured", identitydom.ErrProvider)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("identitytoolkit: marshal request: %w", err)
	}

	url := c.baseURL + "/" + endpoint + "?key=" + c.apiKey
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("identitytoolkit: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", identitydom.ErrProvider, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", identitydom.ErrProvider, err)
	}

	if resp.StatusCode >= 400 {
		var er errorResponse
		_ = json.Unmarshal(raw, &er)
		return nil, mapToolkitError(er.Error.Message)
	}

	var tr tokenResponse
	if err := json.Unmarshal(raw, &tr); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", identitydom.ErrProvider, err)
	}
	if strings.TrimSpace(tr.LocalID) == "" {
		return nil, fmt.Errorf("%w: response has no localId", identitydom.ErrProvider)
	}

	return &identitydom.Identity{
		UID:          tr.LocalID,
		Email:        tr.Email,
		IDToken:      tr.IDToken,
		RefreshToken: tr.RefreshToken,
	}, nil
}

// mapToolkitError maps the toolkit's error message onto the identity error
// taxonomy. Messages may carry suffixes ("EMAIL_EXISTS : ..."), so match on
// the leading token.
func mapToolkitError(message string) error {
	msg := strings.TrimSpace(message)
	head, _, _ := strings.Cut(msg, " ")

	switch head {
	case "EMAIL_EXISTS":
		return identitydom.ErrEmailAlreadyInUse
	case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "USER_DISABLED":
		return identitydom.ErrInvalidCredential
	}
	if msg == "" {
		return identitydom.ErrProvider
	}
	return fmt.Errorf("%w: %s", identitydom.ErrProvider, msg)
}
