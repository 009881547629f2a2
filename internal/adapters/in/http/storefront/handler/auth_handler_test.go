// internal/adapters/in/http/storefront/handler/auth_handler_test.go
package storefrontHandler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	usecase "github.com/alpesh377/e-commerce-store/internal/application/usecase"
	identitydom "github.com/alpesh377/e-commerce-store/internal/domain/identity"
)

// fakeProvider resolves every call from canned results.
type fakeProvider struct {
	ident      *identitydom.Identity
	err        error
	resetCalls []string
	revoked    []string
}

func (p *fakeProvider) SignIn(ctx context.Context, email, password string) (*identitydom.Identity, error) {
	return p.ident, p.err
}

func (p *fakeProvider) SignUp(ctx context.Context, email, password string) (*identitydom.Identity, error) {
	return p.ident, p.err
}

func (p *fakeProvider) SignInWithGoogle(ctx context.Context, token string) (*identitydom.Identity, error) {
	return p.ident, p.err
}

func (p *fakeProvider) ResetPassword(ctx context.Context, email string) error {
	p.resetCalls = append(p.resetCalls, email)
	return p.err
}

func (p *fakeProvider) SignOut(ctx context.Context, uid string) error {
	p.revoked = append(p.revoked, uid)
	return p.err
}

func newAuthHandlerUnderTest(t *testing.T, p *fakeProvider) (http.Handler, *usecase.SessionRegistry) {
	t.Helper()
	sessions := usecase.NewSessionRegistry(noopRemoteStore{}, time.Hour)
	t.Cleanup(sessions.Close)
	return NewAuthHandler(p, sessions), sessions
}

func postAuth(h http.Handler, target, sessionID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	if sessionID != "" {
		req.Header.Set("X-Session-Id", sessionID)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthHandlerSignInBindsSession(t *testing.T) {
	p := &fakeProvider{ident: &identitydom.Identity{UID: "uid-1", Email: "jane@example.com"}}
	h, sessions := newAuthHandlerUnderTest(t, p)

	rec := postAuth(h, "/storefront/auth/sign-in", "",
		`{"email":"jane@example.com","password":"hunter2"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status    string                `json:"status"`
		SessionID string                `json:"sessionId"`
		Identity  *identitydom.Identity `json:"identity"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.SessionID)
	require.NotNil(t, resp.Identity)
	assert.Equal(t, "uid-1", resp.Identity.UID)

	// the session's cart is now bound to the identity
	sess, err := sessions.Resolve(resp.SessionID)
	require.NoError(t, err)
	require.NotNil(t, sess.Cart.Identity())
	assert.Equal(t, "uid-1", sess.Cart.Identity().UID)
}

func TestAuthHandlerSignUpConflict(t *testing.T) {
	p := &fakeProvider{err: identitydom.ErrEmailAlreadyInUse}
	h, _ := newAuthHandlerUnderTest(t, p)

	rec := postAuth(h, "/storefront/auth/sign-up", "",
		`{"email":"jane@example.com","password":"hunter2"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "email is already registered", body["error"])
}

func TestAuthHandlerSignInInvalidCredential(t *testing.T) {
	p := &fakeProvider{err: identitydom.ErrInvalidCredential}
	h, _ := newAuthHandlerUnderTest(t, p)

	rec := postAuth(h, "/storefront/auth/sign-in", "",
		`{"email":"jane@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandlerProviderOutage(t *testing.T) {
	p := &fakeProvider{err: identitydom.ErrProvider}
	h, _ := newAuthHandlerUnderTest(t, p)

	rec := postAuth(h, "/storefront/auth/sign-in", "",
		`{"email":"jane@example.com","password":"hunter2"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestAuthHandlerResetPassword(t *testing.T) {
	p := &fakeProvider{}
	h, _ := newAuthHandlerUnderTest(t, p)

	rec := postAuth(h, "/storefront/auth/reset-password", "",
		`{"email":"jane@example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"jane@example.com"}, p.resetCalls)
}

func TestAuthHandlerSignOut(t *testing.T) {
	p := &fakeProvider{ident: &identitydom.Identity{UID: "uid-1"}}
	h, sessions := newAuthHandlerUnderTest(t, p)

	rec := postAuth(h, "/storefront/auth/sign-in", "", `{"email":"a@b.c","password":"x"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	sid := rec.Header().Get("X-Session-Id")
	require.NotEmpty(t, sid)

	rec = postAuth(h, "/storefront/auth/sign-out", sid, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"uid-1"}, p.revoked)

	sess, err := sessions.Resolve(sid)
	require.NoError(t, err)
	assert.Nil(t, sess.Cart.Identity())
}

func TestAuthHandlerMalformedBody(t *testing.T) {
	h, _ := newAuthHandlerUnderTest(t, &fakeProvider{ident: &identitydom.Identity{UID: "uid-1"}})

	rec := postAuth(h, "/storefront/auth/sign-in", "", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "invalid request body", body["error"])

	// empty body is malformed too for the endpoints that require one
	rec = postAuth(h, "/storefront/auth/sign-up", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postAuth(h, "/storefront/auth/reset-password", "", `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// sign-out keeps accepting an absent body
	rec = postAuth(h, "/storefront/auth/sign-out", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthHandlerMethodAndRoute(t *testing.T) {
	h, _ := newAuthHandlerUnderTest(t, &fakeProvider{})

	req := httptest.NewRequest(http.MethodGet, "/storefront/auth/sign-in", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec2 := postAuth(h, "/storefront/auth/unknown", "", "")
	assert.Equal(t, http.StatusNotFound, rec2.Code)
}
