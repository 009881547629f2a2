// internal/adapters/in/http/middleware/middleware_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserAuthGuestPassThrough(t *testing.T) {
	ua := &UserAuth{}

	var sawUID bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawUID = CurrentUserUID(r)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/storefront/cart", nil)
	rec := httptest.NewRecorder()
	ua.Handler(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, sawUID, "guest requests must not carry a uid")
}

func TestUserAuthBearerWithoutClient(t *testing.T) {
	ua := &UserAuth{}

	req := httptest.NewRequest(http.MethodGet, "/storefront/cart", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	ua.Handler(http.NotFoundHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestWithUserRoundTrip(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithUser(req.Context(), "uid-1", "jane@example.com"))

	uid, ok := CurrentUserUID(req)
	require.True(t, ok)
	assert.Equal(t, "uid-1", uid)

	uid, email, ok := CurrentUserUIDAndEmail(req)
	require.True(t, ok)
	assert.Equal(t, "uid-1", uid)
	assert.Equal(t, "jane@example.com", email)
}

func TestWithUserWithoutEmail(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithUser(req.Context(), "uid-1", ""))

	uid, email, ok := CurrentUserUIDAndEmail(req)
	require.True(t, ok)
	assert.Equal(t, "uid-1", uid)
	assert.Empty(t, email)
}

func TestCORSWithOrigin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/storefront/products", nil)
	rec := httptest.NewRecorder()
	CORSWithOrigin("https://store.example.com", next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://store.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "X-Session-Id")
	assert.Equal(t, "X-Session-Id", rec.Header().Get("Access-Control-Expose-Headers"))
}

func TestCORSEmptyOriginFallsBack(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	CORSWithOrigin("  ", http.NotFoundHandler()).ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/storefront/cart", nil)
	rec := httptest.NewRecorder()

	var nextCalled bool
	CORSWithOrigin("*", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
	})).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, nextCalled, "preflight must short-circuit")
}
