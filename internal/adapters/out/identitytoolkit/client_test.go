// internal/adapters/out/identitytoolkit/client_test.go
package identitytoolkit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	identitydom "github.com/alpesh377/e-commerce-store/internal/domain/identity"
)

func toolkitServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-api-key")
}

func writeToolkitError(w http.ResponseWriter, code int, message string) {
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"code": code, "message": message},
	})
}

func TestSignInWithPassword(t *testing.T) {
	c := toolkitServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/accounts:signInWithPassword", r.URL.Path)
		assert.Equal(t, "test-api-key", r.URL.Query().Get("key"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "jane@example.com", body["email"])
		assert.Equal(t, true, body["returnSecureToken"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"localId":      "uid-123",
			"email":        "jane@example.com",
			"idToken":      "id-token",
			"refreshToken": "refresh-token",
		})
	})

	id, err := c.SignInWithPassword(context.Background(), "jane@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "uid-123", id.UID)
	assert.Equal(t, "jane@example.com", id.Email)
	assert.Equal(t, "id-token", id.IDToken)
	assert.Equal(t, "refresh-token", id.RefreshToken)
	assert.True(t, id.Valid())
}

func TestSignUpEmailExists(t *testing.T) {
	c := toolkitServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts:signUp", r.URL.Path)
		writeToolkitError(w, http.StatusBadRequest, "EMAIL_EXISTS")
	})

	_, err := c.SignUp(context.Background(), "jane@example.com", "hunter2")
	assert.ErrorIs(t, err, identitydom.ErrEmailAlreadyInUse)
}

func TestSignInInvalidCredential(t *testing.T) {
	for _, message := range []string{
		"INVALID_PASSWORD",
		"EMAIL_NOT_FOUND",
		"INVALID_LOGIN_CREDENTIALS",
		"USER_DISABLED : The user account has been disabled by an administrator.",
	} {
		t.Run(message, func(t *testing.T) {
			c := toolkitServer(t, func(w http.ResponseWriter, r *http.Request) {
				writeToolkitError(w, http.StatusBadRequest, message)
			})

			_, err := c.SignInWithPassword(context.Background(), "jane@example.com", "wrong")
			assert.ErrorIs(t, err, identitydom.ErrInvalidCredential)
		})
	}
}

func TestSignInUnknownToolkitError(t *testing.T) {
	c := toolkitServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeToolkitError(w, http.StatusBadRequest, "TOO_MANY_ATTEMPTS_TRY_LATER")
	})

	_, err := c.SignInWithPassword(context.Background(), "jane@example.com", "hunter2")
	assert.ErrorIs(t, err, identitydom.ErrProvider)
	assert.Contains(t, err.Error(), "TOO_MANY_ATTEMPTS_TRY_LATER")
}

func TestSignInWithIdp(t *testing.T) {
	c := toolkitServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts:signInWithIdp", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "id_token=google-token&providerId=google.com", body["postBody"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"localId": "uid-g",
			"email":   "jane@gmail.example.com",
			"idToken": "id-token",
		})
	})

	id, err := c.SignInWithIdp(context.Background(), "google-token")
	require.NoError(t, err)
	assert.Equal(t, "uid-g", id.UID)
}

func TestSignInMissingLocalID(t *testing.T) {
	c := toolkitServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"email": "jane@example.com"})
	})

	_, err := c.SignInWithPassword(context.Background(), "jane@example.com", "hunter2")
	assert.ErrorIs(t, err, identitydom.ErrProvider)
}

func TestClientWithoutAPIKey(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "")

	_, err := c.SignInWithPassword(context.Background(), "jane@example.com", "hunter2")
	assert.ErrorIs(t, err, identitydom.ErrProvider)
}
