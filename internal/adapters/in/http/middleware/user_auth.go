// internal/adapters/in/http/middleware/user_auth.go
package middleware

import (
	"context"
	"net/http"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"
)

// FirebaseAuthClient is an alias so callers can hold the dependency as
// *middleware.FirebaseAuthClient.
type FirebaseAuthClient = fbauth.Client

// context keys use a private type, not bare strings (SA1029).
type ctxKey struct{ name string }

var (
	ctxKeyUID   = ctxKey{name: "uid"}
	ctxKeyEmail = ctxKey{name: "email"}
)

// UserAuth verifies a Firebase ID token when the request carries one and
// stores uid/email in the context. Requests without an Authorization header
// pass through as guests; a present-but-invalid token is rejected. Cart and
// catalog endpoints serve guests, so auth here is optional, not required.
type UserAuth struct {
	FirebaseAuth *FirebaseAuthClient
}

func (m *UserAuth) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			next.ServeHTTP(w, r)
			return
		}

		if m.FirebaseAuth == nil {
			http.Error(w, "user auth middleware not initialized", http.StatusServiceUnavailable)
			return
		}

		idToken := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if idToken == "" {
			http.Error(w, "unauthorized: empty bearer token", http.StatusUnauthorized)
			return
		}

		token, err := m.FirebaseAuth.VerifyIDToken(r.Context(), idToken)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		uid := strings.TrimSpace(token.UID)
		if uid == "" {
			http.Error(w, "invalid uid in token", http.StatusUnauthorized)
			return
		}

		email := ""
		if emailRaw, ok := token.Claims["email"]; ok {
			if e, ok2 := emailRaw.(string); ok2 {
				email = strings.TrimSpace(e)
			}
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), uid, email)))
	})
}

// WithUser stores a verified uid (and optional email) on the context the way
// the middleware does after token verification.
func WithUser(ctx context.Context, uid, email string) context.Context {
	ctx = context.WithValue(ctx, ctxKeyUID, uid)
	if strings.TrimSpace(email) != "" {
		ctx = context.WithValue(ctx, ctxKeyEmail, strings.TrimSpace(email))
	}
	return ctx
}

// CurrentUserUID returns the verified Firebase UID for the request, if any.
func CurrentUserUID(r *http.Request) (string, bool) {
	v := r.Context().Value(ctxKeyUID)
	u, ok := v.(string)
	if !ok || strings.TrimSpace(u) == "" {
		return "", false
	}
	return strings.TrimSpace(u), true
}

// CurrentUserUIDAndEmail returns uid/email (email can be empty).
func CurrentUserUIDAndEmail(r *http.Request) (uid string, email string, ok bool) {
	uid, ok = CurrentUserUID(r)
	if !ok {
		return "", "", false
	}

	if v := r.Context().Value(ctxKeyEmail); v != nil {
		if e, okEmail := v.(string); okEmail {
			email = strings.TrimSpace(e)
		}
	}

	return uid, email, true
}
