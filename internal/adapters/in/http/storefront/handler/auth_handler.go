// internal/adapters/in/http/storefront/handler/auth_handler.go
package storefrontHandler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	usecase "github.com/alpesh377/e-commerce-store/internal/application/usecase"
	identitydom "github.com/alpesh377/e-commerce-store/internal/domain/identity"
)

// AuthHandler serves authentication for the storefront session:
//   - POST /storefront/auth/sign-in         {email, password}
//   - POST /storefront/auth/sign-up         {email, password}
//   - POST /storefront/auth/google          {idToken}
//   - POST /storefront/auth/reset-password  {email}
//   - POST /storefront/auth/sign-out
//
// Successful sign-in/up/google publishes the identity into the session's
// feed, which makes the cart engine cut over to that identity's remote cart.
type AuthHandler struct {
	provider identitydom.Provider
	sessions *usecase.SessionRegistry
}

func NewAuthHandler(provider identitydom.Provider, sessions *usecase.SessionRegistry) http.Handler {
	return &AuthHandler{provider: provider, sessions: sessions}
}

type authRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	IDToken  string `json:"idToken"`
}

func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	path := strings.TrimRight(r.URL.Path, "/")

	if h.provider == nil || h.sessions == nil {
		writeErr(w, http.StatusInternalServerError, "auth handler is not configured")
		return
	}
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	// sign-out is the only endpoint without a body; everything else decodes
	// strictly so malformed JSON is a 400, not a credential failure.
	if strings.HasSuffix(path, "/auth/sign-out") {
		h.signOut(w, r, start)
		return
	}

	var serve func(http.ResponseWriter, *http.Request, authRequest, time.Time)
	switch {
	case strings.HasSuffix(path, "/auth/sign-in"):
		serve = h.signIn
	case strings.HasSuffix(path, "/auth/sign-up"):
		serve = h.signUp
	case strings.HasSuffix(path, "/auth/google"):
		serve = h.google
	case strings.HasSuffix(path, "/auth/reset-password"):
		serve = h.resetPassword
	default:
		writeErr(w, http.StatusNotFound, "not found")
		return
	}

	var req authRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	serve(w, r, req, start)
}

func (h *AuthHandler) signIn(w http.ResponseWriter, r *http.Request, req authRequest, start time.Time) {
	ident, err := h.provider.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeIdentityErr(w, "sign-in", err)
		return
	}
	h.attach(w, r, ident, start, "sign-in")
}

func (h *AuthHandler) signUp(w http.ResponseWriter, r *http.Request, req authRequest, start time.Time) {
	ident, err := h.provider.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeIdentityErr(w, "sign-up", err)
		return
	}
	h.attach(w, r, ident, start, "sign-up")
}

func (h *AuthHandler) google(w http.ResponseWriter, r *http.Request, req authRequest, start time.Time) {
	ident, err := h.provider.SignInWithGoogle(r.Context(), req.IDToken)
	if err != nil {
		h.writeIdentityErr(w, "google", err)
		return
	}
	h.attach(w, r, ident, start, "google")
}

func (h *AuthHandler) resetPassword(w http.ResponseWriter, r *http.Request, req authRequest, start time.Time) {
	if err := h.provider.ResetPassword(r.Context(), req.Email); err != nil {
		h.writeIdentityErr(w, "reset-password", err)
		return
	}
	log.Printf("[auth_handler] reset-password ok elapsed=%s", time.Since(start))
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *AuthHandler) signOut(w http.ResponseWriter, r *http.Request, start time.Time) {
	sess, err := h.sessions.Resolve(readSessionID(r))
	if err != nil {
		writeErr(w, http.StatusServiceUnavailable, "session is unavailable")
		return
	}
	w.Header().Set("X-Session-Id", sess.ID)

	// Revoke refresh tokens for the identity this session held, if any.
	if ident := sess.Cart.Identity(); ident.Valid() {
		if err := h.provider.SignOut(r.Context(), ident.UID); err != nil {
			// Local sign-out still proceeds.
			log.Printf("[auth_handler] WARN: token revocation failed uid=%s: %v", ident.UID, err)
		}
	}

	sess.Feed.Set(nil)

	log.Printf("[auth_handler] sign-out ok session=%s elapsed=%s", sess.ID, time.Since(start))
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "sessionId": sess.ID})
}

// attach binds the fresh identity to the caller's session and returns it.
func (h *AuthHandler) attach(w http.ResponseWriter, r *http.Request, ident *identitydom.Identity, start time.Time, op string) {
	sess, err := h.sessions.Resolve(readSessionID(r))
	if err != nil {
		writeErr(w, http.StatusServiceUnavailable, "session is unavailable")
		return
	}
	w.Header().Set("X-Session-Id", sess.ID)

	sess.Feed.Set(ident)

	log.Printf("[auth_handler] %s ok session=%s uid=%s elapsed=%s", op, sess.ID, ident.UID, time.Since(start))
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"sessionId": sess.ID,
		"identity":  ident,
	})
}

// writeIdentityErr maps the identity error taxonomy onto user-facing
// messages. "Already registered" is the one case callers must be able to
// tell apart.
func (h *AuthHandler) writeIdentityErr(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, identitydom.ErrEmailAlreadyInUse):
		writeErr(w, http.StatusConflict, "email is already registered")
	case errors.Is(err, identitydom.ErrInvalidCredential):
		writeErr(w, http.StatusUnauthorized, "invalid email or password")
	default:
		log.Printf("[auth_handler] %s failed: %v", op, err)
		writeErr(w, http.StatusBadGateway, "authentication failed, try again later")
	}
}
