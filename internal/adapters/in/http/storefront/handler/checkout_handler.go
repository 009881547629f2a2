// internal/adapters/in/http/storefront/handler/checkout_handler.go
package storefrontHandler

import (
	"net/http"

	usecase "github.com/alpesh377/e-commerce-store/internal/application/usecase"
)

// CheckoutHandler is a navigation stub: POST /storefront/checkout
// acknowledges and points the frontend at its checkout route. No payment or
// order logic lives in this service.
type CheckoutHandler struct {
	sessions *usecase.SessionRegistry
}

func NewCheckoutHandler(sessions *usecase.SessionRegistry) http.Handler {
	return &CheckoutHandler{sessions: sessions}
}

func (h *CheckoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if h.sessions == nil {
		writeErr(w, http.StatusInternalServerError, "checkout handler is not configured")
		return
	}

	sess, err := h.sessions.Resolve(readSessionID(r))
	if err != nil {
		writeErr(w, http.StatusServiceUnavailable, "session is unavailable")
		return
	}
	w.Header().Set("X-Session-Id", sess.ID)
	bindVerifiedUser(r, sess)

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"next":      "/checkout",
		"itemCount": sess.Cart.ItemCount(),
	})
}
