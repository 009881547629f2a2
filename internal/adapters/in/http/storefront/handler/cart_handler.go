// internal/adapters/in/http/storefront/handler/cart_handler.go
package storefrontHandler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	usecase "github.com/alpesh377/e-commerce-store/internal/application/usecase"
	cartdom "github.com/alpesh377/e-commerce-store/internal/domain/cart"
)

// CartHandler serves the session cart:
//   - GET    /storefront/cart           (lines + totals)
//   - DELETE /storefront/cart           (clear)
//   - POST   /storefront/cart/items     {productId, quantity}   add
//   - PUT    /storefront/cart/items     {productId, quantity}   set qty
//   - DELETE /storefront/cart/items?productId=                  remove
//   - POST   /storefront/cart/coupon    placeholder acknowledgement
//
// Remote sync failures never surface here; the optimistic in-memory cart is
// always returned.
type CartHandler struct {
	sessions *usecase.SessionRegistry
	catalog  *usecase.CatalogUsecase
}

func NewCartHandler(sessions *usecase.SessionRegistry, catalog *usecase.CatalogUsecase) http.Handler {
	return &CartHandler{sessions: sessions, catalog: catalog}
}

type cartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type cartResponse struct {
	SessionID string       `json:"sessionId"`
	Items     cartdom.Lines `json:"items"`
	Total     float64      `json:"total"`
	ItemCount int          `json:"itemCount"`
}

func (h *CartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	path := strings.TrimRight(r.URL.Path, "/")

	if h.sessions == nil {
		writeErr(w, http.StatusInternalServerError, "cart handler is not configured")
		return
	}

	sess, err := h.sessions.Resolve(readSessionID(r))
	if err != nil {
		log.Printf("[cart_handler] session resolve failed: %v", err)
		writeErr(w, http.StatusServiceUnavailable, "cart is unavailable")
		return
	}
	// Echo so first-time guests learn their session id.
	w.Header().Set("X-Session-Id", sess.ID)

	// A verified Bearer token binds its uid to the session, so a token-only
	// client reaches its remote cart without a prior sign-in call.
	bindVerifiedUser(r, sess)

	isGET := r.Method == http.MethodGet
	isDEL := r.Method == http.MethodDelete
	isPOST := r.Method == http.MethodPost
	isPUT := r.Method == http.MethodPut

	switch {
	case isGET && strings.HasSuffix(path, "/cart"):
		h.respondCart(w, sess, start, "get")
		return

	case isDEL && strings.HasSuffix(path, "/cart"):
		if err := sess.Cart.Clear(); err != nil {
			writeErr(w, http.StatusServiceUnavailable, "cart is unavailable")
			return
		}
		h.respondCart(w, sess, start, "clear")
		return

	case isPOST && strings.HasSuffix(path, "/cart/items"):
		h.handleAdd(w, r, sess, start)
		return

	case isPUT && strings.HasSuffix(path, "/cart/items"):
		h.handleSetQuantity(w, r, sess, start)
		return

	case isDEL && strings.HasSuffix(path, "/cart/items"):
		h.handleRemove(w, r, sess, start)
		return

	case isPOST && strings.HasSuffix(path, "/cart/coupon"):
		// Coupons are a placeholder acknowledgement, no pricing effect.
		writeJSON(w, http.StatusOK, map[string]string{"status": "accepted"})
		return
	}

	writeErr(w, http.StatusNotFound, "not found")
}

func (h *CartHandler) handleAdd(w http.ResponseWriter, r *http.Request, sess *usecase.Session, start time.Time) {
	if h.catalog == nil {
		writeErr(w, http.StatusInternalServerError, "catalog is not configured")
		return
	}

	var req cartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Quantity < 1 {
		writeErr(w, http.StatusBadRequest, "quantity must be >= 1")
		return
	}

	// Snapshot the product at add time; later catalog price changes do not
	// touch the stored line.
	p, err := h.catalog.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrProductNotFound):
			writeErr(w, http.StatusNotFound, "product not found")
		case errors.Is(err, usecase.ErrCatalogInvalidArgument):
			writeErr(w, http.StatusBadRequest, "productId is required")
		default:
			log.Printf("[cart_handler] add: product load failed id=%q: %v", req.ProductID, err)
			writeErr(w, http.StatusBadGateway, "failed to load product")
		}
		return
	}

	if err := sess.Cart.AddLine(*p, req.Quantity); err != nil {
		if errors.Is(err, cartdom.ErrInvalidQuantity) {
			writeErr(w, http.StatusBadRequest, "quantity must be >= 1")
			return
		}
		writeErr(w, http.StatusServiceUnavailable, "cart is unavailable")
		return
	}

	h.respondCart(w, sess, start, "add")
}

func (h *CartHandler) handleSetQuantity(w http.ResponseWriter, r *http.Request, sess *usecase.Session, start time.Time) {
	var req cartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.ProductID) == "" {
		writeErr(w, http.StatusBadRequest, "productId is required")
		return
	}

	// qty <= 0 removes the line (the engine never stores 0).
	if err := sess.Cart.SetQuantity(req.ProductID, req.Quantity); err != nil {
		writeErr(w, http.StatusServiceUnavailable, "cart is unavailable")
		return
	}

	h.respondCart(w, sess, start, "set_quantity")
}

func (h *CartHandler) handleRemove(w http.ResponseWriter, r *http.Request, sess *usecase.Session, start time.Time) {
	productID := strings.TrimSpace(r.URL.Query().Get("productId"))
	if productID == "" {
		writeErr(w, http.StatusBadRequest, "productId is required")
		return
	}

	// Removing an absent line is a no-op, not an error.
	if err := sess.Cart.RemoveLine(productID); err != nil {
		writeErr(w, http.StatusServiceUnavailable, "cart is unavailable")
		return
	}

	h.respondCart(w, sess, start, "remove")
}

func (h *CartHandler) respondCart(w http.ResponseWriter, sess *usecase.Session, start time.Time, op string) {
	items := sess.Cart.Lines()
	if items == nil {
		items = cartdom.Lines{}
	}

	resp := cartResponse{
		SessionID: sess.ID,
		Items:     items,
		Total:     sess.Cart.Total(),
		ItemCount: sess.Cart.ItemCount(),
	}

	log.Printf("[cart_handler] %s ok session=%s state=%s lines=%d elapsed=%s",
		op, sess.ID, sess.Cart.State(), len(items), time.Since(start))
	writeJSON(w, http.StatusOK, resp)
}
