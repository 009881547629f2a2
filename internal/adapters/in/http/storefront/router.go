// internal/adapters/in/http/storefront/router.go
package storefront

import (
	"net/http"

	"github.com/alpesh377/e-commerce-store/internal/adapters/in/http/middleware"
	storefrontHandler "github.com/alpesh377/e-commerce-store/internal/adapters/in/http/storefront/handler"
	usecase "github.com/alpesh377/e-commerce-store/internal/application/usecase"
	identitydom "github.com/alpesh377/e-commerce-store/internal/domain/identity"
)

type RouterDeps struct {
	CatalogUC *usecase.CatalogUsecase
	Sessions  *usecase.SessionRegistry
	Identity  identitydom.Provider

	// FirebaseAuth enables optional ID-token verification. nil disables it;
	// guests and session-header auth keep working.
	FirebaseAuth *middleware.FirebaseAuthClient

	// AllowedOrigin comes from config (STOREFRONT_ALLOWED_ORIGIN); empty
	// falls back to "*".
	AllowedOrigin string
}

// NewRouter assembles the storefront surface.
// Chain order matters: CORS outermost (error responses need the headers
// too), Recover inside it, token verification innermost.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	catalog := storefrontHandler.NewCatalogHandler(deps.CatalogUC)
	cart := storefrontHandler.NewCartHandler(deps.Sessions, deps.CatalogUC)
	auth := storefrontHandler.NewAuthHandler(deps.Identity, deps.Sessions)
	checkout := storefrontHandler.NewCheckoutHandler(deps.Sessions)

	mux.Handle("/storefront/products", catalog)
	mux.Handle("/storefront/products/", catalog)
	mux.Handle("/storefront/cart", cart)
	mux.Handle("/storefront/cart/", cart)
	mux.Handle("/storefront/auth/", auth)
	mux.Handle("/storefront/checkout", checkout)

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	var h http.Handler = mux
	if deps.FirebaseAuth != nil {
		ua := &middleware.UserAuth{FirebaseAuth: deps.FirebaseAuth}
		h = ua.Handler(h)
	}

	return middleware.CORSWithOrigin(deps.AllowedOrigin, middleware.Recover(h))
}
