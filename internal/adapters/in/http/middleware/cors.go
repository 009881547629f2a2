// internal/adapters/in/http/middleware/cors.go
package middleware

import (
	"net/http"
	"os"
	"strings"
)

// CORSWithOrigin attaches the storefront frontend's origin. origin should be
// the exact deployed frontend origin in production; "*" is the development
// fallback.
func CORSWithOrigin(origin string, next http.Handler) http.Handler {
	origin = strings.TrimSpace(origin)
	if origin == "" {
		origin = "*"
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization,Content-Type,X-Session-Id")
		w.Header().Set("Access-Control-Expose-Headers", "X-Session-Id")
		w.Header().Set("Access-Control-Max-Age", "600")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CORS is CORSWithOrigin resolved from the environment, for callers that run
// before the config layer is up (the boot health mux).
func CORS(next http.Handler) http.Handler {
	return CORSWithOrigin(os.Getenv("STOREFRONT_ALLOWED_ORIGIN"), next)
}
