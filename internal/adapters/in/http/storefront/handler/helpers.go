// internal/adapters/in/http/storefront/handler/helpers.go
package storefrontHandler

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/alpesh377/e-commerce-store/internal/adapters/in/http/middleware"
	usecase "github.com/alpesh377/e-commerce-store/internal/application/usecase"
	identitydom "github.com/alpesh377/e-commerce-store/internal/domain/identity"
)

// writeJSON writes status + JSON body. Encoding failures are out of the
// handler's hands at that point; headers are already gone.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// readSessionID resolves the caller's session id: header first, then query
// (for clients that cannot set custom headers). Empty means "mint a new
// session".
func readSessionID(r *http.Request) string {
	if v := strings.TrimSpace(r.Header.Get("X-Session-Id")); v != "" {
		return v
	}
	return strings.TrimSpace(r.URL.Query().Get("sessionId"))
}

// bindVerifiedUser binds the Bearer-verified identity (when the request
// carries one) to the session. The feed is only set on an actual identity
// change; publishing the same uid again would trigger a needless cutover and
// discard the session's lines.
func bindVerifiedUser(r *http.Request, sess *usecase.Session) {
	uid, email, ok := middleware.CurrentUserUIDAndEmail(r)
	if !ok || sess == nil {
		return
	}

	if cur := sess.Feed.Current(); cur.Valid() && cur.UID == uid {
		return
	}

	log.Printf("[session] bearer identity bound session=%s uid=%s", sess.ID, uid)
	sess.Feed.Set(&identitydom.Identity{UID: uid, Email: email})
}

// queryInt parses a positive int query param; 0 means absent/invalid.
func queryInt(r *http.Request, key string) int {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// queryBool parses a "true"/"1" flag.
func queryBool(r *http.Request, key string) bool {
	v := strings.ToLower(strings.TrimSpace(r.URL.Query().Get(key)))
	return v == "true" || v == "1"
}
