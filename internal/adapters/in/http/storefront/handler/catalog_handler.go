// internal/adapters/in/http/storefront/handler/catalog_handler.go
package storefrontHandler

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	usecase "github.com/alpesh377/e-commerce-store/internal/application/usecase"
)

// CatalogHandler serves product browsing:
//   - GET /storefront/products            (paged list; featured/categoryId filters)
//   - GET /storefront/products/{id}       (detail)
type CatalogHandler struct {
	uc *usecase.CatalogUsecase
}

func NewCatalogHandler(uc *usecase.CatalogUsecase) http.Handler {
	return &CatalogHandler{uc: uc}
}

func (h *CatalogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	path := strings.TrimRight(r.URL.Path, "/")

	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "catalog handler is not configured")
		return
	}
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	// /storefront/products/{id} vs /storefront/products
	const marker = "/products/"
	if i := strings.Index(path, marker); i >= 0 {
		id := path[i+len(marker):]
		// ids are single document ids; a nested path is not a product route
		if strings.Contains(id, "/") {
			writeErr(w, http.StatusNotFound, "not found")
			return
		}
		h.handleDetail(w, r, id, start)
		return
	}
	if strings.HasSuffix(path, "/products") {
		h.handleList(w, r, start)
		return
	}

	writeErr(w, http.StatusNotFound, "not found")
}

func (h *CatalogHandler) handleList(w http.ResponseWriter, r *http.Request, start time.Time) {
	q := usecase.PageQuery{
		Featured:   queryBool(r, "featured"),
		CategoryID: strings.TrimSpace(r.URL.Query().Get("categoryId")),
		Page:       queryInt(r, "page"),
		PageSize:   queryInt(r, "pageSize"),
	}

	page, err := h.uc.FetchPage(r.Context(), q)
	if err != nil {
		if errors.Is(err, usecase.ErrCatalogInvalidArgument) {
			writeErr(w, http.StatusBadRequest, "invalid page request")
			return
		}
		log.Printf("[catalog_handler] list failed page=%d: %v", q.Page, err)
		writeErr(w, http.StatusBadGateway, "failed to load products")
		return
	}

	log.Printf("[catalog_handler] list ok page=%d size=%d results=%d elapsed=%s",
		page.CurrentPage, q.PageSize, len(page.Products), time.Since(start))
	writeJSON(w, http.StatusOK, page)
}

func (h *CatalogHandler) handleDetail(w http.ResponseWriter, r *http.Request, id string, start time.Time) {
	p, err := h.uc.GetProduct(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrProductNotFound):
			writeErr(w, http.StatusNotFound, "product not found")
		case errors.Is(err, usecase.ErrCatalogInvalidArgument):
			writeErr(w, http.StatusBadRequest, "product id is required")
		default:
			log.Printf("[catalog_handler] detail failed id=%q: %v", id, err)
			writeErr(w, http.StatusBadGateway, "failed to load product")
		}
		return
	}

	log.Printf("[catalog_handler] detail ok id=%s elapsed=%s", p.ID, time.Since(start))
	writeJSON(w, http.StatusOK, p)
}
