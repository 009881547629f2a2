// internal/application/usecase/catalog_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	productdom "github.com/alpesh377/e-commerce-store/internal/domain/product"
)

var (
	ErrCatalogInvalidArgument = errors.New("catalog_usecase: invalid argument")

	// ErrCatalogQuery wraps any underlying store read failure. The layer
	// performs no retries; retries, if desired, belong to the caller.
	ErrCatalogQuery = errors.New("catalog_usecase: query failed")

	ErrProductNotFound = errors.New("catalog_usecase: product not found")
)

const DefaultPageSize = 10

// PageQuery describes one catalog page request.
type PageQuery struct {
	Featured   bool
	CategoryID string
	Page       int // >= 1; 0 means 1
	PageSize   int // >= 1; 0 means DefaultPageSize
}

// ProductPage is one page of catalog results plus pagination metadata.
type ProductPage struct {
	Products    []productdom.Product `json:"products"`
	TotalPages  int                  `json:"totalPages"`
	CurrentPage int                  `json:"currentPage"`
}

// ImageURLResolver turns a stored image reference into a servable URL
// (gs:// objects become signed URLs). Optional.
type ImageURLResolver interface {
	ResolveImageURL(ctx context.Context, ref string) (string, error)
}

// CatalogUsecase is the paginated product query layer.
type CatalogUsecase struct {
	repo   productdom.Repository
	images ImageURLResolver // nil = pass image refs through untouched
}

func NewCatalogUsecase(repo productdom.Repository) *CatalogUsecase {
	return &CatalogUsecase{repo: repo}
}

func NewCatalogUsecaseWithImages(repo productdom.Repository, images ImageURLResolver) *CatalogUsecase {
	return &CatalogUsecase{repo: repo, images: images}
}

// FetchPage runs the cursor-derived page read.
//
// For page > 1 the cursor is re-derived per request: the same
// filtered/ordered query limited to pageSize*(page-1) locates the last
// record of the previous page, and the page query starts strictly after it.
// O(page * pageSize) per fetch; each page is independent of any carried
// cursor token, and results are identical to a token-passing scheme.
func (uc *CatalogUsecase) FetchPage(ctx context.Context, q PageQuery) (*ProductPage, error) {
	if uc == nil || uc.repo == nil {
		return nil, errors.New("catalog_usecase: repo is nil")
	}

	page := q.Page
	if page == 0 {
		page = 1
	}
	size := q.PageSize
	if size == 0 {
		size = DefaultPageSize
	}
	if page < 1 || size < 1 {
		return nil, ErrCatalogInvalidArgument
	}

	f := productdom.Filter{
		Featured:   q.Featured,
		CategoryID: strings.TrimSpace(q.CategoryID),
	}

	var after productdom.Cursor
	if page > 1 {
		// Locate the last record of the previous page.
		_, cur, err := uc.repo.List(ctx, f, size*(page-1), nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCatalogQuery, err)
		}
		// cur == nil means fewer records than one page; the bounded query
		// below then runs from the top (observed original behavior).
		after = cur
	}

	products, _, err := uc.repo.List(ctx, f, size, after)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogQuery, err)
	}

	// Total page count under the same filters as the page query. The
	// original counted without filters; that was flagged as a defect and is
	// not preserved here.
	count, err := uc.repo.Count(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogQuery, err)
	}

	totalPages := int((count + int64(size) - 1) / int64(size))

	uc.resolveImages(ctx, products)

	return &ProductPage{
		Products:    products,
		TotalPages:  totalPages,
		CurrentPage: page,
	}, nil
}

// GetProduct returns one product by id.
// Unknown id is ErrProductNotFound, distinct from a transient query failure.
func (uc *CatalogUsecase) GetProduct(ctx context.Context, id string) (*productdom.Product, error) {
	if uc == nil || uc.repo == nil {
		return nil, errors.New("catalog_usecase: repo is nil")
	}

	pid := strings.TrimSpace(id)
	if pid == "" {
		return nil, ErrCatalogInvalidArgument
	}

	p, err := uc.repo.GetByID(ctx, pid)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogQuery, err)
	}
	if p == nil {
		return nil, ErrProductNotFound
	}

	one := []productdom.Product{*p}
	uc.resolveImages(ctx, one)
	return &one[0], nil
}

// resolveImages rewrites image refs in place. Resolution failures keep the
// raw ref; browsing must not fail because signing did.
func (uc *CatalogUsecase) resolveImages(ctx context.Context, products []productdom.Product) {
	if uc.images == nil {
		return
	}
	for i := range products {
		ref := strings.TrimSpace(products[i].ImageURL)
		if ref == "" {
			continue
		}
		url, err := uc.images.ResolveImageURL(ctx, ref)
		if err != nil {
			log.Printf("[catalog_usecase] WARN: image url resolve failed id=%s: %v", products[i].ID, err)
			continue
		}
		products[i].ImageURL = url
	}
}
