// internal/application/usecase/catalog_usecase_test.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	productdom "github.com/alpesh377/e-commerce-store/internal/domain/product"
)

// fakeProductRepo serves List/Count from an ordered in-memory slice, with a
// positional cursor standing in for a document snapshot.
type fakeProductRepo struct {
	products []productdom.Product
	listErr  error
	countErr error
	getErr   error
}

func (r *fakeProductRepo) filtered(f productdom.Filter) []productdom.Product {
	out := make([]productdom.Product, 0, len(r.products))
	for _, p := range r.products {
		if f.Featured && !p.Featured {
			continue
		}
		if f.CategoryID != "" && p.CategoryID != f.CategoryID {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (r *fakeProductRepo) GetByID(ctx context.Context, id string) (*productdom.Product, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	for i := range r.products {
		if r.products[i].ID == id {
			p := r.products[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) List(ctx context.Context, f productdom.Filter, limit int, after productdom.Cursor) ([]productdom.Product, productdom.Cursor, error) {
	if r.listErr != nil {
		return nil, nil, r.listErr
	}

	rows := r.filtered(f)
	start := 0
	if after != nil {
		start = after.(int) + 1
	}
	if start >= len(rows) {
		return nil, nil, nil
	}

	end := start + limit
	if end > len(rows) {
		end = len(rows)
	}

	out := make([]productdom.Product, end-start)
	copy(out, rows[start:end])
	return out, end - 1, nil
}

func (r *fakeProductRepo) Count(ctx context.Context, f productdom.Filter) (int64, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	return int64(len(r.filtered(f))), nil
}

// fifteenProducts: ids p01..p15, every third one featured, alternating
// categories c1/c2.
func fifteenProducts() []productdom.Product {
	out := make([]productdom.Product, 0, 15)
	for i := 1; i <= 15; i++ {
		cat := "c1"
		if i%2 == 0 {
			cat = "c2"
		}
		out = append(out, productdom.Product{
			ID:         fmt.Sprintf("p%02d", i),
			Name:       fmt.Sprintf("product %d", i),
			Price:      float64(i),
			CategoryID: cat,
			Featured:   i%3 == 0,
		})
	}
	return out
}

func ids(ps []productdom.Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func TestFetchPageFirstPage(t *testing.T) {
	uc := NewCatalogUsecase(&fakeProductRepo{products: fifteenProducts()})

	page, err := uc.FetchPage(context.Background(), PageQuery{})
	require.NoError(t, err)

	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Products, 10)
	assert.Equal(t, "p01", page.Products[0].ID)
	assert.Equal(t, "p10", page.Products[9].ID)
}

func TestFetchPageSecondPageNoOverlap(t *testing.T) {
	uc := NewCatalogUsecase(&fakeProductRepo{products: fifteenProducts()})

	first, err := uc.FetchPage(context.Background(), PageQuery{Page: 1})
	require.NoError(t, err)
	second, err := uc.FetchPage(context.Background(), PageQuery{Page: 2})
	require.NoError(t, err)

	assert.Equal(t, 2, second.CurrentPage)
	require.Len(t, second.Products, 5)
	assert.Equal(t, "p11", second.Products[0].ID)
	assert.Equal(t, "p15", second.Products[4].ID)

	seen := map[string]bool{}
	for _, id := range ids(first.Products) {
		seen[id] = true
	}
	for _, id := range ids(second.Products) {
		assert.Falsef(t, seen[id], "product %s appears on both pages", id)
	}
}

func TestFetchPagePastTheEnd(t *testing.T) {
	uc := NewCatalogUsecase(&fakeProductRepo{products: fifteenProducts()})

	page, err := uc.FetchPage(context.Background(), PageQuery{Page: 3})
	require.NoError(t, err)
	assert.Empty(t, page.Products)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 3, page.CurrentPage)
}

func TestFetchPageFilteredCount(t *testing.T) {
	uc := NewCatalogUsecase(&fakeProductRepo{products: fifteenProducts()})

	// 5 featured products (p03, p06, p09, p12, p15): one page of 10
	page, err := uc.FetchPage(context.Background(), PageQuery{Featured: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"p03", "p06", "p09", "p12", "p15"}, ids(page.Products))
	assert.Equal(t, 1, page.TotalPages, "count must run under the same filters as the page")

	// 8 products in c1 with page size 3: ceil(8/3) = 3 pages
	page, err = uc.FetchPage(context.Background(), PageQuery{CategoryID: "c1", PageSize: 3, Page: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Products, 2)
	assert.Equal(t, "p13", page.Products[0].ID)
	assert.Equal(t, "p15", page.Products[1].ID)
}

func TestFetchPageDefaults(t *testing.T) {
	uc := NewCatalogUsecase(&fakeProductRepo{products: fifteenProducts()})

	page, err := uc.FetchPage(context.Background(), PageQuery{Page: 0, PageSize: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Len(t, page.Products, DefaultPageSize)
}

func TestFetchPageInvalidArguments(t *testing.T) {
	uc := NewCatalogUsecase(&fakeProductRepo{products: fifteenProducts()})

	_, err := uc.FetchPage(context.Background(), PageQuery{Page: -1})
	assert.ErrorIs(t, err, ErrCatalogInvalidArgument)

	_, err = uc.FetchPage(context.Background(), PageQuery{PageSize: -5})
	assert.ErrorIs(t, err, ErrCatalogInvalidArgument)
}

func TestFetchPageWrapsStoreErrors(t *testing.T) {
	boom := errors.New("deadline exceeded")

	_, err := NewCatalogUsecase(&fakeProductRepo{listErr: boom}).
		FetchPage(context.Background(), PageQuery{})
	assert.ErrorIs(t, err, ErrCatalogQuery)

	_, err = NewCatalogUsecase(&fakeProductRepo{products: fifteenProducts(), countErr: boom}).
		FetchPage(context.Background(), PageQuery{})
	assert.ErrorIs(t, err, ErrCatalogQuery)
}

func TestGetProduct(t *testing.T) {
	uc := NewCatalogUsecase(&fakeProductRepo{products: fifteenProducts()})

	p, err := uc.GetProduct(context.Background(), "p07")
	require.NoError(t, err)
	assert.Equal(t, "product 7", p.Name)

	_, err = uc.GetProduct(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = uc.GetProduct(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrCatalogInvalidArgument)
}

type fakeImageResolver struct {
	prefix string
	err    error
}

func (r *fakeImageResolver) ResolveImageURL(ctx context.Context, ref string) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	return r.prefix + ref, nil
}

func TestFetchPageResolvesImageURLs(t *testing.T) {
	products := fifteenProducts()
	products[0].ImageURL = "gs://bucket/p01.png"

	uc := NewCatalogUsecaseWithImages(
		&fakeProductRepo{products: products},
		&fakeImageResolver{prefix: "https://cdn.example.com/"},
	)

	page, err := uc.FetchPage(context.Background(), PageQuery{})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/gs://bucket/p01.png", page.Products[0].ImageURL)
}

func TestFetchPageImageResolveFailureKeepsRef(t *testing.T) {
	products := fifteenProducts()
	products[0].ImageURL = "gs://bucket/p01.png"

	uc := NewCatalogUsecaseWithImages(
		&fakeProductRepo{products: products},
		&fakeImageResolver{err: errors.New("signer unavailable")},
	)

	page, err := uc.FetchPage(context.Background(), PageQuery{})
	require.NoError(t, err)
	assert.Equal(t, "gs://bucket/p01.png", page.Products[0].ImageURL)
}
