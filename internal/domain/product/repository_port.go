// internal/domain/product/repository_port.go
package product

import "context"

// Filter restricts a catalog read.
// Zero value means "no filter" (all products).
type Filter struct {
	// Featured limits results to featured products when true.
	// false means "do not filter on featured" (not "featured == false").
	Featured bool

	// CategoryID limits results to one category when non-empty.
	CategoryID string
}

// Cursor is an opaque paging position produced by List.
// Firestore-backed implementations return a document snapshot; fakes may
// return whatever lets them resume (e.g. an index).
type Cursor = any

// Repository is the read-only persistence port for the catalog.
//
// Storage (Firestore):
// - collection: products
// - docId: product id
// - ordering: createdAt desc (single sort key)
type Repository interface {
	// GetByID returns (nil, nil) if the product does not exist (nil policy).
	GetByID(ctx context.Context, id string) (*Product, error)

	// List returns up to limit products under f, newest first, starting
	// strictly after cursor when cursor is non-nil. The returned cursor
	// marks the last record of this batch and is nil when the batch is
	// empty.
	List(ctx context.Context, f Filter, limit int, after Cursor) ([]Product, Cursor, error)

	// Count returns the number of products matching f.
	Count(ctx context.Context, f Filter) (int64, error)
}
