// internal/adapters/out/firestore/product_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	productdom "github.com/alpesh377/e-commerce-store/internal/domain/product"
)

// ProductRepositoryFS implements product.Repository using Firestore.
//
// Collection design:
// - collection: products
// - docId: product id (docId is the source of truth)
// - single sort key: createdAt desc
type ProductRepositoryFS struct {
	Client *firestore.Client
}

func NewProductRepositoryFS(client *firestore.Client) *ProductRepositoryFS {
	return &ProductRepositoryFS{Client: client}
}

func (r *ProductRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("products")
}

// query builds the filtered, ordered base query shared by List and Count.
func (r *ProductRepositoryFS) query(f productdom.Filter) firestore.Query {
	q := r.col().Query
	if f.Featured {
		q = q.Where("featured", "==", true)
	}
	if cid := strings.TrimSpace(f.CategoryID); cid != "" {
		q = q.Where("categoryId", "==", cid)
	}
	return q.OrderBy("createdAt", firestore.Desc)
}

// GetByID returns (nil, nil) if not found (nil policy).
func (r *ProductRepositoryFS) GetByID(ctx context.Context, id string) (*productdom.Product, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("product_repository_fs: firestore client is nil")
	}

	pid := strings.TrimSpace(id)
	if pid == "" {
		return nil, errors.New("product_repository_fs: id is empty")
	}

	snap, err := r.col().Doc(pid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, err
	}

	var p productdom.Product
	if err := snap.DataTo(&p); err != nil {
		return nil, err
	}
	// docId is source of truth even when the body has no id field.
	p.ID = pid
	return &p, nil
}

// List returns up to limit products under f, newest first.
// after must be a *firestore.DocumentSnapshot previously returned as a
// cursor by this repository (nil = from the top).
func (r *ProductRepositoryFS) List(ctx context.Context, f productdom.Filter, limit int, after productdom.Cursor) ([]productdom.Product, productdom.Cursor, error) {
	if r == nil || r.Client == nil {
		return nil, nil, errors.New("product_repository_fs: firestore client is nil")
	}
	if limit <= 0 {
		return nil, nil, errors.New("product_repository_fs: limit must be >= 1")
	}

	q := r.query(f)
	if after != nil {
		snap, ok := after.(*firestore.DocumentSnapshot)
		if !ok || snap == nil {
			return nil, nil, errors.New("product_repository_fs: cursor is not a document snapshot")
		}
		q = q.StartAfter(snap)
	}
	q = q.Limit(limit)

	iter := q.Documents(ctx)
	defer iter.Stop()

	var (
		out  []productdom.Product
		last *firestore.DocumentSnapshot
	)
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, nil, err
		}

		var p productdom.Product
		if err := snap.DataTo(&p); err != nil {
			return nil, nil, err
		}
		p.ID = snap.Ref.ID

		out = append(out, p)
		last = snap
	}

	if last == nil {
		return out, nil, nil
	}
	return out, last, nil
}

// Count returns the number of products matching f.
// Reads document refs only (Select with no fields), not full documents.
func (r *ProductRepositoryFS) Count(ctx context.Context, f productdom.Filter) (int64, error) {
	if r == nil || r.Client == nil {
		return 0, errors.New("product_repository_fs: firestore client is nil")
	}

	iter := r.query(f).Select().Documents(ctx)
	defer iter.Stop()

	var n int64
	for {
		_, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return 0, err
		}
		n++
	}
	return n, nil
}
