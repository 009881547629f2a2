// internal/adapters/out/firestore/cart_store_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	cartdom "github.com/alpesh377/e-commerce-store/internal/domain/cart"
)

// CartStoreFS implements cart.RemoteStore using Firestore.
//
// Collection design:
// - collection: carts
// - docId: uid (docId is the source of truth)
// - fields: items (array of line maps)
//
// Writes only ever touch "items" (merge set); anything else another writer
// puts on the document is preserved.
type CartStoreFS struct {
	Client *firestore.Client
}

func NewCartStoreFS(client *firestore.Client) *CartStoreFS {
	return &CartStoreFS{Client: client}
}

func (s *CartStoreFS) col() *firestore.CollectionRef {
	return s.Client.Collection("carts")
}

type cartDoc struct {
	Items cartdom.Lines `firestore:"items"`
}

// Get returns (nil, nil) if no cart document exists for uid (nil policy).
func (s *CartStoreFS) Get(ctx context.Context, uid string) (*cartdom.Snapshot, error) {
	if s == nil || s.Client == nil {
		return nil, errors.New("cart_store_fs: firestore client is nil")
	}

	id := strings.TrimSpace(uid)
	if id == "" {
		return nil, errors.New("cart_store_fs: uid is empty")
	}

	snap, err := s.col().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, err
	}

	return decodeCartSnapshot(snap)
}

// Subscribe pushes the current document state and every change for uid until
// cancel is called or ctx is done. A missing document is delivered as an
// empty snapshot.
func (s *CartStoreFS) Subscribe(ctx context.Context, uid string, fn cartdom.SnapshotFunc) (cancel func(), err error) {
	if s == nil || s.Client == nil {
		return nil, errors.New("cart_store_fs: firestore client is nil")
	}
	if fn == nil {
		return nil, errors.New("cart_store_fs: snapshot callback is nil")
	}

	id := strings.TrimSpace(uid)
	if id == "" {
		return nil, errors.New("cart_store_fs: uid is empty")
	}

	sctx, stop := context.WithCancel(ctx)
	it := s.col().Doc(id).Snapshots(sctx)

	go func() {
		defer it.Stop()
		for {
			snap, err := it.Next()
			if err != nil {
				// Cancellation ends the stream silently; anything else is
				// reported once and the stream is considered dead.
				if sctx.Err() != nil || status.Code(err) == codes.Canceled {
					return
				}
				fn(nil, err)
				return
			}

			if !snap.Exists() {
				fn(&cartdom.Snapshot{Items: cartdom.Lines{}}, nil)
				continue
			}

			decoded, derr := decodeCartSnapshot(snap)
			if derr != nil {
				fn(nil, derr)
				continue
			}
			fn(decoded, nil)
		}
	}()

	return stop, nil
}

// Merge upserts {items: items} with merge semantics (setDoc merge:true
// equivalent): only the items field is written.
func (s *CartStoreFS) Merge(ctx context.Context, uid string, items cartdom.Lines) error {
	if s == nil || s.Client == nil {
		return errors.New("cart_store_fs: firestore client is nil")
	}

	id := strings.TrimSpace(uid)
	if id == "" {
		return errors.New("cart_store_fs: uid is empty")
	}

	if items == nil {
		// clear() writes an empty list, not a missing field
		items = cartdom.Lines{}
	}

	_, err := s.col().Doc(id).Set(ctx, map[string]any{"items": items}, firestore.MergeAll)
	return err
}

func decodeCartSnapshot(snap *firestore.DocumentSnapshot) (*cartdom.Snapshot, error) {
	if snap == nil {
		return nil, errors.New("cart_store_fs: snapshot is nil")
	}

	var doc cartDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, err
	}
	if doc.Items == nil {
		doc.Items = cartdom.Lines{}
	}

	// Drop lines a foreign writer may have corrupted; quantity >= 1 is a
	// hard invariant on this side.
	items := make(cartdom.Lines, 0, len(doc.Items))
	for _, ln := range doc.Items {
		if strings.TrimSpace(ln.ID) == "" || ln.Quantity < 1 {
			continue
		}
		items = append(items, ln)
	}

	return &cartdom.Snapshot{Items: items}, nil
}
