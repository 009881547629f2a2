// internal/domain/cart/store_port.go
package cart

import "context"

// Snapshot is one remote cart state delivered by the store.
type Snapshot struct {
	Items Lines
}

// SnapshotFunc receives pushed snapshots. Exactly one of snap/err is
// meaningful per call. A missing document is delivered as an empty snapshot,
// not an error.
type SnapshotFunc func(snap *Snapshot, err error)

// RemoteStore is the persistence port for the per-user cart mirror.
//
// Storage (Firestore):
// - collection: carts
// - docId: uid
// - only the "items" field is ever written (merge-semantics upsert);
//   any other fields on the document are preserved
type RemoteStore interface {
	// Get returns (nil, nil) if no cart document exists for uid (nil policy).
	Get(ctx context.Context, uid string) (*Snapshot, error)

	// Subscribe pushes the current snapshot and every subsequent change for
	// uid until cancel is called or ctx is done. Delivery order follows the
	// store's change order.
	Subscribe(ctx context.Context, uid string, fn SnapshotFunc) (cancel func(), err error)

	// Merge upserts {items: items} into uid's cart document with merge
	// semantics.
	Merge(ctx context.Context, uid string, items Lines) error
}
