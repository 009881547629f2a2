// internal/application/usecase/cart_engine.go
package usecase

import (
	"context"
	"errors"
	"log"
	"sync"

	cartdom "github.com/alpesh377/e-commerce-store/internal/domain/cart"
	identitydom "github.com/alpesh377/e-commerce-store/internal/domain/identity"
	productdom "github.com/alpesh377/e-commerce-store/internal/domain/product"
)

var (
	ErrEngineClosed = errors.New("cart_engine: closed")
)

// EngineState is the cart engine lifecycle state.
type EngineState int

const (
	// StateUninitialized: constructed, Start not called yet.
	StateUninitialized EngineState = iota
	// StateGuest: no identity; cart lives only in session memory.
	StateGuest
	// StateLoading: identity present, first remote snapshot not applied yet.
	StateLoading
	// StateSynced: identity present, mirroring the remote document.
	StateSynced
)

func (s EngineState) String() string {
	switch s {
	case StateGuest:
		return "guest"
	case StateLoading:
		return "loading"
	case StateSynced:
		return "synced"
	default:
		return "uninitialized"
	}
}

// CartEngine owns one session's in-memory cart and mirrors it to the remote
// per-user cart document.
//
// Identity protocol:
//   - identity resolves to none        -> Guest, items discarded
//   - identity resolves to uid         -> Loading(uid), remote subscription
//   - each snapshot replaces items wholesale -> Synced(uid)
//   - identity change is a hard cutover: old subscription cancelled, items
//     discarded, never merged into the new identity's cart
//
// Every mutation applies to memory first (optimistic); the resulting line
// list is then queued for a remote merge when an identity is present. A
// failed merge is logged and never rolled back.
//
// Single-writer rule: all mutations funnel through this engine; items are
// never mutated externally.
type CartEngine struct {
	store cartdom.RemoteStore
	feed  *identitydom.Feed

	mu    sync.Mutex
	state EngineState
	lines cartdom.Lines
	ident *identitydom.Identity

	// gen increments on every identity transition. Remote snapshots carry
	// the gen their subscription was opened under; a stale gen is discarded
	// without touching state.
	gen uint64

	unsubFeed   func()
	unsubRemote func()
	closed      bool

	outbox *mergeOutbox
}

// NewCartEngine wires an engine to its remote store and identity feed.
// Call Start to begin following the feed and Close to release everything.
func NewCartEngine(store cartdom.RemoteStore, feed *identitydom.Feed) *CartEngine {
	return &CartEngine{
		store:  store,
		feed:   feed,
		state:  StateUninitialized,
		outbox: newMergeOutbox(store),
	}
}

// Start subscribes to the identity feed. The feed delivers the current
// identity immediately, so the engine leaves Uninitialized before Start
// returns.
func (e *CartEngine) Start(ctx context.Context) error {
	if e == nil || e.store == nil || e.feed == nil {
		return errors.New("cart_engine: not configured")
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrEngineClosed
	}
	e.mu.Unlock()

	e.outbox.start(ctx)
	e.unsubFeed = e.feed.Subscribe(func(id *identitydom.Identity) {
		e.onIdentity(ctx, id)
	})
	return nil
}

// Close cancels the identity and remote subscriptions and stops the outbox.
// Snapshots or merges landing after Close never mutate state.
func (e *CartEngine) Close() {
	if e == nil {
		return
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.gen++
	unsubRemote := e.unsubRemote
	e.unsubRemote = nil
	e.mu.Unlock()

	if e.unsubFeed != nil {
		e.unsubFeed()
	}
	if unsubRemote != nil {
		unsubRemote()
	}
	e.outbox.stop()
}

// onIdentity is the hard cutover: cancel the previous remote subscription,
// discard current items, re-enter Loading (or Guest).
func (e *CartEngine) onIdentity(ctx context.Context, id *identitydom.Identity) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}

	e.gen++
	myGen := e.gen
	prevUnsub := e.unsubRemote
	e.unsubRemote = nil
	e.lines = nil
	e.ident = nil
	e.outbox.reset()

	if !id.Valid() {
		e.state = StateGuest
		e.mu.Unlock()
		if prevUnsub != nil {
			prevUnsub()
		}
		return
	}

	e.state = StateLoading
	e.ident = id
	e.mu.Unlock()

	if prevUnsub != nil {
		prevUnsub()
	}

	cancel, err := e.store.Subscribe(ctx, id.UID, func(snap *cartdom.Snapshot, err error) {
		e.onSnapshot(myGen, snap, err)
	})
	if err != nil {
		// Treat like the remote reporting an error: keep the cart usable
		// with an empty line list.
		log.Printf("[cart_engine] WARN: subscribe failed uid=%s: %v", id.UID, err)
		e.onSnapshot(myGen, nil, err)
		return
	}

	e.mu.Lock()
	if e.closed || e.gen != myGen {
		// Identity moved on while we were subscribing.
		e.mu.Unlock()
		cancel()
		return
	}
	e.unsubRemote = cancel
	e.mu.Unlock()
}

// onSnapshot applies one remote snapshot. Snapshots for an identity that is
// no longer current (stale gen) are discarded.
func (e *CartEngine) onSnapshot(gen uint64, snap *cartdom.Snapshot, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || gen != e.gen {
		return
	}

	if err != nil {
		// Remote read failure degrades to an empty cart (original behavior);
		// local mutations keep working and keep being queued.
		log.Printf("[cart_engine] WARN: cart snapshot error: %v", err)
		e.lines = cartdom.Lines{}
		e.state = StateSynced
		return
	}

	if snap == nil {
		e.lines = cartdom.Lines{}
	} else {
		e.lines = snap.Items.Clone()
	}
	e.state = StateSynced
}

// AddLine accumulates qty onto the line for p.ID or appends a new line with
// the product snapshot. qty must be >= 1.
func (e *CartEngine) AddLine(p productdom.Product, qty int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEngineClosed
	}

	next, err := e.lines.Add(p, qty)
	if err != nil {
		return err
	}
	e.lines = next
	e.queueMergeLocked()
	return nil
}

// RemoveLine drops the line for productID; unknown id is a no-op.
func (e *CartEngine) RemoveLine(productID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEngineClosed
	}

	e.lines = e.lines.Remove(productID)
	e.queueMergeLocked()
	return nil
}

// SetQuantity replaces the quantity of the line for productID.
// qty <= 0 removes the line; a zero quantity is never stored.
func (e *CartEngine) SetQuantity(productID string, qty int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEngineClosed
	}

	e.lines = e.lines.SetQuantity(productID, qty)
	e.queueMergeLocked()
	return nil
}

// Clear empties the cart (and writes an empty list remotely when signed in).
func (e *CartEngine) Clear() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEngineClosed
	}

	e.lines = cartdom.Lines{}
	e.queueMergeLocked()
	return nil
}

// queueMergeLocked mirrors the current line list to the remote store.
// Guests have no mirror; nothing is queued.
func (e *CartEngine) queueMergeLocked() {
	if e.ident == nil {
		return
	}
	e.outbox.enqueue(e.ident.UID, e.lines.Clone())
}

// Lines returns a copy of the current line list (insertion order).
func (e *CartEngine) Lines() cartdom.Lines {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lines.Clone()
}

// Total is the sum of price x quantity; recomputed per call.
func (e *CartEngine) Total() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lines.Total()
}

// ItemCount is the sum of quantities; recomputed per call.
func (e *CartEngine) ItemCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lines.ItemCount()
}

// State reports the lifecycle state (for handlers/logging).
func (e *CartEngine) State() EngineState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Identity returns the identity the cart is currently bound to (nil = guest).
func (e *CartEngine) Identity() *identitydom.Identity {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ident
}
