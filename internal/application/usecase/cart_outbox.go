// internal/application/usecase/cart_outbox.go
package usecase

import (
	"context"
	"log"
	"sync"

	cartdom "github.com/alpesh377/e-commerce-store/internal/domain/cart"
)

// mergeJob is one pending remote merge: the full resulting line list of the
// most recent mutation for uid.
type mergeJob struct {
	uid   string
	items cartdom.Lines
}

// mergeOutbox serializes remote cart merges for one engine.
//
// Rules:
//   - at most one in-flight merge at a time; a later mutation's merge can
//     never be overtaken by an earlier mutation's slower merge
//   - every merge carries the full line list, so queued-but-unsent jobs
//     coalesce into a single pending slot (latest wins) without reordering
//   - merge failures are logged and dropped; the in-memory cart is the
//     optimistic source of truth
//   - reset drops the pending slot on identity cutover; an in-flight merge
//     for the previous identity is allowed to finish (it writes that
//     identity's own document)
type mergeOutbox struct {
	store cartdom.RemoteStore

	mu      sync.Mutex
	pending *mergeJob
	wake    chan struct{}
	stopped bool

	stopOnce sync.Once
	done     chan struct{}
}

func newMergeOutbox(store cartdom.RemoteStore) *mergeOutbox {
	return &mergeOutbox{
		store: store,
		wake:  make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

// start launches the single writer goroutine.
func (o *mergeOutbox) start(ctx context.Context) {
	go o.run(ctx)
}

func (o *mergeOutbox) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-o.done:
			return
		case <-o.wake:
		}

		for {
			o.mu.Lock()
			job := o.pending
			o.pending = nil
			o.mu.Unlock()

			if job == nil {
				break
			}

			// The only writer: issuing merges here is what serializes them.
			if err := o.store.Merge(ctx, job.uid, job.items); err != nil {
				log.Printf("[cart_outbox] WARN: cart merge failed uid=%s lines=%d: %v", job.uid, len(job.items), err)
			}
		}
	}
}

// enqueue overwrites the pending slot with the latest full line list.
func (o *mergeOutbox) enqueue(uid string, items cartdom.Lines) {
	o.mu.Lock()
	if o.stopped {
		o.mu.Unlock()
		return
	}
	o.pending = &mergeJob{uid: uid, items: items}
	o.mu.Unlock()

	select {
	case o.wake <- struct{}{}:
	default:
	}
}

// reset drops any not-yet-sent job (identity cutover).
func (o *mergeOutbox) reset() {
	o.mu.Lock()
	o.pending = nil
	o.mu.Unlock()
}

// stop ends the writer; pending work is dropped.
func (o *mergeOutbox) stop() {
	o.stopOnce.Do(func() {
		o.mu.Lock()
		o.stopped = true
		o.pending = nil
		o.mu.Unlock()
		close(o.done)
	})
}
