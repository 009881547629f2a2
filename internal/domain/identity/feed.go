// internal/domain/identity/feed.go
package identity

import "sync"

// Feed is a session-scoped current-identity stream: one holder, many
// subscribers. Set publishes a transition (nil = switched to guest) to every
// subscriber; Subscribe delivers the current value immediately so a late
// subscriber never misses the resolved state.
type Feed struct {
	mu   sync.Mutex
	cur  *Identity
	subs map[int]func(*Identity)
	next int
}

func NewFeed() *Feed {
	return &Feed{subs: map[int]func(*Identity){}}
}

// Current returns the identity as of the last Set (nil = guest).
func (f *Feed) Current() *Identity {
	if f == nil {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cur
}

// Set stores id and notifies subscribers. Callbacks run outside the feed
// lock; delivery order across subscribers is unspecified.
func (f *Feed) Set(id *Identity) {
	if f == nil {
		return
	}
	f.mu.Lock()
	f.cur = id
	fns := make([]func(*Identity), 0, len(f.subs))
	for _, fn := range f.subs {
		fns = append(fns, fn)
	}
	f.mu.Unlock()

	for _, fn := range fns {
		fn(id)
	}
}

// Subscribe registers fn and invokes it once with the current value.
// The returned cancel is idempotent.
func (f *Feed) Subscribe(fn func(*Identity)) (cancel func()) {
	if f == nil || fn == nil {
		return func() {}
	}

	f.mu.Lock()
	key := f.next
	f.next++
	f.subs[key] = fn
	cur := f.cur
	f.mu.Unlock()

	fn(cur)

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, key)
			f.mu.Unlock()
		})
	}
}
