// internal/application/usecase/session_registry.go
package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	cartdom "github.com/alpesh377/e-commerce-store/internal/domain/cart"
	identitydom "github.com/alpesh377/e-commerce-store/internal/domain/identity"
)

var (
	ErrRegistryClosed = errors.New("session_registry: closed")
)

// Session is one storefront browsing session: an identity feed plus the cart
// engine following it. Guests and signed-in users share the same shape; the
// engine reacts to what the feed publishes.
type Session struct {
	ID   string
	Feed *identitydom.Feed
	Cart *CartEngine

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) seen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// SessionRegistry owns session lifecycles: creation on first sight, identity
// transitions via the feed, disposal on expiry or shutdown.
type SessionRegistry struct {
	store cartdom.RemoteStore
	ttl   time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
	closed   bool

	ctx    context.Context
	cancel context.CancelFunc
}

func NewSessionRegistry(store cartdom.RemoteStore, ttl time.Duration) *SessionRegistry {
	if ttl <= 0 {
		ttl = time.Hour
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &SessionRegistry{
		store:    store,
		ttl:      ttl,
		sessions: map[string]*Session{},
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Resolve returns the session for id, creating a guest session when id is
// empty or unknown. The returned session id must go back to the client
// (X-Session-Id) so subsequent requests hit the same cart.
func (r *SessionRegistry) Resolve(id string) (*Session, error) {
	if r == nil {
		return nil, errors.New("session_registry: nil")
	}

	now := time.Now()
	sid := strings.TrimSpace(id)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrRegistryClosed
	}

	if sid != "" {
		if s, ok := r.sessions[sid]; ok {
			s.touch(now)
			return s, nil
		}
	}
	if sid == "" {
		sid = uuid.NewString()
	}

	feed := identitydom.NewFeed()
	engine := NewCartEngine(r.store, feed)
	if err := engine.Start(r.ctx); err != nil {
		return nil, err
	}

	s := &Session{
		ID:       sid,
		Feed:     feed,
		Cart:     engine,
		lastSeen: now,
	}
	r.sessions[sid] = s

	log.Printf("[session_registry] session created id=%s", sid)
	return s, nil
}

// Attach publishes a signed-in identity into the session's feed. The cart
// engine performs the hard cutover (guest items are discarded, the remote
// cart for the identity is loaded).
func (r *SessionRegistry) Attach(sessionID string, ident *identitydom.Identity) error {
	s, err := r.Resolve(sessionID)
	if err != nil {
		return err
	}
	s.Feed.Set(ident)
	return nil
}

// Detach publishes a sign-out (guest) transition.
func (r *SessionRegistry) Detach(sessionID string) error {
	s, err := r.Resolve(sessionID)
	if err != nil {
		return err
	}
	s.Feed.Set(nil)
	return nil
}

// Sweep disposes sessions idle longer than the TTL. Run it periodically.
func (r *SessionRegistry) Sweep(now time.Time) int {
	r.mu.Lock()
	var expired []*Session
	for id, s := range r.sessions {
		if now.Sub(s.seen()) > r.ttl {
			expired = append(expired, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range expired {
		s.Cart.Close()
		log.Printf("[session_registry] session expired id=%s", s.ID)
	}
	return len(expired)
}

// Len reports live sessions (for logging/health).
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Close disposes every session and refuses further resolves.
func (r *SessionRegistry) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	all := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		all = append(all, s)
	}
	r.sessions = map[string]*Session{}
	r.mu.Unlock()

	for _, s := range all {
		s.Cart.Close()
	}
	r.cancel()
}
