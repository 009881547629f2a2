// cmd/storefront/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/alpesh377/e-commerce-store/internal/adapters/in/http/middleware"
	storefrontDI "github.com/alpesh377/e-commerce-store/internal/platform/di/storefront"
	shared "github.com/alpesh377/e-commerce-store/internal/platform/di/shared"
)

// atomicHandler allows swapping the underlying handler at runtime safely.
type atomicHandler struct {
	v atomic.Value // stores http.Handler
}

func newAtomicHandler(initial http.Handler) *atomicHandler {
	ah := &atomicHandler{}
	if initial == nil {
		initial = http.NotFoundHandler()
	}
	ah.v.Store(initial)
	return ah
}

func (h *atomicHandler) Store(next http.Handler) {
	if next == nil {
		return
	}
	h.v.Store(next)
}

func (h *atomicHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cur := h.v.Load()
	if cur == nil {
		http.NotFound(w, r)
		return
	}
	cur.(http.Handler).ServeHTTP(w, r)
}

const sessionSweepInterval = 5 * time.Minute

func main() {
	ctx := context.Background()

	// ─────────────────────────────────────────────────────────────
	// Port resolution: env PORT (Cloud Run) → 8080
	// ─────────────────────────────────────────────────────────────
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	// ─────────────────────────────────────────────────────────────
	// Start listening ASAP with lightweight mux (healthz only)
	// ─────────────────────────────────────────────────────────────
	healthMux := http.NewServeMux()
	healthMux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	switcher := newAtomicHandler(middleware.CORS(healthMux))

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      switcher,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ─────────────────────────────────────────────────────────────
	// Lifetime management (infra/container)
	// ─────────────────────────────────────────────────────────────
	var infraHolder atomic.Value // stores *shared.Infra (or nil)
	infraHolder.Store((*shared.Infra)(nil))

	var contHolder atomic.Value // stores *storefrontDI.Container (or nil)
	contHolder.Store((*storefrontDI.Container)(nil))

	shuttingDown := make(chan struct{})

	// ─────────────────────────────────────────────────────────────
	// Graceful shutdown
	// ─────────────────────────────────────────────────────────────
	idleConnsClosed := make(chan struct{})
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		sig := <-c

		close(shuttingDown)
		log.Printf("[boot] received signal: %v; shutting down...", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[boot] server shutdown error: %v", err)
		}

		// Close storefront container (sessions, cart subscriptions)
		if v := contHolder.Load(); v != nil {
			if cont, ok := v.(*storefrontDI.Container); ok && cont != nil {
				log.Printf("[boot] closing storefront container resources...")
				cont.Close()
			}
			contHolder.Store((*storefrontDI.Container)(nil))
		}

		// Close infra
		if v := infraHolder.Load(); v != nil {
			if infra, ok := v.(*shared.Infra); ok && infra != nil {
				log.Printf("[boot] closing infra resources...")
				infra.Close()
				infraHolder.Store((*shared.Infra)(nil))
			}
		}

		close(idleConnsClosed)
	}()

	// Start server NOW (Cloud Run startup requirement)
	go func() {
		log.Printf("[boot] listening on :%s (storefront)", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[boot] server error: %v", err)
		}
	}()

	// ─────────────────────────────────────────────────────────────
	// Heavy DI init in background; then swap handler to full app mux
	// ─────────────────────────────────────────────────────────────
	go func() {
		initCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		defer cancel()

		// 1) shared infra (storefront service owns it)
		infra, err := shared.NewInfra(initCtx)
		if err != nil {
			log.Printf("[boot] WARN: shared infra init failed: %v (serving /healthz only)", err)
			return
		}
		infraHolder.Store(infra)

		// 2) storefront container (required)
		cont, err := storefrontDI.NewContainer(initCtx, infra)
		if err != nil {
			infra.Close()
			infraHolder.Store((*shared.Infra)(nil))
			log.Printf("[boot] WARN: storefront di init failed: %v (serving /healthz only)", err)
			return
		}
		contHolder.Store(cont)

		select {
		case <-shuttingDown:
			cont.Close()
			infra.Close()
			return
		default:
		}

		// 3) expire idle guest sessions while the server lives
		go func() {
			t := time.NewTicker(sessionSweepInterval)
			defer t.Stop()
			for {
				select {
				case <-shuttingDown:
					return
				case now := <-t.C:
					cont.Sessions.Sweep(now)
				}
			}
		}()

		switcher.Store(cont.Handler)
		log.Printf("[boot] handler switched to storefront router")
	}()

	<-idleConnsClosed
	log.Printf("[boot] server stopped")
}
