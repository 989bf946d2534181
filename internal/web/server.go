// Package web provides the HTTP server and handlers for shelfstock.
package web

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/shelfstock/internal/config"
	"github.com/JonMunkholm/shelfstock/internal/core"
	"github.com/JonMunkholm/shelfstock/internal/metrics"
	mw "github.com/JonMunkholm/shelfstock/internal/web/middleware"
)

// Inventory is the core surface the handlers use. *core.Service satisfies it.
type Inventory interface {
	Ping(ctx context.Context) error

	CreateSection(ctx context.Context, name string) (core.Section, error)
	ListSections(ctx context.Context) ([]core.Section, error)
	DeleteSection(ctx context.Context, id int64) error

	CreateType(ctx context.Context, sectionID int64, name string) (core.Type, error)
	ListTypes(ctx context.Context, sectionID int64) ([]core.Type, error)
	DeleteType(ctx context.Context, id int64) error

	CreateProduct(ctx context.Context, typeID int64, name string) (core.Product, error)
	ListProducts(ctx context.Context, typeID int64) ([]core.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	SearchProducts(ctx context.Context, term string) ([]core.Product, error)

	CreateBatch(ctx context.Context, productID int64, in core.BatchInput) (core.Batch, error)
	ListBatches(ctx context.Context, productID int64) ([]core.Batch, error)
	GetBatch(ctx context.Context, id int64) (core.Batch, error)
	DeleteBatch(ctx context.Context, id int64) error

	Sell(ctx context.Context, batchID int64, quantity int) (core.Batch, error)
	Restock(ctx context.Context, batchID int64, quantity int) (core.Batch, error)
	SetShelfQuantity(ctx context.Context, batchID int64, value int) (core.Batch, error)

	BatchesExpiringWithin(ctx context.Context, days int) ([]core.Batch, error)
	Report(ctx context.Context) ([]core.ReportNode, error)
	ExportCSV(ctx context.Context, w io.Writer) error
	ImportCSV(ctx context.Context, r io.Reader) (core.ImportSummary, error)
}

// Authenticator verifies login credentials. *auth.Store satisfies it.
type Authenticator interface {
	Verify(ctx context.Context, name, password string) (bool, error)
}

// Server is the HTTP server for shelfstock.
type Server struct {
	inv     Inventory
	auth    Authenticator
	cfg     *config.Config
	router  *chi.Mux
	server  *http.Server
	limiter *rateLimiter
}

// NewServer creates a new Server instance.
func NewServer(inv Inventory, auth Authenticator, cfg *config.Config) *Server {
	s := &Server{
		inv:    inv,
		auth:   auth,
		cfg:    cfg,
		router: chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(mw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(metrics.Middleware)

	s.router.Use(securityHeaders(s.cfg.Security.EnableCSP))

	if s.cfg.Rate.Enabled {
		s.limiter = newRateLimiter(s.cfg.Rate.RequestsPerMinute, time.Minute)
		s.router.Use(s.limiter.middleware)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Handle("/metrics", metrics.Handler())

	// Pages
	s.router.With(middleware.Timeout(s.cfg.Server.RequestTimeout)).Get("/report", s.handleReportPage)

	s.router.Route("/api", func(r chi.Router) {
		r.With(middleware.Timeout(s.cfg.Server.RequestTimeout)).Post("/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(mw.APIKeyAuth(&s.cfg.Security))

			// Import gets its own, longer deadline.
			r.With(middleware.Timeout(s.cfg.Import.Timeout)).Post("/import", s.handleImport)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))

				// Catalog
				r.Get("/sections", s.handleListSections)
				r.Post("/sections", s.handleCreateSection)
				r.Delete("/sections/{id}", s.handleDeleteSection)

				r.Get("/sections/{id}/types", s.handleListTypes)
				r.Post("/sections/{id}/types", s.handleCreateType)
				r.Delete("/types/{id}", s.handleDeleteType)

				r.Get("/types/{id}/products", s.handleListProducts)
				r.Post("/types/{id}/products", s.handleCreateProduct)
				r.Get("/products/search", s.handleSearchProducts)
				r.Delete("/products/{id}", s.handleDeleteProduct)

				r.Get("/products/{id}/batches", s.handleListBatches)
				r.Post("/products/{id}/batches", s.handleCreateBatch)
				r.Get("/batches/expiring", s.handleExpiring)
				r.Get("/batches/{id}", s.handleGetBatch)
				r.Delete("/batches/{id}", s.handleDeleteBatch)

				// Stock
				r.Post("/batches/{id}/sell", s.handleSell)
				r.Post("/batches/{id}/restock", s.handleRestock)
				r.Put("/batches/{id}/shelf", s.handleSetShelf)

				// Report and export
				r.Get("/report", s.handleReport)
				r.Get("/export", s.handleExport)
			})
		})
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	sc := s.cfg.Server
	s.server = &http.Server{
		Addr:         sc.Addr(),
		Handler:      s.router,
		ReadTimeout:  sc.ReadTimeout,
		WriteTimeout: max(sc.WriteTimeout, s.cfg.Import.Timeout),
		IdleTimeout:  sc.IdleTimeout,
	}

	slog.Info("starting server", "addr", sc.Addr())
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.limiter != nil {
		s.limiter.stop()
	}
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.inv.Ping(r.Context()); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// securityHeaders adds security headers to all responses.
func securityHeaders(enableCSP bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

			// The report page uses only inline styles.
			if enableCSP {
				h.Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'; frame-ancestors 'none'")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// rateLimiter implements a fixed-window request limit per client IP.
type rateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     int           // requests per window
	window   time.Duration // time window
	now      func() time.Time
	done     chan struct{}
	stopOnce sync.Once
}

type visitor struct {
	tokens    int
	lastReset time.Time
}

// newRateLimiter creates a rate limiter with the specified rate per window.
func newRateLimiter(rate int, window time.Duration) *rateLimiter {
	rl := &rateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate,
		window:   window,
		now:      time.Now,
		done:     make(chan struct{}),
	}
	go rl.cleanup()
	return rl
}

// cleanup removes stale visitor entries every window until stopped.
func (rl *rateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			rl.mu.Lock()
			for ip, v := range rl.visitors {
				if rl.now().Sub(v.lastReset) > rl.window*2 {
					delete(rl.visitors, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.stopOnce.Do(func() { close(rl.done) })
}

// allow checks if the request should be allowed and consumes a token if so.
func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	v, exists := rl.visitors[ip]
	if !exists || now.Sub(v.lastReset) > rl.window {
		rl.visitors[ip] = &visitor{tokens: rl.rate - 1, lastReset: now}
		return true
	}

	if v.tokens <= 0 {
		return false
	}
	v.tokens--
	return true
}

// middleware rate limits by RemoteAddr, which TrustedRealIP has already
// resolved to the client address.
func (rl *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(mw.ClientIP(r)) {
			w.Header().Set("Retry-After", "60")
			writeJSON(w, http.StatusTooManyRequests, ErrorResponse{
				Error:   "Too many requests",
				Message: "Too many requests",
				Action:  "Please wait a moment before trying again",
				Code:    "RATE001",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}
