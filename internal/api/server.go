// Package api implements the hallgen plan-serving HTTP API.
//
// The API compiles facility configurations into plans and renders site
// plans on demand, memoizing both through a shared cache so identical
// requests across replicas hit Redis instead of recomputing. Every
// request carries a UUID request ID for log correlation.
//
// # Endpoints
//
//   - GET  /healthz    liveness probe with build information
//   - POST /v1/plan    compile a configuration into a plan (JSON)
//   - POST /v1/render  compile and render a top-down site plan (SVG)
package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/hallgen/hallgen/pkg/cache"
)

// DefaultTTL is how long cached plans and artifacts live.
const DefaultTTL = 24 * time.Hour

// Server serves the plan API. It is stateless apart from the cache and
// logger; one Server handles concurrent requests safely.
type Server struct {
	cache  cache.Cache
	keyer  cache.Keyer
	logger *log.Logger
	ttl    time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithTTL overrides the cache TTL for plans and artifacts.
func WithTTL(ttl time.Duration) Option {
	return func(s *Server) { s.ttl = ttl }
}

// WithKeyer overrides the cache keyer.
func WithKeyer(k cache.Keyer) Option {
	return func(s *Server) { s.keyer = k }
}

// NewServer creates a server backed by the given cache.
// A nil cache disables caching; a nil logger discards logs.
func NewServer(c cache.Cache, logger *log.Logger, opts ...Option) *Server {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		cache:  c,
		keyer:  cache.NewDefaultKeyer(),
		logger: logger,
		ttl:    DefaultTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the HTTP handler with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(s.requestID)
	r.Use(s.logRequests)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/plan", s.handlePlan)
		r.Post("/render", s.handleRender)
	})

	return r
}
