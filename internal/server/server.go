// Package server exposes the ledger and the extraction pipeline over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"swap-ledger/internal/ledger"
	"swap-ledger/internal/observability"
	"swap-ledger/internal/orchestrator"
)

// Options for creating Server.
type Options struct {
	Addr         string
	Ledger       *ledger.Service
	Orchestrator *orchestrator.Orchestrator
	Broadcaster  *Broadcaster

	// Optional
	Metrics *observability.Metrics
	Logger  zerolog.Logger

	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxUploadBytes int64
}

// Server represents an HTTP server with all routes configured.
type Server struct {
	ledger       *ledger.Service
	orchestrator *orchestrator.Orchestrator
	broadcaster  *Broadcaster
	metrics      *observability.Metrics
	logger       zerolog.Logger

	maxUploadBytes int64
	mux            *http.ServeMux
	server         *http.Server
}

// Defaults applied when the corresponding option is zero.
const (
	DefaultReadTimeout    = 30 * time.Second
	DefaultWriteTimeout   = 60 * time.Second
	DefaultMaxUploadBytes = 10 << 20
)

// NewServer creates a new HTTP server with configured routes.
func NewServer(opts Options) *Server {
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = DefaultReadTimeout
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = DefaultWriteTimeout
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}

	mux := http.NewServeMux()

	s := &Server{
		ledger:         opts.Ledger,
		orchestrator:   opts.Orchestrator,
		broadcaster:    opts.Broadcaster,
		metrics:        opts.Metrics,
		logger:         opts.Logger.With().Str("component", "server").Logger(),
		maxUploadBytes: opts.MaxUploadBytes,
		mux:            mux,
		server: &http.Server{
			Addr:         opts.Addr,
			Handler:      mux,
			ReadTimeout:  opts.ReadTimeout,
			WriteTimeout: opts.WriteTimeout,
			IdleTimeout:  60 * time.Second,
		},
	}

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /api/transactions/extract", s.timed("extract", s.handleExtract))
	s.mux.HandleFunc("POST /api/transactions", s.timed("add_transaction", s.handleAddTransaction))
	s.mux.HandleFunc("GET /api/transactions", s.timed("list_transactions", s.handleListTransactions))
	s.mux.HandleFunc("POST /api/tokens", s.timed("register_token", s.handleRegisterToken))
	s.mux.HandleFunc("GET /api/tokens/{name}", s.timed("get_token", s.handleGetToken))

	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.Handle("GET /metrics", observability.Handler())

	if s.broadcaster != nil {
		s.mux.HandleFunc("GET /ws/transactions", s.broadcaster.Handler())
	}
}

// timed wraps a handler with per-route latency recording.
func (s *Server) timed(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		h(w, r)
		s.metrics.RecordRequest(route, r.Method, time.Since(start))
	}
}

// Handler exposes the route table for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("http server listening")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.broadcaster != nil {
		s.broadcaster.Close()
	}
	return s.server.Shutdown(ctx)
}
