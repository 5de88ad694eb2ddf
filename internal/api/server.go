package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/uiforge/uiforge/internal/history"
	"github.com/uiforge/uiforge/internal/log"
	"github.com/uiforge/uiforge/internal/pipeline"
)

const (
	// DefaultAddr is the default address for the HTTP server.
	DefaultAddr = ":3001"

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	ShutdownTimeout = 10 * time.Second

	// ReadHeaderTimeout is the timeout for reading request headers.
	// This prevents Slowloris attacks (CWE-400).
	ReadHeaderTimeout = 10 * time.Second

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout = 30 * time.Second

	// WriteTimeout is the maximum duration for writing the response. It is
	// generous because a generate request spans several model calls, each
	// of which may be retried with backoff.
	WriteTimeout = 5 * time.Minute

	// IdleTimeout is the maximum wait for the next keep-alive request.
	IdleTimeout = 120 * time.Second
)

// ServerConfig contains configuration for creating the API server.
type ServerConfig struct {
	Logger       log.Logger
	Orchestrator *pipeline.Orchestrator // Optional: nil means no API key is configured
	Store        *history.Store         // Required
	HasAPIKey    bool
	CORSOrigins  []string // Allowed origins for CORS; "*" allows any
	RateLimit    float64  // Requests/second per IP (0 = default 5)
	RateBurst    int      // Rate limiter burst size per IP (0 = default 10)
	TrustProxy   bool     // Trust X-Real-IP/X-Forwarded-For headers
}

// Server is the JSON API HTTP server.
type Server struct {
	handler http.Handler
	logger  log.Logger
}

// NewServer creates a new API server with all routes configured.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Store == nil {
		return nil, errors.New("version store is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.NewNop()
	}

	ph := &pipelineHandler{orch: cfg.Orchestrator, logger: logger}
	vh := &versionsHandler{store: cfg.Store, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/generate", ph.generate)
	mux.HandleFunc("POST /api/modify", ph.modify)
	mux.HandleFunc("GET /api/versions/{sessionId}", vh.list)
	mux.HandleFunc("GET /api/version/{sessionId}/{versionId}", vh.get)
	mux.HandleFunc("POST /api/rollback", vh.rollback)
	mux.HandleFunc("GET /api/health", healthHandler(cfg.HasAPIKey, logger))

	limit := cfg.RateLimit
	if limit <= 0 {
		limit = 5
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 10
	}
	rl := newRateLimiter(limit, burst)

	// Middleware stack (outermost first):
	//   Recovery → Logging → CORS → RateLimit → Routes
	// CORS must be before RateLimit so preflight OPTIONS gets proper headers.
	var handler http.Handler = mux
	handler = rateLimitMiddleware(rl, cfg.TrustProxy, logger)(handler)
	handler = corsMiddleware(cfg.CORSOrigins)(handler)
	handler = loggingMiddleware(logger)(handler)
	handler = recoveryMiddleware(logger)(handler)

	return &Server{handler: handler, logger: logger}, nil
}

// Handler returns the HTTP handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run starts the HTTP server and blocks until the context is cancelled,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: ReadHeaderTimeout,
		ReadTimeout:       ReadTimeout,
		WriteTimeout:      WriteTimeout,
		IdleTimeout:       IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
