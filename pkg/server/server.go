// Package server exposes form rendering and validation over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-formkit/pkg/locale"
	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/schema"
)

// DefaultMaxBodyBytes caps request bodies.
const DefaultMaxBodyBytes = 1 << 20

// Option configures a Server.
type Option func(*config)

type config struct {
	renderers    *render.Registry
	loader       schema.Loader
	assets       fs.FS
	logger       *slog.Logger
	locale       locale.Context
	maxBodyBytes int64
	columns      int
}

// WithRenderers sets the renderers requests can pick from.
func WithRenderers(renderers *render.Registry) Option {
	return func(cfg *config) {
		cfg.renderers = renderers
	}
}

// WithLoader enables GET /forms/{name}, resolving names through loader as
// fs.FS sources.
func WithLoader(loader schema.Loader) Option {
	return func(cfg *config) {
		cfg.loader = loader
	}
}

// WithAssets serves files under /assets/.
func WithAssets(files fs.FS) Option {
	return func(cfg *config) {
		cfg.assets = files
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithLocale sets the locale forms are built with.
func WithLocale(ctx locale.Context) Option {
	return func(cfg *config) {
		cfg.locale = ctx
	}
}

// WithMaxBodyBytes caps request bodies. Values below one are ignored.
func WithMaxBodyBytes(n int64) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.maxBodyBytes = n
		}
	}
}

// WithColumns sets the column count used when a request does not pick one.
func WithColumns(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.columns = n
		}
	}
}

// Server routes form requests. It is safe for concurrent use; every request
// builds its own form.
type Server struct {
	cfg    config
	router chi.Router
}

// New builds a server. At least one renderer is required.
func New(options ...Option) (*Server, error) {
	cfg := config{
		logger:       slog.Default(),
		locale:       locale.Default(),
		maxBodyBytes: DefaultMaxBodyBytes,
		columns:      1,
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.renderers == nil || len(cfg.renderers.List()) == 0 {
		return nil, errors.New("server: at least one renderer is required")
	}

	s := &Server{cfg: cfg}
	s.router = s.routes()
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.cfg.logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/renderers", s.listRenderers)
	r.Post("/render", s.render)
	r.Post("/validate", s.validate)
	r.Post("/schemas/validate", s.validateSchema)
	if s.cfg.loader != nil {
		r.Get("/forms/{name}", s.renderNamed)
	}
	if s.cfg.assets != nil {
		r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(s.cfg.assets))))
	}
	return r
}

// Config holds listener settings for Run.
type Config struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Run serves handler on cfg.Addr until ctx is cancelled, then shuts down
// gracefully.
func Run(ctx context.Context, cfg Config, handler http.Handler, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server: listening", "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: listen: %w", err)
	case <-ctx.Done():
	}

	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	logger.Info("server: shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("server: request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
