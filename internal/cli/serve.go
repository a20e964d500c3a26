package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/cartolab/mapgrid/pkg/cache"
	"github.com/cartolab/mapgrid/pkg/manifest"
	"github.com/cartolab/mapgrid/pkg/pipeline"
)

// serveCommand creates the serve command for hosting a composed view over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		redisAddr string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "serve [manifest.toml]",
		Short: "Serve a composed view over HTTP",
		Long: `Serve a composed view over HTTP.

The manifest is re-read on every request, so edits show up on reload.
Rendered artifacts are cached by manifest content; point --redis at a
Redis instance to share that cache across server replicas.

Routes:
  GET /            the composed HTML page
  GET /plan.json   the serialized plan
  GET /wiring.svg  the sync wiring diagram
  GET /healthz     liveness probe`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), args[0], addr, redisAddr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "redis address for a shared artifact cache (host:port)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runServe builds the router and blocks until the context is cancelled.
func (c *CLI) runServe(ctx context.Context, input, addr, redisAddr string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache, redisAddr)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	srv := &server{
		manifestPath: input,
		runner:       runner,
		logger:       c.Logger,
	}

	// Fail fast on a broken manifest before binding the listener.
	if _, err := manifest.Load(input); err != nil {
		return err
	}

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("serving view", "manifest", input, "addr", addr)
		if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
		return ctx.Err()
	}
}

// server handles HTTP requests for one manifest-backed view.
type server struct {
	manifestPath string
	runner       *pipeline.Runner
	logger       *log.Logger
}

// routes builds the chi router.
func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(withLogger(req.Context(), s.logger)))
		})
	})

	r.Get("/", s.handleArtifact(pipeline.FormatHTML, "text/html; charset=utf-8"))
	r.Get("/plan.json", s.handleArtifact(pipeline.FormatJSON, "application/json"))
	r.Get("/wiring.svg", s.handleArtifact(pipeline.FormatSVG, "image/svg+xml"))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}

// handleArtifact composes the manifest and responds with one rendered format.
func (s *server) handleArtifact(format, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		logger := loggerFromContext(req.Context())
		prog := newProgress(logger)

		data, err := s.compose(req.Context(), format)
		if err != nil {
			logger.Error("compose failed", "format", format, "err", err)
			http.Error(w, "composition failed: "+err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(data)
		prog.done(fmt.Sprintf("Served %s", format))
	}
}

// compose re-reads the manifest and renders the requested format. The
// artifact cache absorbs repeated requests for an unchanged manifest.
func (s *server) compose(ctx context.Context, format string) ([]byte, error) {
	data, err := os.ReadFile(s.manifestPath)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	m, err := manifest.Parse(data)
	if err != nil {
		return nil, err
	}

	opts := pipeline.LatticeOptions()
	if spec := m.SyncSpec(); !spec.IsZero() {
		opts.Sync = spec
	}
	opts.Ncol = m.Ncol
	opts.SyncCursor = m.SyncCursor
	opts.NoInitialSync = m.NoInitialSync
	opts.Title = m.Title
	opts.Formats = []string{format}
	opts.SourceHash = cache.Hash(data)

	result, err := s.runner.Compose(ctx, m.Widgets(), opts)
	if err != nil {
		return nil, err
	}
	return result.Artifacts[format], nil
}
