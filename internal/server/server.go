// Package server exposes playback control, catalog search and status over
// HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/tessro/tunewave/internal/catalog"
	"github.com/tessro/tunewave/internal/core"
	"github.com/tessro/tunewave/internal/playback"
)

const (
	serviceName     = "tunewave"
	requestTimeout  = 15 * time.Second
	shutdownTimeout = 5 * time.Second
)

// RendererInfo reports on the renderer process. *mpv.Supervisor
// implements it.
type RendererInfo interface {
	Info() core.RendererInfo
}

// Options configures a Server.
type Options struct {
	Controller     *playback.Controller
	Reporter       *playback.Reporter
	Catalog        catalog.Catalog
	Renderer       RendererInfo
	SearchLimit    int
	StreamInterval time.Duration
	// CatalogTimeout bounds /search and /trending. Zero means the default
	// request timeout.
	CatalogTimeout time.Duration
	Logger         zerolog.Logger
}

// Server holds the handlers' dependencies.
type Server struct {
	ctrl        *playback.Controller
	reporter    *playback.Reporter
	catalog     catalog.Catalog
	renderer    RendererInfo
	searchLimit int
	catalogWait time.Duration
	hub         *Hub
	log         zerolog.Logger
}

// New creates a server.
func New(opts Options) *Server {
	s := &Server{
		ctrl:        opts.Controller,
		reporter:    opts.Reporter,
		catalog:     opts.Catalog,
		renderer:    opts.Renderer,
		searchLimit: opts.SearchLimit,
		catalogWait: opts.CatalogTimeout,
		log:         opts.Logger,
	}
	if s.catalogWait <= 0 {
		s.catalogWait = requestTimeout
	}
	s.hub = NewHub(s.reporter.Status, opts.StreamInterval, opts.Logger)
	return s
}

// Router creates a chi.Router with every route. middlewares wrap all of
// them; request handlers other than /ws also get a timeout, which for the
// catalog routes follows CatalogTimeout.
func (s *Server) Router(middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))

		r.Get("/health", s.handleHealth)
		r.Get("/play", s.handlePlay)
		r.Post("/play", s.handlePlay)
		r.Get("/control/{cmd}", s.handleControl)
		r.Post("/control/{cmd}", s.handleControl)
		r.Get("/seek", s.handleSeek)
		r.Post("/seek", s.handleSeek)
		r.Get("/status", s.handleStatus)
		r.Get("/playlist", s.handlePlaylist)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(s.catalogWait))

		r.Get("/trending", s.handleTrending)
		r.Get("/search", s.handleSearch)
	})

	r.Get("/ws", s.handleWS)

	return r
}

// DefaultMiddleware is the stack `tunewave serve` installs.
func DefaultMiddleware(log zerolog.Logger) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.RequestID,
		middleware.RealIP,
		RequestLogger(log),
		middleware.Recoverer,
	}
}

// RunStream drives the websocket status stream until ctx is done.
func (s *Server) RunStream(ctx context.Context) {
	s.hub.Run(ctx)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(DefaultMiddleware(s.log)...),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.RunStream(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("listening")
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.log.Info().Msg("shutting down")
	return httpSrv.Shutdown(shutdownCtx)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
