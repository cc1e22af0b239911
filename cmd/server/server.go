package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/janisto/hello-metrics/internal/http/health"
	"github.com/janisto/hello-metrics/internal/http/routes"
	"github.com/janisto/hello-metrics/internal/platform/api"
	"github.com/janisto/hello-metrics/internal/platform/config"
	applog "github.com/janisto/hello-metrics/internal/platform/logging"
	"github.com/janisto/hello-metrics/internal/platform/metrics"
	appmiddleware "github.com/janisto/hello-metrics/internal/platform/middleware"
	"github.com/janisto/hello-metrics/internal/platform/respond"
)

const (
	apiTitle        = "Hello Metrics API"
	shutdownTimeout = 10 * time.Second
)

// newRouter assembles the middleware stack and every route. The metrics
// middleware sits outermost so recovered panics and CORS preflights are
// counted with their final status.
func newRouter(cfg config.Config, bundle *metrics.Bundle) chi.Router {
	router := chi.NewRouter()
	router.NotFound(respond.NotFoundHandler())
	router.MethodNotAllowed(respond.MethodNotAllowedHandler())

	router.Use(
		bundle.Middleware(),
		appmiddleware.Security(api.DocsPath),
		appmiddleware.Vary(),
		appmiddleware.CORS(cfg.CORSOrigins...),
		appmiddleware.RequestID(),
		// Trusts X-Forwarded-For; deploy behind a proxy that sets it.
		chimiddleware.RealIP,
		chimiddleware.RequestSize(1<<20),
		applog.RequestLogger(),
		applog.AccessLogger(),
		respond.Recoverer(),
	)

	router.Get("/health", health.Handler(Version))
	router.Method(http.MethodGet, bundle.Path(), bundle.Handler())
	routes.Register(api.New(router, apiTitle, Version))
	return router
}

func newServer(cfg config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    64 << 10,
	}
}

// run binds srv.Addr and serves until ctx is cancelled.
func run(ctx context.Context, srv *http.Server) error {
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", srv.Addr, err)
	}
	return serve(ctx, srv, ln)
}

// serve runs srv on ln and performs a graceful shutdown once ctx is done.
func serve(ctx context.Context, srv *http.Server, ln net.Listener) error {
	serveErr := make(chan error, 1)
	go func() {
		applog.LogInfo(ctx, "server listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
		applog.LogInfo(context.Background(), "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	applog.LogInfo(context.Background(), "server exited")
	return nil
}
