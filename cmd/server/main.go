package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/janisto/hello-metrics/internal/platform/config"
	applog "github.com/janisto/hello-metrics/internal/platform/logging"
	"github.com/janisto/hello-metrics/internal/platform/metrics"
)

// Version can be overridden at build time: -ldflags "-X main.Version=1.2.3"
var Version = "dev"

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		applog.LogFatal(ctx, "configuration error", err)
	}
	if err := applog.Configure(cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "logger init error: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = applog.Sync()
	}()

	bundle := metrics.New(cfg.Metrics)
	srv := newServer(cfg, newRouter(cfg, bundle))

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	applog.LogInfo(ctx, "starting", zap.String("version", Version), zap.String("metricsPath", bundle.Path()))
	if err := run(ctx, srv); err != nil {
		applog.LogFatal(ctx, "server failed", err, zap.String("addr", srv.Addr))
	}
}
