package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hamed0406/sitesync/internal/backend"
	"github.com/hamed0406/sitesync/internal/config"
	"github.com/hamed0406/sitesync/internal/httpapi"
	apimw "github.com/hamed0406/sitesync/internal/httpapi/middleware"
	"github.com/hamed0406/sitesync/internal/logging"
	"github.com/hamed0406/sitesync/internal/probe"
	"github.com/hamed0406/sitesync/internal/repo"
	"github.com/hamed0406/sitesync/internal/repo/memory"
	"github.com/hamed0406/sitesync/internal/repo/postgres"
	"github.com/hamed0406/sitesync/internal/scheduler"
	"github.com/hamed0406/sitesync/internal/telemetry"
)

func main() {
	cfg := config.FromEnv()
	logger, err := logging.NewLogger(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	warnings, err := cfg.Validate()
	for _, w := range warnings {
		logger.Warn("config_warning", zap.String("detail", w))
	}
	if err != nil {
		logger.Fatal("config_invalid", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("api_exit", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	provider, err := telemetry.NewProvider(cfg.MetricsEnabled)
	if err != nil {
		return err
	}
	defer provider.Shutdown(context.Background())
	metrics, err := telemetry.NewBackendMetrics(provider)
	if err != nil {
		return err
	}

	var store repo.SiteStore
	if cfg.DatabaseURL != "" {
		pg, err := postgres.New(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return err
		}
		defer pg.Close()
		if err := pg.EnsureSchema(ctx); err != nil {
			return err
		}
		logger.Info("store_postgres")
		store = pg
	} else {
		logger.Info("store_memory")
		store = memory.New()
	}

	engine := backend.New(store,
		backend.WithLogger(logger),
		backend.WithMetrics(metrics),
		backend.WithHistoryLimit(cfg.HistoryLimit),
		backend.WithProbeOptions(probe.Options{Timeout: cfg.HTTPTimeout, RetryBackoff: cfg.RetryBackoff}),
	)
	defer engine.Close()

	api := httpapi.NewServer(logger, engine)
	keys := apimw.Keys{Public: cfg.PublicAPIKeys, Admin: cfg.AdminAPIKeys}
	limits := httpapi.Limits{
		PublicRPM:   cfg.PublicRPM,
		PublicBurst: cfg.PublicBurst,
		AdminRPM:    cfg.AdminRPM,
		AdminBurst:  cfg.AdminBurst,
	}
	var metricsHandler http.Handler
	if cfg.MetricsEnabled {
		metricsHandler = provider.Handler()
	}

	// a scheduled check may run every retry, so give it room past one probe timeout
	checkTimeout := cfg.HTTPTimeout * time.Duration(cfg.RetryAttempts+2)
	rechecker := scheduler.NewRechecker(logger, engine, tickFor(cfg.CheckInterval), checkTimeout, cfg.MaxConcurrentChecks, cfg.CheckInterval)

	g, gctx := errgroup.WithContext(ctx)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Router(keys, metricsHandler, limits),
		ReadHeaderTimeout: 10 * time.Second,
		// event streams end when the daemon stops instead of holding Shutdown open
		BaseContext: func(net.Listener) context.Context { return gctx },
	}
	g.Go(func() error {
		logger.Info("api_listen", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		rechecker.Run(gctx)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("api_shutdown")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// tickFor picks how often the rechecker looks for due monitors. Per-monitor
// intervals are honoured to within one tick.
func tickFor(interval time.Duration) time.Duration {
	switch {
	case interval <= 0:
		return 0
	case interval < 5*time.Second:
		return interval
	default:
		return 5 * time.Second
	}
}
