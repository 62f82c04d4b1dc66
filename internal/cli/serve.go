package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/booking-engine/internal/audit"
	dbpkg "github.com/BruksfildServices01/booking-engine/internal/db"
	"github.com/BruksfildServices01/booking-engine/internal/infra/cache"
	"github.com/BruksfildServices01/booking-engine/internal/observability/metrics"
	"github.com/BruksfildServices01/booking-engine/internal/routes"
)

type ServeOptions struct {
	*RootOptions
	// SkipMigrate starts the API without touching the schema.
	SkipMigrate bool
}

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.SkipMigrate, "skip-migrate", false, "do not migrate the schema on start")

	return cmd
}

func runServe(ctx context.Context, opts *ServeOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, logger, db, err := bootstrap(opts.RootOptions)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if !opts.SkipMigrate {
		if err := dbpkg.Migrate(db); err != nil {
			return err
		}
	}

	rdb, err := cache.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, logger)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	auditDispatcher := audit.NewDispatcher(audit.New(db), logger.Named("audit"))
	defer auditDispatcher.Close()

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, routes.Options{
		DB:             db,
		Config:         cfg,
		Logger:         logger,
		Cache:          cache.NewAvailabilityCache(rdb, cfg.AvailabilityCacheTTL, logger),
		Idempotency:    cache.NewIdempotencyStore(rdb, cfg.IdempotencyTTL, logger),
		Audit:          auditDispatcher,
		Metrics:        metrics.NewBookingMetrics(registry),
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server running", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
