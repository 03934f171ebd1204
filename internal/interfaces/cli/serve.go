package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/turtacn/rxndb-explorer/internal/application/explorer"
	"github.com/turtacn/rxndb-explorer/internal/config"
	"github.com/turtacn/rxndb-explorer/internal/infrastructure/database/redis"
	"github.com/turtacn/rxndb-explorer/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/rxndb-explorer/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/rxndb-explorer/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/rxndb-explorer/internal/interfaces/http"
	"github.com/turtacn/rxndb-explorer/internal/interfaces/http/handlers"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the explorer API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliCtx, err := getContext(cmd)
			if err != nil {
				return err
			}
			cfg := cliCtx.cfg

			logger, err := logging.NewLogger(logging.LogConfig{
				Level:       cfg.Log.Level,
				Format:      cfg.Log.Format,
				OutputPaths: []string{cfg.Log.Output},
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return RunServer(ctx, cfg, cliCtx.configPath, logger)
		},
	}
}

// RunServer assembles the full service stack from cfg and serves until ctx
// is cancelled.  Redis and Kafka are optional: an empty redis.addr disables
// caching, an empty kafka.brokers list disables event publishing.  When
// configPath is non-empty the file is watched and every change triggers a
// dataset reload.
func RunServer(ctx context.Context, cfg *config.Config, configPath string, logger logging.Logger) error {
	repo, cleanup, err := newRepository(ctx, &cliContext{cfg: cfg, logger: logger})
	if err != nil {
		return err
	}
	defer cleanup()

	collector := prometheus.NewCollector(prometheus.CollectorConfig{
		Namespace:         "rxndb",
		EnableGoMetrics:   true,
		EnableProcMetrics: true,
	})
	metrics := prometheus.NewAppMetrics(collector)

	opts := []explorer.Option{
		explorer.WithMetrics(metrics),
		explorer.WithAllowEmpty(cfg.Dataset.AllowEmpty),
		explorer.WithSource(cfg.Dataset.Source),
	}
	checks := map[string]handlers.ReadinessCheck{}

	if cfg.Redis.Addr != "" {
		client, err := redis.NewClient(ctx, cfg.Redis, logger)
		if err != nil {
			return err
		}
		defer client.Close()
		cache := redis.NewCache(client, logger, redis.WithDefaultTTL(cfg.Explorer.CacheTTL))
		opts = append(opts, explorer.WithCache(cache))
		checks["redis"] = client.Ping
	}

	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafka.NewProducer(cfg.Kafka, logger)
		if err != nil {
			return err
		}
		defer producer.Close()
		opts = append(opts, explorer.WithPublisher(producer))
	}

	svc, err := explorer.NewService(ctx, repo, cfg.Explorer, logger, opts...)
	if err != nil {
		return err
	}
	checks["dataset"] = func(ctx context.Context) error {
		_, err := svc.Filter(ctx, explorer.FilterQuery{})
		return err
	}

	if configPath != "" {
		config.Watch(configPath, func(*config.Config) {
			if err := svc.Reload(ctx); err != nil {
				logger.Error("reload after config change failed", logging.Err(err))
			}
		})
	}

	router := http.NewRouter(http.RouterDeps{
		Service:   svc,
		Logger:    logger,
		Metrics:   metrics,
		Collector: collector,
		Checks:    checks,
	})
	server := http.NewServer(cfg.Server, router, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Run() }()

	select {
	case <-ctx.Done():
		return server.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}
