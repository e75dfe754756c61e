package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skyrelief/dispatch/internal/api"
	"skyrelief/dispatch/internal/common"
	"skyrelief/dispatch/internal/config"
	"skyrelief/dispatch/internal/constants"
	"skyrelief/dispatch/internal/db"
	"skyrelief/dispatch/internal/logging"
	"skyrelief/dispatch/internal/metrics"
	"skyrelief/dispatch/internal/routes"
	"skyrelief/dispatch/internal/workers"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	if err := logging.Init(cfg.AppEnv, cfg.Logging.Level); err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("Dispatch starting up",
		"environment", cfg.AppEnv,
		"db_driver", cfg.DB.Driver,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	if err := run(cfg); err != nil {
		logging.Error("Server stopped with error", "error", err)
		log.Fatalf("❌ %v", err)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metricsReg := metrics.NewMetricsRegistry(promReg)

	orm, err := db.Connect(cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Migrate(orm); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	if err := db.InstrumentQueries(orm, metricsReg); err != nil {
		return fmt.Errorf("failed to instrument queries: %w", err)
	}

	sqlDB, err := db.OpenSQLX(cfg.DB, orm)
	if err != nil {
		return fmt.Errorf("failed to open stats connection: %w", err)
	}
	defer sqlDB.Close()

	var redisClient *redis.Client
	if cfg.Cache.Backend == "redis" || cfg.Events.Backend == "redis" {
		redisClient = common.NewRedisClient(cfg.Redis)
		defer redisClient.Close()
	}

	cache := newCache(cfg, redisClient)
	defer cache.Close()

	events, err := newEventQueue(ctx, cfg, redisClient)
	if err != nil {
		return err
	}
	defer events.Close()

	deps := api.InitDependencies(cfg, orm, sqlDB, cache, events, metricsReg)

	container := workers.InitWorkers(events, deps.Services.History, metricsReg, cfg.Events)
	workersDone := make(chan error, 1)
	go func() {
		workersDone <- container.Run(ctx)
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           routes.RegisterRoutes(deps, cfg, promReg, time.Now()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logging.Info("Server starting", "port", cfg.Server.Port, "environment", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		stop()
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	logging.Info("Shutdown signal received", "timeout", cfg.Server.ShutdownTimeout.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("HTTP shutdown failed", "error", err)
	}

	select {
	case err := <-workersDone:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error("Workers stopped with error", "error", err)
		}
	case <-shutdownCtx.Done():
		logging.Warn("Workers did not stop before shutdown timeout")
	}

	logging.Info("Server stopped")
	return nil
}

func newCache(cfg *config.Config, client *redis.Client) common.CacheInterface {
	if cfg.Cache.Backend == "redis" {
		logging.Info("Using redis cache", "addr", cfg.Redis.Addr())
		return common.NewRedisCacheService(client, "dispatch:")
	}
	logging.Info("Using in-memory cache", "ttl", cfg.Cache.TTL.String())
	return common.NewCacheService(cfg.Cache.TTL, 2*cfg.Cache.TTL)
}

func newEventQueue(ctx context.Context, cfg *config.Config, client *redis.Client) (common.EventQueue, error) {
	if cfg.Events.Backend == "redis" {
		q := common.NewRedisQueueService(client, constants.MissionEventStream, constants.HistoryWorkerGroup)
		if err := q.EnsureGroup(ctx); err != nil {
			return nil, fmt.Errorf("failed to create consumer group: %w", err)
		}
		logging.Info("Using redis event stream", "stream", constants.MissionEventStream)
		return q, nil
	}
	logging.Info("Using in-memory event queue", "buffer", cfg.Events.BufferSize)
	return common.NewMemoryEventQueue(cfg.Events.BufferSize), nil
}
