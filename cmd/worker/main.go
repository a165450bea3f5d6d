package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/xdieuxd/BOOKNEST-ETL/internal/cron"
	"github.com/xdieuxd/BOOKNEST-ETL/internal/dedupe"
	"github.com/xdieuxd/BOOKNEST-ETL/internal/pipeline"
	"github.com/xdieuxd/BOOKNEST-ETL/internal/promote"
	"github.com/xdieuxd/BOOKNEST-ETL/internal/staging"
	"github.com/xdieuxd/BOOKNEST-ETL/internal/transform"
	"github.com/xdieuxd/BOOKNEST-ETL/internal/transport"
	"github.com/xdieuxd/BOOKNEST-ETL/pkg/config"
	"github.com/xdieuxd/BOOKNEST-ETL/pkg/db"
	"github.com/xdieuxd/BOOKNEST-ETL/pkg/logger"
	"github.com/xdieuxd/BOOKNEST-ETL/pkg/metrics"
	"github.com/xdieuxd/BOOKNEST-ETL/pkg/migrate"
	"github.com/xdieuxd/BOOKNEST-ETL/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	cfg.Service.Kind = "worker"

	logg = logger.New(logger.Options{
		ServiceName: "worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	stagedStore := staging.NewStore(dbClient.DB())

	promoteService, err := promote.NewService(
		promote.NewRepository(dbClient.DB()),
		stagedStore,
		transform.New(),
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create promotion service", err)
		os.Exit(1)
	}

	pipelineMetrics := metrics.NewPipelineMetrics(prometheus.DefaultRegisterer)

	publisher := transport.NewErrorPublisher(cfg.Kafka)
	defer func() {
		if err := publisher.Close(); err != nil {
			logg.Error(context.Background(), "error closing error publisher", err)
		}
	}()

	orchestrator, err := pipeline.New(pipeline.Params{
		Config:   cfg.Pipeline,
		Staged:   stagedStore,
		Promoter: promoteService,
		Sink:     publisher,
		Logger:   logg,
		Metrics:  pipelineMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create pipeline", err)
		os.Exit(1)
	}

	guard := dedupe.NewGuard(redisClient, cfg.Dedupe, logg)
	consumer := transport.NewConsumer(cfg.Kafka, orchestrator, guard, logg)
	defer func() {
		if err := consumer.Close(); err != nil {
			logg.Error(context.Background(), "error closing consumer", err)
		}
	}()

	lock, err := cron.NewRedisLock(redisClient, cfg.Cron.LockKey, cfg.Cron.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	sweepJob, err := cron.NewPromotionSweepJob(promoteService, logg, pipelineMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create promotion sweep job", err)
		os.Exit(1)
	}
	reportJob, err := cron.NewStagingReportJob(stagedStore, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create staging report job", err)
		os.Exit(1)
	}

	cronService, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(sweepJob, reportJob),
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Spec:     cfg.Cron.SweepSpec,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runCtx := logg.WithFields(ctx, map[string]any{
		"env":   cfg.App.Env,
		"topic": cfg.Kafka.RawTopic,
		"group": cfg.Kafka.GroupID,
	})
	logg.Info(runCtx, "starting worker")

	orchestrator.Start(ctx)

	errCh := make(chan error, 2)
	go func() {
		errCh <- consumer.Run(ctx)
	}()
	go func() {
		errCh <- cronService.Run(ctx)
	}()

	select {
	case <-ctx.Done():
		logg.Info(runCtx, "shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logg.Error(runCtx, "worker loop stopped unexpectedly", err)
		}
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	orchestrator.Stop(shutdownCtx)
	logg.Info(runCtx, "worker shut down gracefully")
}
