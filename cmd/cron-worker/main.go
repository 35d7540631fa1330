package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Ali-desu/Samsic-projet-stage/internal/cron"
	"github.com/Ali-desu/Samsic-projet-stage/internal/notifications"
	"github.com/Ali-desu/Samsic-projet-stage/internal/reports"
	"github.com/Ali-desu/Samsic-projet-stage/pkg/config"
	"github.com/Ali-desu/Samsic-projet-stage/pkg/db"
	"github.com/Ali-desu/Samsic-projet-stage/pkg/logger"
	"github.com/Ali-desu/Samsic-projet-stage/pkg/metrics"
	"github.com/Ali-desu/Samsic-projet-stage/pkg/migrate"
	"github.com/Ali-desu/Samsic-projet-stage/pkg/redis"
)

const notificationQueueSize = 256

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
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

	notificationsRepo := notifications.NewRepository(dbClient.DB())
	dispatcher, err := notifications.NewDispatcher(notificationsRepo, logg, notificationQueueSize)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications dispatcher", err)
		os.Exit(1)
	}

	reportsService, err := reports.NewService(reports.NewRepository(dbClient.DB()), dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create reports service", err)
		os.Exit(1)
	}

	sweepRepo := cron.NewSweepRepository(dbClient.DB())

	realizationJob, err := cron.NewRealizationDelayJob(cron.RealizationDelayJobParams{
		Logger:        logg,
		DB:            dbClient,
		Repository:    sweepRepo,
		Notifier:      dispatcher,
		ThresholdDays: cfg.Scheduler.DelayThresholdDays,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create realization delay job", err)
		os.Exit(1)
	}

	techReceptionJob, err := cron.NewTechReceptionDelayJob(cron.TechReceptionDelayJobParams{
		Logger:        logg,
		DB:            dbClient,
		Repository:    sweepRepo,
		Notifier:      dispatcher,
		ThresholdDays: cfg.Scheduler.DelayThresholdDays,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create tech reception delay job", err)
		os.Exit(1)
	}

	snapshotJob, err := cron.NewDashboardSnapshotJob(cron.DashboardSnapshotJobParams{
		Logger:  logg,
		Reports: reportsService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create dashboard snapshot job", err)
		os.Exit(1)
	}

	metricsCollector := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)

	sweepLock, err := cron.NewRedisLock(redisClient, redisClient.LockKey("delay-sweep"), 0)
	if err != nil {
		logg.Error(context.Background(), "failed to create sweep lock", err)
		os.Exit(1)
	}
	sweepService, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(realizationJob, techReceptionJob),
		Lock:     sweepLock,
		Metrics:  metricsCollector,
		Interval: cfg.Scheduler.DelaySweepInterval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create sweep service", err)
		os.Exit(1)
	}

	snapshotLock, err := cron.NewRedisLock(redisClient, redisClient.LockKey("dashboard-snapshot"), 0)
	if err != nil {
		logg.Error(context.Background(), "failed to create snapshot lock", err)
		os.Exit(1)
	}
	snapshotService, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(snapshotJob),
		Lock:     snapshotLock,
		Metrics:  metricsCollector,
		Interval: cfg.Scheduler.SnapshotInterval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create snapshot service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting cron worker")

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		if err := dispatcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logg.Error(ctx, "notifications dispatcher stopped unexpectedly", err)
		}
	}()
	go func() {
		defer wg.Done()
		if err := sweepService.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logg.Error(ctx, "delay sweep service stopped unexpectedly", err)
		}
	}()
	go func() {
		defer wg.Done()
		if err := snapshotService.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logg.Error(ctx, "snapshot service stopped unexpectedly", err)
		}
	}()
	wg.Wait()

	logg.Info(ctx, "cron worker shutting down gracefully")
}
