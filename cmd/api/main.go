package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/Ali-desu/Samsic-projet-stage/api/routes"
	"github.com/Ali-desu/Samsic-projet-stage/internal/catalog"
	"github.com/Ali-desu/Samsic-projet-stage/internal/notifications"
	"github.com/Ali-desu/Samsic-projet-stage/internal/orders"
	"github.com/Ali-desu/Samsic-projet-stage/internal/reports"
	"github.com/Ali-desu/Samsic-projet-stage/internal/tracking"
	"github.com/Ali-desu/Samsic-projet-stage/internal/workorders"
	"github.com/Ali-desu/Samsic-projet-stage/pkg/config"
	"github.com/Ali-desu/Samsic-projet-stage/pkg/db"
	"github.com/Ali-desu/Samsic-projet-stage/pkg/logger"
	"github.com/Ali-desu/Samsic-projet-stage/pkg/migrate"
	"github.com/Ali-desu/Samsic-projet-stage/pkg/redis"
)

const notificationQueueSize = 256

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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
	dispatcherCtx, stopDispatcher := context.WithCancel(context.Background())
	defer stopDispatcher()
	go func() {
		if err := dispatcher.Run(dispatcherCtx); err != nil && err != context.Canceled {
			logg.Error(dispatcherCtx, "notifications dispatcher stopped", err)
		}
	}()

	ordersService, err := orders.NewService(orders.NewRepository(dbClient.DB()), dbClient, dispatcher)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	workOrdersService, err := workorders.NewService(workorders.NewRepository(dbClient.DB()), dbClient, dispatcher, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create work orders service", err)
		os.Exit(1)
	}

	trackingService, err := tracking.NewService(tracking.NewRepository(dbClient.DB()), dbClient, dispatcher, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create tracking service", err)
		os.Exit(1)
	}

	reportsService, err := reports.NewService(reports.NewRepository(dbClient.DB()), dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create reports service", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(notificationsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, routes.Services{
			Orders:        ordersService,
			WorkOrders:    workOrdersService,
			Tracking:      trackingService,
			Reports:       reportsService,
			Notifications: notificationsService,
			Catalog:       catalogService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
