package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/kursadbilgin/lifeguard-mongodb/internal/config"
	"github.com/kursadbilgin/lifeguard-mongodb/internal/handler"
	"github.com/kursadbilgin/lifeguard-mongodb/internal/observability"
	"github.com/kursadbilgin/lifeguard-mongodb/internal/plugin"
	"github.com/kursadbilgin/lifeguard-mongodb/internal/registry"
	"github.com/kursadbilgin/lifeguard-mongodb/internal/transport"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config", zap.Error(err))
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal("failed to initialize logger", zap.Error(err))
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := observability.NewMetrics()

	store, err := plugin.Open(ctx, cfg, logger, metrics)
	if err != nil {
		logger.Fatal("mongodb initialization failed", zap.Error(err))
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logger.Error("mongodb close failed", zap.Error(err))
		}
	}()

	reg := registry.New()
	store.Register(reg)

	app, err := newApp(reg, store, metrics, logger)
	if err != nil {
		logger.Fatal("http initialization failed", zap.Error(err))
	}

	logger.Info("lifeguard-mongodb started",
		zap.Int("port", cfg.APIPort),
		zap.String("database", cfg.MongoDBDatabase),
	)

	g, groupCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.Listen(fmt.Sprintf(":%d", cfg.APIPort))
	})
	g.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down http server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("http server stopped with error", zap.Error(err))
	}
	logger.Info("lifeguard-mongodb stopped")
}

func newApp(reg *registry.Registry, store handler.Pinger, metrics *observability.Metrics, logger *zap.Logger) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		AppName:               "lifeguard-mongodb",
		DisableStartupMessage: true,
		UnescapePath:          true,
		ErrorHandler:          transport.ErrorHandler(logger),
	})
	app.Use(observability.RunIDMiddleware())
	app.Use(metrics.HTTPMiddleware())

	handler.RegisterHealthRoutes(app, store)
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	validations, err := reg.Validation()
	if err != nil {
		return nil, err
	}
	notifications, err := reg.Notification()
	if err != nil {
		return nil, err
	}
	history, err := reg.History()
	if err != nil {
		return nil, err
	}

	if err := handler.RegisterValidationRoutes(app, validations); err != nil {
		return nil, err
	}
	if err := handler.RegisterNotificationRoutes(app, notifications); err != nil {
		return nil, err
	}
	if err := handler.RegisterHistoryRoutes(app, history); err != nil {
		return nil, err
	}

	return app, nil
}
