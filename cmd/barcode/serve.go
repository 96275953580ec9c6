package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/kursadbilgin/barcode-dispatch/internal/config"
	"github.com/kursadbilgin/barcode-dispatch/internal/handler"
	"github.com/kursadbilgin/barcode-dispatch/internal/notify"
	"github.com/kursadbilgin/barcode-dispatch/internal/observability"
	"github.com/kursadbilgin/barcode-dispatch/internal/transport"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the barcode control API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			logger, err := observability.NewLogger(cfg.LogLevel)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer logger.Sync() //nolint:errcheck

			return runServer(cmd.Context(), cfg, logger)
		},
	}
}

func runServer(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	a, err := newApp(cfg, logger, notify.NewZapNotifier(logger))
	if err != nil {
		logger.Error("service initialization failed", zap.Error(err))
		return err
	}

	server, err := newServer(a)
	if err != nil {
		return err
	}
	addr := fmt.Sprintf(":%d", cfg.APIPort)

	g, groupCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("barcode-dispatch api started", zap.Int("port", cfg.APIPort))
		return server.Listen(addr)
	})
	g.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down server")
		return server.ShutdownWithTimeout(shutdownTimeout)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
		return err
	}

	logger.Info("server stopped")
	return nil
}

func newServer(a *app) (*fiber.App, error) {
	server := fiber.New(fiber.Config{
		AppName:               "barcode-dispatch",
		DisableStartupMessage: true,
		ErrorHandler:          transport.ErrorHandler(a.logger),
	})

	server.Use(a.metrics.HTTPMiddleware())
	server.Get("/metrics", adaptor.HTTPHandler(a.metrics.Handler()))
	handler.RegisterHealthRoutes(server)
	if err := handler.RegisterBarcodeRoutes(server, a.submissions, a.downloads); err != nil {
		return nil, err
	}

	return server, nil
}
