package main

import (
	"fmt"

	"github.com/kursadbilgin/barcode-dispatch/internal/barcodeapi"
	"github.com/kursadbilgin/barcode-dispatch/internal/config"
	"github.com/kursadbilgin/barcode-dispatch/internal/delivery"
	"github.com/kursadbilgin/barcode-dispatch/internal/notify"
	"github.com/kursadbilgin/barcode-dispatch/internal/observability"
	"github.com/kursadbilgin/barcode-dispatch/internal/pacing"
	"github.com/kursadbilgin/barcode-dispatch/internal/service"
	"github.com/kursadbilgin/barcode-dispatch/internal/session"
	"go.uber.org/zap"
)

type app struct {
	cfg         *config.Config
	logger      *zap.Logger
	metrics     *observability.Metrics
	session     *session.Session
	submissions *service.SubmissionService
	downloads   *service.DownloadService
}

type sink interface {
	notify.Notifier
	notify.StatusSink
}

func newApp(cfg *config.Config, logger *zap.Logger, out sink) (*app, error) {
	client, err := barcodeapi.NewRestyClient(cfg.BarcodeAPIURL, cfg.RequestTimeout())
	if err != nil {
		return nil, fmt.Errorf("barcode api client init failed: %w", err)
	}

	deliverer, err := delivery.NewFileDeliverer(cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("output directory init failed: %w", err)
	}

	sess := session.New()
	metrics := observability.NewMetrics()

	submissions, err := service.NewSubmissionService(
		sess,
		client,
		pacing.NewSequencer(cfg.BatchInterval()),
		out,
		out,
		logger,
	)
	if err != nil {
		return nil, err
	}
	submissions.SetMetrics(metrics)

	downloads, err := service.NewDownloadService(
		sess,
		client,
		deliverer,
		pacing.NewSequencer(cfg.DownloadInterval()),
		out,
		logger,
	)
	if err != nil {
		return nil, err
	}
	downloads.SetMetrics(metrics)

	logger.Debug("session initialized",
		zap.String("sessionId", sess.ID()),
		zap.String("backend", cfg.BarcodeAPIURL),
		zap.String("outputDir", deliverer.Dir()),
	)

	return &app{
		cfg:         cfg,
		logger:      logger,
		metrics:     metrics,
		session:     sess,
		submissions: submissions,
		downloads:   downloads,
	}, nil
}
