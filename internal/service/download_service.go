package service

import (
	"context"
	"fmt"
	"time"

	"github.com/kursadbilgin/barcode-dispatch/internal/barcodeapi"
	"github.com/kursadbilgin/barcode-dispatch/internal/delivery"
	"github.com/kursadbilgin/barcode-dispatch/internal/domain"
	"github.com/kursadbilgin/barcode-dispatch/internal/notify"
	"github.com/kursadbilgin/barcode-dispatch/internal/observability"
	"github.com/kursadbilgin/barcode-dispatch/internal/pacing"
	"github.com/kursadbilgin/barcode-dispatch/internal/session"
	"go.uber.org/zap"
)

const (
	opDownloadAll = "download_all"

	nothingToDownloadMessage = "nothing to download"
)

// DownloadService fetches barcode images and hands them to a Deliverer.
type DownloadService struct {
	session   *session.Session
	client    barcodeapi.Client
	deliverer delivery.Deliverer
	sequencer *pacing.Sequencer
	notifier  notify.Notifier
	logger    *zap.Logger
	metrics   *observability.Metrics
	now       func() time.Time
}

func NewDownloadService(
	sess *session.Session,
	client barcodeapi.Client,
	deliverer delivery.Deliverer,
	sequencer *pacing.Sequencer,
	notifier notify.Notifier,
	logger *zap.Logger,
) (*DownloadService, error) {
	if sess == nil {
		return nil, fmt.Errorf("session is required")
	}
	if client == nil {
		return nil, fmt.Errorf("barcode api client is required")
	}
	if deliverer == nil {
		return nil, fmt.Errorf("deliverer is required")
	}
	if sequencer == nil {
		sequencer = pacing.NewSequencer(pacing.DefaultDownloadInterval)
	}
	if notifier == nil {
		notifier = notify.Nop()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &DownloadService{
		session:   sess,
		client:    client,
		deliverer: deliverer,
		sequencer: sequencer,
		notifier:  notifier,
		logger:    logger,
		now:       time.Now,
	}, nil
}

func (s *DownloadService) SetMetrics(metrics *observability.Metrics) {
	if s == nil {
		return
	}
	s.metrics = metrics
}

// DownloadOne downloads and delivers a single barcode. The error is also
// reported through the notifier.
func (s *DownloadService) DownloadOne(ctx context.Context, record domain.PatientRecord) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	path, err := s.download(ctx, record)
	if err != nil {
		s.notifier.Notify(notify.LevelDanger, fmt.Sprintf("Download failed for %s: %v", record.Name, err))
		return "", err
	}

	s.notifier.Notify(notify.LevelSuccess, fmt.Sprintf("Barcode %s downloaded", record.Name))
	return path, nil
}

// DownloadAll replays the download for every stored result in order. An
// empty store is a no-op.
func (s *DownloadService) DownloadAll(ctx context.Context) (*domain.DownloadReport, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if s.session.Store().Len() == 0 {
		s.notifier.Notify(notify.LevelWarning, nothingToDownloadMessage)
		return &domain.DownloadReport{}, nil
	}

	release, ok := s.session.TryAcquire()
	if !ok {
		s.metrics.IncRejected(opDownloadAll)
		s.logger.Warn("operation rejected, session busy", zap.String("operation", opDownloadAll))
		s.notifier.Notify(notify.LevelWarning, busyMessage)
		return nil, domain.ErrBusy
	}
	defer release()

	items := s.session.Store().All()
	if len(items) == 0 {
		s.notifier.Notify(notify.LevelWarning, nothingToDownloadMessage)
		return &domain.DownloadReport{}, nil
	}

	s.metrics.IncInFlight(opDownloadAll)
	defer s.metrics.DecInFlight(opDownloadAll)

	report := &domain.DownloadReport{
		Total: len(items),
		Files: make([]string, 0, len(items)),
	}
	s.notifier.Notify(notify.LevelInfo, fmt.Sprintf("Downloading %d barcodes...", len(items)))

	processed := 0
	runErr := s.sequencer.Run(ctx, len(items), func(ctx context.Context, i int) {
		processed++
		record := items[i].Record

		path, err := s.download(ctx, record)
		if err != nil {
			report.Failed++
			return
		}
		report.Succeeded++
		report.Files = append(report.Files, path)
	})
	if runErr != nil {
		s.logger.Warn("bulk download interrupted", zap.Int("processed", processed), zap.Error(runErr))
		report.Failed += len(items) - processed
	}

	s.logger.Info("bulk download completed",
		zap.Int("total", report.Total),
		zap.Int("succeeded", report.Succeeded),
		zap.Int("failed", report.Failed),
	)

	level := notify.LevelSuccess
	if report.Failed > 0 {
		level = notify.LevelWarning
	}
	s.notifier.Notify(level, report.Summary())

	return report, nil
}

func (s *DownloadService) download(ctx context.Context, record domain.PatientRecord) (string, error) {
	start := s.now()
	artifact, err := s.client.Download(ctx, record)
	s.metrics.ObserveAPIRequestDuration(barcodeapi.OpDownload, s.now().Sub(start))
	if err != nil {
		s.metrics.IncDownload(outcomeError)
		s.logger.Error("barcode download failed",
			zap.String("patientNumber", record.Number),
			zap.Int("statusCode", barcodeapi.StatusCode(err)),
			zap.Error(err),
		)
		return "", err
	}

	path, err := s.deliverer.Deliver(ctx, artifact.Filename, artifact.Data)
	if err != nil {
		s.metrics.IncDownload(outcomeFailed)
		s.logger.Error("barcode delivery failed",
			zap.String("patientNumber", record.Number),
			zap.String("filename", artifact.Filename),
			zap.Error(err),
		)
		return "", fmt.Errorf("failed to deliver %s: %w", artifact.Filename, err)
	}

	s.metrics.IncDownload(outcomeSuccess)
	s.logger.Debug("barcode downloaded",
		zap.String("patientNumber", record.Number),
		zap.String("path", path),
	)
	return path, nil
}
