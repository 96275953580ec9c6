package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kursadbilgin/barcode-dispatch/internal/barcodeapi"
	"github.com/kursadbilgin/barcode-dispatch/internal/domain"
	"github.com/kursadbilgin/barcode-dispatch/internal/notify"
	"github.com/kursadbilgin/barcode-dispatch/internal/observability"
	"github.com/kursadbilgin/barcode-dispatch/internal/pacing"
	"github.com/kursadbilgin/barcode-dispatch/internal/session"
	"go.uber.org/zap"
)

const (
	modeSingle = "single"
	modeBatch  = "batch"

	outcomeSuccess = "success"
	outcomeFailed  = "failed"
	outcomeError   = "error"
	outcomeInvalid = "invalid"

	busyMessage = "Please wait for the current operation to complete"
)

// SubmissionService generates barcodes for single records and batches and
// aggregates the successful results into the session store.
type SubmissionService struct {
	session   *session.Session
	client    barcodeapi.Client
	sequencer *pacing.Sequencer
	notifier  notify.Notifier
	status    notify.StatusSink
	logger    *zap.Logger
	metrics   *observability.Metrics
	now       func() time.Time
	newID     func() string
}

func NewSubmissionService(
	sess *session.Session,
	client barcodeapi.Client,
	sequencer *pacing.Sequencer,
	notifier notify.Notifier,
	status notify.StatusSink,
	logger *zap.Logger,
) (*SubmissionService, error) {
	if sess == nil {
		return nil, fmt.Errorf("session is required")
	}
	if client == nil {
		return nil, fmt.Errorf("barcode api client is required")
	}
	if sequencer == nil {
		sequencer = pacing.NewSequencer(pacing.DefaultBatchInterval)
	}
	if notifier == nil {
		notifier = notify.Nop()
	}
	if status == nil {
		status = notify.Nop()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &SubmissionService{
		session:   sess,
		client:    client,
		sequencer: sequencer,
		notifier:  notifier,
		status:    status,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}, nil
}

func (s *SubmissionService) SetMetrics(metrics *observability.Metrics) {
	if s == nil {
		return
	}
	s.metrics = metrics
}

// SubmitSingle validates and generates one record. Only ErrBusy and
// ErrValidation are returned; request failures come back as a failed result.
func (s *SubmissionService) SubmitSingle(ctx context.Context, name, number string) (domain.GenerationResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	release, ok := s.session.TryAcquire()
	if !ok {
		s.rejectBusy(modeSingle)
		return domain.GenerationResult{}, domain.ErrBusy
	}
	defer release()

	record, err := domain.NewPatientRecord(name, number)
	if err != nil {
		s.notifier.Notify(notify.LevelDanger, userMessage(err))
		return domain.GenerationResult{}, err
	}

	s.metrics.IncInFlight(modeSingle)
	defer s.metrics.DecInFlight(modeSingle)

	s.status.ShowStatus("Processing...")
	defer s.status.HideStatus()

	result := s.generate(ctx, modeSingle, record)
	if result.Succeeded {
		s.aggregate(ctx, result)
		s.notifier.Notify(notify.LevelSuccess, fmt.Sprintf("Barcode for %s created", record.Name))
	} else {
		s.notifier.Notify(notify.LevelDanger, result.ErrorMessage)
	}

	return result, nil
}

// SubmitBatch parses "name,number" lines and runs them as one batch.
func (s *SubmissionService) SubmitBatch(ctx context.Context, text string) (*domain.BatchReport, error) {
	release, ok := s.session.TryAcquire()
	if !ok {
		s.rejectBusy(modeBatch)
		return nil, domain.ErrBusy
	}
	defer release()

	if strings.TrimSpace(text) == "" {
		s.notifier.Notify(notify.LevelDanger, "Patient data must not be empty")
		return nil, fmt.Errorf("%w: batch input is empty", domain.ErrValidation)
	}

	return s.runBatch(ctx, domain.ParseBatch(text))
}

// RunBatch runs already-parsed records as one batch.
func (s *SubmissionService) RunBatch(ctx context.Context, records []domain.PatientRecord) (*domain.BatchReport, error) {
	release, ok := s.session.TryAcquire()
	if !ok {
		s.rejectBusy(modeBatch)
		return nil, domain.ErrBusy
	}
	defer release()

	return s.runBatch(ctx, records)
}

// Results returns the successful results aggregated so far.
func (s *SubmissionService) Results() []domain.GenerationResult {
	return s.session.Store().All()
}

// Clear empties the result store.
func (s *SubmissionService) Clear() int {
	cleared := s.session.Store().Clear()
	s.logger.Info("results cleared", zap.Int("count", cleared))
	return cleared
}

func (s *SubmissionService) runBatch(ctx context.Context, records []domain.PatientRecord) (*domain.BatchReport, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(records) == 0 {
		s.notifier.Notify(notify.LevelDanger, "No valid patient records")
		return nil, fmt.Errorf("%w: no valid patient records", domain.ErrValidation)
	}

	batchID := s.newID()
	ctx = observability.WithBatchID(ctx, batchID)
	logger := observability.WithContextLogger(s.logger, ctx)

	s.metrics.IncInFlight(modeBatch)
	defer s.metrics.DecInFlight(modeBatch)
	defer s.status.HideStatus()

	total := len(records)
	report := &domain.BatchReport{
		BatchID: batchID,
		Results: make([]domain.GenerationResult, 0, total),
	}

	logger.Info("batch started", zap.Int("total", total))

	runErr := s.sequencer.Run(ctx, total, func(ctx context.Context, i int) {
		record := records[i]
		s.status.ShowStatus(notify.Progress{Index: i + 1, Total: total, Name: record.Name}.String())

		var result domain.GenerationResult
		if err := record.Validate(); err != nil {
			result = domain.FailedResult(record, userMessage(err))
			s.metrics.IncGeneration(modeBatch, outcomeInvalid)
			logger.Warn("batch record rejected before request",
				zap.Int("index", i),
				zap.String("patientNumber", record.Number),
				zap.Error(err),
			)
		} else {
			result = s.generate(ctx, modeBatch, record)
		}

		if result.Succeeded {
			s.aggregate(ctx, result)
		}
		report.Record(result)
	})

	// Records never reached keep their slot so outcomes stay aligned with input.
	if runErr != nil {
		logger.Warn("batch interrupted", zap.Int("processed", report.Total()), zap.Error(runErr))
		for _, record := range records[report.Total():] {
			report.Record(domain.FailedResult(record, fmt.Sprintf("batch interrupted: %v", runErr)))
		}
	}

	logger.Info("batch completed",
		zap.String("status", report.Status.String()),
		zap.Int("succeeded", report.Succeeded),
		zap.Int("failed", report.Failed),
	)

	level := notify.LevelSuccess
	if report.Failed > 0 {
		level = notify.LevelWarning
	}
	s.notifier.Notify(level, fmt.Sprintf("%d of %d barcodes created", report.Succeeded, report.Total()))

	return report, nil
}

func (s *SubmissionService) generate(ctx context.Context, mode string, record domain.PatientRecord) domain.GenerationResult {
	logger := observability.WithContextLogger(s.logger, ctx)

	start := s.now()
	result, err := s.client.Generate(ctx, record)
	s.metrics.ObserveAPIRequestDuration(barcodeapi.OpGenerate, s.now().Sub(start))

	if err != nil {
		s.metrics.IncGeneration(mode, outcomeError)
		logger.Error("barcode generation request failed",
			zap.String("mode", mode),
			zap.String("patientNumber", record.Number),
			zap.Int("statusCode", barcodeapi.StatusCode(err)),
			zap.Error(err),
		)
		return domain.FailedResult(record, err.Error())
	}
	if result == nil {
		s.metrics.IncGeneration(mode, outcomeError)
		return domain.FailedResult(record, "")
	}

	// The client echoes the record, but the submitted one is authoritative.
	out := *result
	out.Record = record
	if !out.Succeeded {
		if out.ErrorMessage == "" {
			out.ErrorMessage = domain.DefaultGenerationError
		}
		s.metrics.IncGeneration(mode, outcomeFailed)
		logger.Warn("barcode generation rejected",
			zap.String("mode", mode),
			zap.String("patientNumber", record.Number),
			zap.String("reason", out.ErrorMessage),
		)
		return out
	}

	s.metrics.IncGeneration(mode, outcomeSuccess)
	logger.Debug("barcode generated",
		zap.String("mode", mode),
		zap.String("patientNumber", record.Number),
	)
	return out
}

func (s *SubmissionService) aggregate(ctx context.Context, result domain.GenerationResult) {
	if err := s.session.Store().Add(result); err != nil {
		observability.WithContextLogger(s.logger, ctx).Error("failed to store generation result",
			zap.String("patientNumber", result.Record.Number),
			zap.Error(err),
		)
	}
}

func (s *SubmissionService) rejectBusy(operation string) {
	s.metrics.IncRejected(operation)
	s.logger.Warn("operation rejected, session busy", zap.String("operation", operation))
	s.notifier.Notify(notify.LevelWarning, busyMessage)
}

// userMessage strips the sentinel prefix from validation errors.
func userMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if errors.Is(err, domain.ErrValidation) {
		msg = strings.TrimPrefix(msg, domain.ErrValidation.Error()+": ")
	}
	return msg
}
