package service

import (
	"context"
	"sync"

	"github.com/kursadbilgin/barcode-dispatch/internal/barcodeapi"
	"github.com/kursadbilgin/barcode-dispatch/internal/domain"
	"github.com/kursadbilgin/barcode-dispatch/internal/notify"
)

type fakeClient struct {
	mu            sync.Mutex
	generateCalls []domain.PatientRecord
	downloadCalls []domain.PatientRecord

	generateFn func(ctx context.Context, record domain.PatientRecord) (*domain.GenerationResult, error)
	downloadFn func(ctx context.Context, record domain.PatientRecord) (*barcodeapi.Artifact, error)
}

func (f *fakeClient) Generate(ctx context.Context, record domain.PatientRecord) (*domain.GenerationResult, error) {
	f.mu.Lock()
	f.generateCalls = append(f.generateCalls, record)
	f.mu.Unlock()

	if f.generateFn != nil {
		return f.generateFn(ctx, record)
	}
	result := domain.SucceededResult(record, &domain.GenerationPayload{Message: "ok"})
	return &result, nil
}

func (f *fakeClient) Download(ctx context.Context, record domain.PatientRecord) (*barcodeapi.Artifact, error) {
	f.mu.Lock()
	f.downloadCalls = append(f.downloadCalls, record)
	f.mu.Unlock()

	if f.downloadFn != nil {
		return f.downloadFn(ctx, record)
	}
	return &barcodeapi.Artifact{
		Filename: domain.DownloadFilename(record.Number, record.Name),
		Data:     []byte("png"),
	}, nil
}

func (f *fakeClient) generated() []domain.PatientRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.PatientRecord(nil), f.generateCalls...)
}

func (f *fakeClient) downloaded() []domain.PatientRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.PatientRecord(nil), f.downloadCalls...)
}

type notification struct {
	level   notify.Level
	message string
}

type recordingNotifier struct {
	mu       sync.Mutex
	notes    []notification
	statuses []string
	hidden   int
}

func (r *recordingNotifier) Notify(level notify.Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, notification{level: level, message: message})
}

func (r *recordingNotifier) ShowStatus(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, message)
}

func (r *recordingNotifier) HideStatus() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hidden++
}

func (r *recordingNotifier) last() notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notes) == 0 {
		return notification{}
	}
	return r.notes[len(r.notes)-1]
}

func (r *recordingNotifier) all() []notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notification(nil), r.notes...)
}

type fakeDeliverer struct {
	mu        sync.Mutex
	delivered []string
	deliverFn func(ctx context.Context, filename string, data []byte) (string, error)
}

func (f *fakeDeliverer) Deliver(ctx context.Context, filename string, data []byte) (string, error) {
	if f.deliverFn != nil {
		return f.deliverFn(ctx, filename, data)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.delivered = append(f.delivered, filename)
	return "out/" + filename, nil
}
