package barcodeapi

import (
	"context"

	"github.com/kursadbilgin/barcode-dispatch/internal/domain"
)

const (
	GeneratePath = "/api/generate-barcode"
	DownloadPath = "/api/download-barcode"
)

// Client is the outbound port to the barcode backend.
type Client interface {
	Generate(ctx context.Context, record domain.PatientRecord) (*domain.GenerationResult, error)
	Download(ctx context.Context, record domain.PatientRecord) (*Artifact, error)
}

// Artifact is a downloaded barcode image.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}
