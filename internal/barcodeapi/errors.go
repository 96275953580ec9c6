package barcodeapi

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDownloadFailed is matched by every download-side APIError.
var ErrDownloadFailed = errors.New("download failed")

const (
	OpGenerate = "generate"
	OpDownload = "download"
)

// APIError reports a transport-level failure talking to the barcode backend:
// a non-2xx status, a network error, or an undecodable body.
type APIError struct {
	Op         string
	StatusCode int
	Message    string
	Body       string
	Cause      error
}

func (e *APIError) Error() string {
	if e == nil {
		return "<nil>"
	}

	parts := make([]string, 0, 3)
	if e.Op != "" {
		parts = append(parts, e.Op)
	}
	if msg := strings.TrimSpace(e.Message); msg != "" {
		parts = append(parts, msg)
	} else if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("HTTP %d", e.StatusCode))
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}

	return strings.Join(parts, ": ")
}

func (e *APIError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func (e *APIError) Is(target error) bool {
	return e != nil && target == ErrDownloadFailed && e.Op == OpDownload
}

// StatusCode extracts the HTTP status from err, or 0 when there is none.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
