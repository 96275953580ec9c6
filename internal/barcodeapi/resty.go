package barcodeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/kursadbilgin/barcode-dispatch/internal/domain"
)

const defaultRequestTimeout = 10 * time.Second

type barcodeRequest struct {
	PatientName   string `json:"patient_name"`
	PatientNumber string `json:"patient_number"`
}

type generateResponse struct {
	Success     bool           `json:"success"`
	Error       string         `json:"error"`
	Message     string         `json:"message"`
	Filename    string         `json:"filename"`
	PatientData map[string]any `json:"patient_data"`
}

var _ Client = (*RestyClient)(nil)

// RestyClient talks to the barcode backend over HTTP with JSON bodies.
type RestyClient struct {
	client  *resty.Client
	baseURL string
}

func NewRestyClient(baseURL string, timeout time.Duration) (*RestyClient, error) {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	client := resty.New()
	client.SetTimeout(timeout)
	client.SetRetryCount(0)

	return NewRestyClientWithClient(baseURL, client)
}

func NewRestyClientWithClient(baseURL string, client *resty.Client) (*RestyClient, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, fmt.Errorf("barcode api url is required")
	}
	if _, err := url.ParseRequestURI(trimmed); err != nil {
		return nil, fmt.Errorf("invalid barcode api url: %w", err)
	}
	if client == nil {
		return nil, fmt.Errorf("resty client is required")
	}

	if client.GetClient().Timeout == 0 {
		client.SetTimeout(defaultRequestTimeout)
	}
	client.SetRetryCount(0)

	return &RestyClient{
		client:  client,
		baseURL: trimmed,
	}, nil
}

func (c *RestyClient) Generate(ctx context.Context, record domain.PatientRecord) (*domain.GenerationResult, error) {
	response, err := c.post(ctx, OpGenerate, GeneratePath, record)
	if err != nil {
		return nil, err
	}

	statusCode := response.StatusCode()
	if !isSuccessStatus(statusCode) {
		return nil, &APIError{
			Op:         OpGenerate,
			StatusCode: statusCode,
			Message:    statusMessage(statusCode),
			Body:       strings.TrimSpace(response.String()),
		}
	}

	raw := response.Body()
	var body generateResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, &APIError{
			Op:         OpGenerate,
			StatusCode: statusCode,
			Message:    "invalid response body",
			Cause:      err,
		}
	}

	if !body.Success {
		result := domain.FailedResult(record, strings.TrimSpace(body.Error))
		return &result, nil
	}

	result := domain.SucceededResult(record, &domain.GenerationPayload{
		Message:     body.Message,
		Filename:    body.Filename,
		PatientData: body.PatientData,
		Raw:         json.RawMessage(raw),
	})
	return &result, nil
}

func (c *RestyClient) Download(ctx context.Context, record domain.PatientRecord) (*Artifact, error) {
	response, err := c.post(ctx, OpDownload, DownloadPath, record)
	if err != nil {
		return nil, err
	}

	statusCode := response.StatusCode()
	if !isSuccessStatus(statusCode) {
		return nil, &APIError{
			Op:         OpDownload,
			StatusCode: statusCode,
			Message:    statusMessage(statusCode),
			Body:       strings.TrimSpace(response.String()),
		}
	}

	return &Artifact{
		Filename:    domain.DownloadFilename(record.Number, record.Name),
		ContentType: response.Header().Get("Content-Type"),
		Data:        response.Body(),
	}, nil
}

func (c *RestyClient) post(ctx context.Context, op, path string, record domain.PatientRecord) (*resty.Response, error) {
	if c == nil || c.client == nil {
		return nil, fmt.Errorf("barcode api client is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	response, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(barcodeRequest{
			PatientName:   record.Name,
			PatientNumber: record.Number,
		}).
		Post(c.baseURL + path)
	if err != nil {
		message := "request failed"
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			message = "request timed out"
		}
		return nil, &APIError{
			Op:      op,
			Message: message,
			Cause:   err,
		}
	}
	if response == nil {
		return nil, &APIError{
			Op:      op,
			Message: "empty response",
		}
	}

	return response, nil
}

func isSuccessStatus(statusCode int) bool {
	return statusCode >= http.StatusOK && statusCode < http.StatusMultipleChoices
}

func statusMessage(statusCode int) string {
	text := http.StatusText(statusCode)
	if text == "" {
		return fmt.Sprintf("HTTP %d", statusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", statusCode, text)
}
