package observability

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsServiceCollectors(t *testing.T) {
	t.Parallel()

	metrics := NewMetrics()

	metrics.IncGeneration("Batch", "success")
	metrics.IncGeneration("batch", "failed")
	metrics.IncGeneration("single", "")
	metrics.IncDownload("success")
	metrics.ObserveAPIRequestDuration("generate", 120*time.Millisecond)
	metrics.IncInFlight("batch")
	metrics.DecInFlight("batch")
	metrics.IncRejected("download_all")

	if got := testutil.ToFloat64(metrics.generationsTotal.WithLabelValues("batch", "success")); got != 1 {
		t.Fatalf("generations_total{batch,success} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.generationsTotal.WithLabelValues("batch", "failed")); got != 1 {
		t.Fatalf("generations_total{batch,failed} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.generationsTotal.WithLabelValues("single", "unknown")); got != 1 {
		t.Fatalf("generations_total{single,unknown} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.downloadsTotal.WithLabelValues("success")); got != 1 {
		t.Fatalf("downloads_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.operationInflight.WithLabelValues("batch")); got != 0 {
		t.Fatalf("operation_inflight = %v, want 0", got)
	}
	if got := testutil.ToFloat64(metrics.rejectedOperationsTotal.WithLabelValues("download_all")); got != 1 {
		t.Fatalf("rejected_operations_total = %v, want 1", got)
	}
}

func TestMetricsNilSafe(t *testing.T) {
	t.Parallel()

	var metrics *Metrics
	metrics.IncGeneration("single", "success")
	metrics.IncDownload("failed")
	metrics.ObserveAPIRequestDuration("download", time.Second)
	metrics.IncInFlight("single")
	metrics.DecInFlight("single")
	metrics.IncRejected("single")

	if metrics.Handler() == nil {
		t.Fatal("Handler() should fall back to the default handler")
	}
}

func TestMetricsHTTPMiddlewareRecordsRequest(t *testing.T) {
	t.Parallel()

	metrics := NewMetrics()
	app := fiber.New()
	app.Use(metrics.HTTPMiddleware())
	app.Get("/livez", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET", "/livez", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	if got := testutil.ToFloat64(metrics.httpRequestsTotal.WithLabelValues("GET", "/livez", "200")); got != 1 {
		t.Fatalf("http_requests_total = %v, want 1", got)
	}
}

func TestMetricsHTTPMiddlewareRecordsErrorStatus(t *testing.T) {
	t.Parallel()

	metrics := NewMetrics()
	app := fiber.New()
	app.Use(metrics.HTTPMiddleware())
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("boom")
	})

	req := httptest.NewRequest("GET", "/boom", nil)
	_, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}

	if got := testutil.ToFloat64(metrics.httpRequestsTotal.WithLabelValues("GET", "/boom", "500")); got != 1 {
		t.Fatalf("http_requests_total = %v, want 1", got)
	}
}

func TestMetricsHTTPMiddlewareUsesErrorHandlerStatus(t *testing.T) {
	t.Parallel()

	errBusy := errors.New("busy")
	metrics := NewMetrics()
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if errors.Is(err, errBusy) {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
			}
			return fiber.DefaultErrorHandler(c, err)
		},
	})
	app.Use(metrics.HTTPMiddleware())
	app.Post("/v1/barcodes", func(c *fiber.Ctx) error {
		return errBusy
	})

	resp, err := app.Test(httptest.NewRequest("POST", "/v1/barcodes", nil))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != fiber.StatusConflict {
		t.Fatalf("status = %d, want 409", resp.StatusCode)
	}

	if got := testutil.ToFloat64(metrics.httpRequestsTotal.WithLabelValues("POST", "/v1/barcodes", "409")); got != 1 {
		t.Fatalf("http_requests_total{409} = %v, want 1", got)
	}
}
