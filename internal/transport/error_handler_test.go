package transport

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/kursadbilgin/barcode-dispatch/internal/barcodeapi"
	"github.com/kursadbilgin/barcode-dispatch/internal/domain"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestStatusCode(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		err  error
		want int
	}{
		{name: "fiber error", err: fiber.NewError(fiber.StatusNotFound, "missing"), want: fiber.StatusNotFound},
		{name: "validation", err: fmt.Errorf("%w: bad input", domain.ErrValidation), want: fiber.StatusBadRequest},
		{name: "busy", err: domain.ErrBusy, want: fiber.StatusConflict},
		{name: "download", err: &barcodeapi.APIError{Op: barcodeapi.OpDownload, StatusCode: 500, Message: "HTTP 500: Internal Server Error"}, want: fiber.StatusBadGateway},
		{name: "generate api error", err: &barcodeapi.APIError{Op: barcodeapi.OpGenerate, StatusCode: 500, Message: "HTTP 500: Internal Server Error"}, want: fiber.StatusInternalServerError},
		{name: "unknown", err: errors.New("boom"), want: fiber.StatusInternalServerError},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := StatusCode(tc.err); got != tc.want {
				t.Fatalf("StatusCode() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestErrorHandlerWritesJSON(t *testing.T) {
	t.Parallel()

	core, recorded := observer.New(zapcore.DebugLevel)
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.New(core))})
	app.Get("/busy", func(c *fiber.Ctx) error { return domain.ErrBusy })
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("boom") })

	testCases := []struct {
		path      string
		wantCode  int
		wantLevel zapcore.Level
	}{
		{path: "/busy", wantCode: fiber.StatusConflict, wantLevel: zapcore.WarnLevel},
		{path: "/boom", wantCode: fiber.StatusInternalServerError, wantLevel: zapcore.ErrorLevel},
	}

	for _, tc := range testCases {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, tc.path, nil))
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()

		if resp.StatusCode != tc.wantCode {
			t.Fatalf("%s status = %d, want %d", tc.path, resp.StatusCode, tc.wantCode)
		}
		if !strings.Contains(string(body), `"error"`) {
			t.Fatalf("%s body = %s, want error field", tc.path, string(body))
		}

		entries := recorded.All()
		last := entries[len(entries)-1]
		if last.Level != tc.wantLevel {
			t.Fatalf("%s log level = %s, want %s", tc.path, last.Level, tc.wantLevel)
		}
	}
}
