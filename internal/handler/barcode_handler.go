package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/kursadbilgin/barcode-dispatch/internal/domain"
)

type SubmissionService interface {
	SubmitSingle(ctx context.Context, name, number string) (domain.GenerationResult, error)
	SubmitBatch(ctx context.Context, text string) (*domain.BatchReport, error)
	Results() []domain.GenerationResult
	Clear() int
}

type DownloadService interface {
	DownloadOne(ctx context.Context, record domain.PatientRecord) (string, error)
	DownloadAll(ctx context.Context) (*domain.DownloadReport, error)
}

type BarcodeHandler struct {
	submissions SubmissionService
	downloads   DownloadService
}

func NewBarcodeHandler(submissions SubmissionService, downloads DownloadService) (*BarcodeHandler, error) {
	if submissions == nil {
		return nil, fmt.Errorf("submission service is required")
	}
	if downloads == nil {
		return nil, fmt.Errorf("download service is required")
	}
	return &BarcodeHandler{submissions: submissions, downloads: downloads}, nil
}

func RegisterBarcodeRoutes(router fiber.Router, submissions SubmissionService, downloads DownloadService) error {
	h, err := NewBarcodeHandler(submissions, downloads)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1")
	v1.Post("/barcodes", h.CreateBarcode)
	v1.Post("/barcodes/batch", h.CreateBatch)
	v1.Get("/barcodes", h.ListBarcodes)
	v1.Delete("/barcodes", h.ClearBarcodes)
	v1.Post("/barcodes/download", h.DownloadBarcode)
	v1.Post("/barcodes/download-all", h.DownloadAll)

	return nil
}

type patientRequest struct {
	PatientName   string `json:"patient_name"`
	PatientNumber string `json:"patient_number"`
}

type batchRequest struct {
	Data string `json:"data"`
}

type listBarcodesResponse struct {
	Data                 []domain.GenerationResult `json:"data"`
	DownloadAllAvailable bool                      `json:"downloadAllAvailable"`
}

func (h *BarcodeHandler) CreateBarcode(c *fiber.Ctx) error {
	var req patientRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.submissions.SubmitSingle(operationContext(c), req.PatientName, req.PatientNumber)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *BarcodeHandler) CreateBatch(c *fiber.Ctx) error {
	var req batchRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	report, err := h.submissions.SubmitBatch(operationContext(c), req.Data)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(report)
}

func (h *BarcodeHandler) ListBarcodes(c *fiber.Ctx) error {
	results := h.submissions.Results()
	return c.Status(fiber.StatusOK).JSON(listBarcodesResponse{
		Data:                 results,
		DownloadAllAvailable: len(results) > 0,
	})
}

func (h *BarcodeHandler) ClearBarcodes(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"cleared": h.submissions.Clear(),
	})
}

func (h *BarcodeHandler) DownloadBarcode(c *fiber.Ctx) error {
	var req patientRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	record := domain.PatientRecord{
		Name:   strings.TrimSpace(req.PatientName),
		Number: strings.TrimSpace(req.PatientNumber),
	}
	if err := record.Validate(); err != nil {
		return err
	}

	path, err := h.downloads.DownloadOne(operationContext(c), record)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"filename": path,
	})
}

func (h *BarcodeHandler) DownloadAll(c *fiber.Ctx) error {
	report, err := h.downloads.DownloadAll(operationContext(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(report)
}

// operationContext detaches the operation from the request so a client
// disconnect does not abort a running batch.
func operationContext(c *fiber.Ctx) context.Context {
	return context.WithoutCancel(c.UserContext())
}
