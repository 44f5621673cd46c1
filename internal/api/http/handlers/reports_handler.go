package handlers

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/claims-service/internal/api/dto"
	"github.com/spec-kit/claims-service/internal/service"
	"github.com/spec-kit/claims-service/internal/validate"
)

// ReportsHandler exposes the async report lifecycle: submit, poll, download.
type ReportsHandler struct {
	service *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reportService *service.ReportService) *ReportsHandler {
	return &ReportsHandler{service: reportService}
}

// Generate handles POST /claims/report.
func (h *ReportsHandler) Generate(c *fiber.Ctx) error {
	var req dto.GenerateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "status isn't a valid type or value"})
	}
	if !validate.IsString(req.Status) {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "status isn't a valid type or value"})
	}

	taskID, err := h.service.Submit(c.Context(), req.Status.(string))
	if err != nil {
		if errors.Is(err, validate.ErrUnknownStatus) {
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "status isn't a valid type or value"})
		}
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true, "task_id": taskID})
}

// Status handles GET /claims/report/:task_id.
func (h *ReportsHandler) Status(c *fiber.Ctx) error {
	taskID := c.Params("task_id")

	status, link, found, err := h.service.Status(c.Context(), taskID)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	if !found {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"message": "cannot find job id"})
	}

	resp := fiber.Map{"status": status}
	if link != "" {
		resp["link"] = link
	}
	return c.JSON(resp)
}

// Download handles GET /download/:task_id.
func (h *ReportsHandler) Download(c *fiber.Ctx) error {
	taskID := c.Params("task_id")
	// job ids are UUIDs; anything else cannot name an artifact
	if _, err := uuid.Parse(taskID); err != nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": true, "message": "file not found or has been removed"})
	}

	path := h.service.ArtifactPath(taskID)
	if _, err := os.Stat(path); err != nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": true, "message": "file not found or has been removed"})
	}
	return c.Download(path, filepath.Base(path))
}
