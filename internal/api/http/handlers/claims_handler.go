package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/claims-service/internal/api/dto"
	"github.com/spec-kit/claims-service/internal/domain"
	"github.com/spec-kit/claims-service/internal/service"
	"github.com/spec-kit/claims-service/internal/validate"
)

// ClaimsHandler manages claim CRUD endpoints.
type ClaimsHandler struct {
	service *service.ClaimService
}

// NewClaimsHandler constructs handler.
func NewClaimsHandler(claimService *service.ClaimService) *ClaimsHandler {
	return &ClaimsHandler{service: claimService}
}

// List handles GET /claims. All five query parameters are required; the
// repository itself treats each filter as optional.
func (h *ClaimsHandler) List(c *fiber.Ctx) error {
	statusLabel := c.Query("status")
	diagnosisStr := c.Query("diagnosis_code")
	procedureStr := c.Query("procedure_code")
	pageStr := c.Query("page")
	perPageStr := c.Query("per_page")

	if statusLabel == "" || diagnosisStr == "" || procedureStr == "" || pageStr == "" || perPageStr == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "all parameters must be provided"})
	}

	page, err := strconv.Atoi(pageStr)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "page and per_page must be integers"})
	}
	perPage, err := strconv.Atoi(perPageStr)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "page and per_page must be integers"})
	}
	diagnosis, err := strconv.Atoi(diagnosisStr)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "diagnosis_code and procedure_code must be integers"})
	}
	procedure, err := strconv.Atoi(procedureStr)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "diagnosis_code and procedure_code must be integers"})
	}
	statusCode, err := validate.StatusCode(statusLabel)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "status value isn't valid"})
	}

	filter := domain.ClaimFilter{
		DiagnosisCode: &diagnosis,
		ProcedureCode: &procedure,
		Status:        &statusCode,
		Page:          page,
		PerPage:       perPage,
	}
	claims, err := h.service.List(c.Context(), filter)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	rows := make([]dto.ClaimResponse, 0, len(claims))
	for i := range claims {
		rows = append(rows, dto.NewClaimResponse(&claims[i]))
	}
	return c.JSON(fiber.Map{"success": true, "message": rows})
}

// Add handles POST /claims.
func (h *ClaimsHandler) Add(c *fiber.Ctx) error {
	var req dto.CreateClaimRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid payload"})
	}
	if validate.HasNull(req.PatientName, req.DiagnosisCode, req.ProcedureCode, req.ClaimAmount) {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "all data must be provided"})
	}
	if !validate.IsString(req.PatientName) {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "patient_name must be a string"})
	}
	if !validate.AllNumeric(req.DiagnosisCode, req.ProcedureCode, req.ClaimAmount) {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "diagnosis_code and procedure_code must be integers, claim_amount must be a number"})
	}

	diagnosis, _ := validate.Number(req.DiagnosisCode)
	procedure, _ := validate.Number(req.ProcedureCode)
	amount, _ := validate.Number(req.ClaimAmount)

	if _, err := h.service.Add(c.Context(), req.PatientName.(string), int(diagnosis), int(procedure), amount); err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "message": "claim created successfully"})
}

// Get handles GET /claims/:id.
func (h *ClaimsHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "claim_id must be an integer"})
	}

	claim, err := h.service.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "no claim found with id " + c.Params("id")})
		}
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "message": dto.NewClaimResponse(claim)})
}

// UpdateStatus handles PUT /claims/:id.
func (h *ClaimsHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "claim_id must be an integer"})
	}

	var req dto.UpdateClaimStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "status isn't a valid type or value"})
	}
	label, ok := req.Status.(string)
	if !ok {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "status isn't a valid type or value"})
	}
	statusCode, err := validate.StatusCode(label)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "status value isn't valid"})
	}

	// No existence check here: unknown ids report success. Delete below is
	// the strict one. Inherited asymmetry, kept as-is.
	if err := h.service.UpdateStatus(c.Context(), id, statusCode); err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "message": "updated successfully"})
}

// Delete handles DELETE /claims/:id.
func (h *ClaimsHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "claim_id must be an integer"})
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "claim not found"})
		}
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "message": "deleted successfully"})
}
