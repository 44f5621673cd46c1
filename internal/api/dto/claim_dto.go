package dto

import (
	"time"

	"github.com/spec-kit/claims-service/internal/domain"
)

// CreateClaimRequest payload for new claims. Fields are loosely typed so the
// handler can distinguish absent, null and wrongly typed values before
// anything touches storage.
type CreateClaimRequest struct {
	PatientName   any `json:"patient_name"`
	DiagnosisCode any `json:"diagnosis_code"`
	ProcedureCode any `json:"procedure_code"`
	ClaimAmount   any `json:"claim_amount"`
}

// UpdateClaimStatusRequest payload for status updates.
type UpdateClaimStatusRequest struct {
	Status any `json:"status"`
}

// ClaimResponse is the row shape returned by claim endpoints.
type ClaimResponse struct {
	ID            int64     `json:"id"`
	PatientName   string    `json:"patient_name"`
	DiagnosisCode int       `json:"diagnosis_code"`
	ProcedureCode int       `json:"procedure_code"`
	ClaimAmount   float64   `json:"claim_amount"`
	Status        int       `json:"status"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

// NewClaimResponse maps a domain claim to its response shape.
func NewClaimResponse(claim *domain.Claim) ClaimResponse {
	return ClaimResponse{
		ID:            claim.ID,
		PatientName:   claim.PatientName,
		DiagnosisCode: claim.DiagnosisCode,
		ProcedureCode: claim.ProcedureCode,
		ClaimAmount:   claim.ClaimAmount,
		Status:        claim.Status,
		SubmittedAt:   claim.SubmittedAt,
	}
}
