package domain

import "time"

// Claim status codes as stored in the claims table.
const (
	ClaimStatusDenied   = 0
	ClaimStatusApproved = 1
	ClaimStatusPending  = 2
)

// Claim is a billing record awaiting or past adjudication.
type Claim struct {
	ID            int64
	PatientName   string
	DiagnosisCode int
	ProcedureCode int
	ClaimAmount   float64
	Status        int
	SubmittedAt   time.Time
}

// ClaimAggregate is one group of the per-status report aggregation:
// claims grouped by (patient, diagnosis, procedure, status) with summed amount.
type ClaimAggregate struct {
	PatientName   string
	DiagnosisCode int
	ProcedureCode int
	Status        int
	TotalAmount   float64
}

// ClaimFilter narrows claim listings. Nil filter fields match all rows.
type ClaimFilter struct {
	DiagnosisCode *int
	ProcedureCode *int
	Status        *int
	Page          int
	PerPage       int
}

// Offset converts the 1-indexed page into a row offset.
func (f ClaimFilter) Offset() int {
	page := f.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * f.PerPage
}
