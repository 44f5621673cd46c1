package dto

// GenerateReportRequest payload for report submission. Status is loosely
// typed so non-string values are rejected rather than coerced.
type GenerateReportRequest struct {
	Status any `json:"status"`
}
