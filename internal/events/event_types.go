package events

import (
	"time"

	"github.com/spec-kit/claims-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventReportJobSubmitted EventType = "report_job_submitted"
	EventReportJobFinished  EventType = "report_job_finished"
)

// Event represents a report pipeline event.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	JobID     string      `json:"job_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ReportJobSubmittedPayload payload.
type ReportJobSubmittedPayload struct {
	StatusLabel string `json:"status_label"`
	StatusCode  int    `json:"status_code"`
}

// ReportJobFinishedPayload payload.
type ReportJobFinishedPayload struct {
	Status   domain.ReportJobStatus `json:"status"`
	Rows     int                    `json:"rows"`
	Duration time.Duration          `json:"duration"`
}
