package domain

// ReportJobStatus enumerates lifecycle states for report jobs. The string
// values are surfaced verbatim on the polling endpoint.
type ReportJobStatus string

const (
	ReportJobInProgress ReportJobStatus = "in progress"
	ReportJobCompleted  ReportJobStatus = "completed"
	ReportJobFailed     ReportJobStatus = "failed"
)

// Terminal reports whether the status can no longer change.
func (s ReportJobStatus) Terminal() bool {
	return s == ReportJobCompleted || s == ReportJobFailed
}
