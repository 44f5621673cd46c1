package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/claims-service/internal/domain"
	"github.com/spec-kit/claims-service/internal/events"
	"github.com/spec-kit/claims-service/internal/queue"
	"github.com/spec-kit/claims-service/internal/report"
	"github.com/spec-kit/claims-service/internal/validate"
)

// ReportService owns the submit and poll halves of the report job lifecycle.
// Processing happens in the worker pool; the only shared state is the
// registry and the queue.
type ReportService struct {
	registry      report.Registry
	tasks         queue.Queue
	artifacts     *report.ArtifactWriter
	dispatcher    events.Dispatcher
	logger        *zap.Logger
	publicBaseURL string
}

// NewReportService builds the service.
func NewReportService(
	registry report.Registry,
	tasks queue.Queue,
	artifacts *report.ArtifactWriter,
	dispatcher events.Dispatcher,
	logger *zap.Logger,
	publicBaseURL string,
) *ReportService {
	return &ReportService{
		registry:      registry,
		tasks:         tasks,
		artifacts:     artifacts,
		dispatcher:    dispatcher,
		logger:        logger,
		publicBaseURL: publicBaseURL,
	}
}

// Submit validates the status label, registers a fresh job as in-progress and
// enqueues a task descriptor. It returns the job id immediately; the caller
// learns the outcome by polling. A failed enqueue marks the job failed so
// pollers never see a job stuck in progress.
func (s *ReportService) Submit(ctx context.Context, statusLabel string) (string, error) {
	code, err := validate.StatusCode(statusLabel)
	if err != nil {
		return "", err
	}

	jobID := uuid.NewString()
	if err := s.registry.Set(ctx, jobID, domain.ReportJobInProgress); err != nil {
		return "", err
	}

	if err := s.tasks.Enqueue(ctx, queue.Task{JobID: jobID, StatusCode: code}); err != nil {
		s.logger.Error("enqueue report task", zap.String("job_id", jobID), zap.Error(err))
		_ = s.registry.Set(ctx, jobID, domain.ReportJobFailed)
		return "", err
	}

	s.logger.Info("report job submitted", zap.String("job_id", jobID), zap.String("status", statusLabel))
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventReportJobSubmitted,
		JobID:     jobID,
		Timestamp: time.Now(),
		Payload:   events.ReportJobSubmittedPayload{StatusLabel: statusLabel, StatusCode: code},
	})
	return jobID, nil
}

// Status returns the current job status. For completed jobs it also returns
// the download link. The second return is false for unknown job ids.
func (s *ReportService) Status(ctx context.Context, jobID string) (domain.ReportJobStatus, string, bool, error) {
	status, found, err := s.registry.Get(ctx, jobID)
	if err != nil || !found {
		return "", "", found, err
	}

	link := ""
	if status == domain.ReportJobCompleted {
		link = fmt.Sprintf("%s/download/%s", s.publicBaseURL, jobID)
	}
	return status, link, true, nil
}

// ArtifactPath locates the CSV artifact for a job id.
func (s *ReportService) ArtifactPath(jobID string) string {
	return s.artifacts.Path(jobID)
}
