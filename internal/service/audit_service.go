package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/claims-service/internal/events"
)

// AuditService logs report pipeline events so the job history is visible in
// the service logs even though registry entries carry only the latest status.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to report pipeline events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventReportJobSubmitted, a.handleSubmitted)
	a.dispatcher.Subscribe(events.EventReportJobFinished, a.handleFinished)
}

func (a *AuditService) handleSubmitted(_ context.Context, event events.Event) error {
	a.logger.Info("ReportJobSubmitted", zap.String("job_id", event.JobID), zap.Any("payload", event.Payload))
	return nil
}

func (a *AuditService) handleFinished(_ context.Context, event events.Event) error {
	a.logger.Info("ReportJobFinished", zap.String("job_id", event.JobID), zap.Any("payload", event.Payload))
	return nil
}
