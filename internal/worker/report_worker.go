package worker

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/claims-service/internal/domain"
	"github.com/spec-kit/claims-service/internal/events"
	"github.com/spec-kit/claims-service/internal/queue"
	"github.com/spec-kit/claims-service/internal/report"
)

// dequeueTimeout bounds each blocking pop so workers notice Stop promptly.
const dequeueTimeout = 2 * time.Second

// ReportSource supplies the aggregated rows a report is built from.
type ReportSource interface {
	AggregateByStatus(ctx context.Context, statusCode int) ([]domain.ClaimAggregate, error)
}

// ReportWorker consumes report tasks and produces CSV artifacts. Each task
// ends in exactly one terminal registry state: completed when the artifact
// was written, failed on any aggregation or I/O error.
type ReportWorker struct {
	tasks      queue.Queue
	registry   report.Registry
	source     ReportSource
	artifacts  *report.ArtifactWriter
	dispatcher events.Dispatcher
	logger     *zap.Logger
	workers    int

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewReportWorker builds a worker pool of the given size.
func NewReportWorker(
	tasks queue.Queue,
	registry report.Registry,
	source ReportSource,
	artifacts *report.ArtifactWriter,
	dispatcher events.Dispatcher,
	logger *zap.Logger,
	workers int,
) *ReportWorker {
	if workers <= 0 {
		workers = 1
	}
	return &ReportWorker{
		tasks:      tasks,
		registry:   registry,
		source:     source,
		artifacts:  artifacts,
		dispatcher: dispatcher,
		logger:     logger,
		workers:    workers,
		stopCh:     make(chan struct{}),
	}
}

// Start launches the worker goroutines.
func (w *ReportWorker) Start() {
	for i := 0; i < w.workers; i++ {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			w.run()
		}()
	}
}

// Stop signals the workers and waits for in-flight tasks to finish.
func (w *ReportWorker) Stop() {
	close(w.stopCh)
	w.wg.Wait()
}

func (w *ReportWorker) run() {
	for {
		select {
		case <-w.stopCh:
			return
		default:
		}

		task, err := w.tasks.Dequeue(context.Background(), dequeueTimeout)
		if err != nil {
			w.logger.Error("dequeue report task", zap.Error(err))
			continue
		}
		if task == nil {
			continue
		}
		w.process(*task)
	}
}

func (w *ReportWorker) process(task queue.Task) {
	ctx := context.Background()
	start := time.Now()

	groups, err := w.source.AggregateByStatus(ctx, task.StatusCode)
	if err != nil {
		w.logger.Error("aggregate claims", zap.String("job_id", task.JobID), zap.Error(err))
		w.finish(ctx, task, domain.ReportJobFailed, 0, start)
		return
	}

	if err := w.artifacts.Write(task.JobID, groups); err != nil {
		w.logger.Error("write report artifact", zap.String("job_id", task.JobID), zap.Error(err))
		w.finish(ctx, task, domain.ReportJobFailed, 0, start)
		return
	}

	w.logger.Info("report job completed",
		zap.String("job_id", task.JobID),
		zap.Int("rows", len(groups)),
		zap.Duration("duration", time.Since(start)))
	w.finish(ctx, task, domain.ReportJobCompleted, len(groups), start)
}

func (w *ReportWorker) finish(ctx context.Context, task queue.Task, status domain.ReportJobStatus, rows int, start time.Time) {
	if err := w.registry.Set(ctx, task.JobID, status); err != nil {
		w.logger.Error("update job registry", zap.String("job_id", task.JobID), zap.Error(err))
	}
	if w.dispatcher == nil {
		return
	}
	_ = w.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventReportJobFinished,
		JobID:     task.JobID,
		Timestamp: time.Now(),
		Payload: events.ReportJobFinishedPayload{
			Status:   status,
			Rows:     rows,
			Duration: time.Since(start),
		},
	})
}
