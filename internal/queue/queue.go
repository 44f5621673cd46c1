// Package queue carries report task descriptors between the submission path
// and the worker pool.
package queue

import (
	"context"
	"time"
)

// Task is the descriptor handed to the worker pool: which job to run and
// which claim status to aggregate.
type Task struct {
	JobID      string `json:"job_id"`
	StatusCode int    `json:"status_code"`
}

// Queue decouples report submission from processing. Enqueue must return
// promptly; Dequeue blocks up to timeout and returns (nil, nil) when no task
// arrived.
type Queue interface {
	Enqueue(ctx context.Context, task Task) error
	Dequeue(ctx context.Context, timeout time.Duration) (*Task, error)
}
