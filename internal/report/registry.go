// Package report holds the job registry and CSV artifact writer for the
// asynchronous report pipeline.
package report

import (
	"context"
	"errors"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/claims-service/internal/domain"
)

// Registry is the shared job status store. It is written by the submission
// path and the worker, and read by the polling endpoint, so implementations
// must be safe for concurrent use. Registry entries have no expiry.
type Registry interface {
	Set(ctx context.Context, jobID string, status domain.ReportJobStatus) error
	Get(ctx context.Context, jobID string) (domain.ReportJobStatus, bool, error)
}

// MemoryRegistry is the default mutex-guarded in-process backend.
type MemoryRegistry struct {
	mu   sync.RWMutex
	jobs map[string]domain.ReportJobStatus
}

// NewMemoryRegistry creates an empty registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{jobs: make(map[string]domain.ReportJobStatus)}
}

// Set records the job status. A terminal status is never overwritten.
func (r *MemoryRegistry) Set(_ context.Context, jobID string, status domain.ReportJobStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.jobs[jobID]; ok && current.Terminal() {
		return nil
	}
	r.jobs[jobID] = status
	return nil
}

// Get returns the current status and whether the job is known.
func (r *MemoryRegistry) Get(_ context.Context, jobID string) (domain.ReportJobStatus, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	status, ok := r.jobs[jobID]
	return status, ok, nil
}

// RedisRegistry stores job status in Redis so multiple processes can share
// one registry. Keys are not given a TTL to keep poll semantics identical to
// the in-process backend.
type RedisRegistry struct {
	client *redis.Client
	prefix string
}

// NewRedisRegistry creates a registry over the given client.
func NewRedisRegistry(client *redis.Client) *RedisRegistry {
	return &RedisRegistry{client: client, prefix: "claims:report:job:"}
}

func (r *RedisRegistry) Set(ctx context.Context, jobID string, status domain.ReportJobStatus) error {
	return r.client.Set(ctx, r.prefix+jobID, string(status), 0).Err()
}

func (r *RedisRegistry) Get(ctx context.Context, jobID string) (domain.ReportJobStatus, bool, error) {
	val, err := r.client.Get(ctx, r.prefix+jobID).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return domain.ReportJobStatus(val), true, nil
}
