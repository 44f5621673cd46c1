package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/claims-service/internal/api/http"
	"github.com/spec-kit/claims-service/internal/api/http/handlers"
	"github.com/spec-kit/claims-service/internal/auth"
	"github.com/spec-kit/claims-service/internal/config"
	"github.com/spec-kit/claims-service/internal/domain"
	"github.com/spec-kit/claims-service/internal/events"
	"github.com/spec-kit/claims-service/internal/observability"
	"github.com/spec-kit/claims-service/internal/queue"
	"github.com/spec-kit/claims-service/internal/report"
	"github.com/spec-kit/claims-service/internal/service"
	"github.com/spec-kit/claims-service/internal/worker"
)

// fakeUserRepo is an in-memory repository.UserRepository.
type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[string]*domain.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	copied := *user
	r.users[user.Email] = &copied
	return nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) EmailExists(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.users[email]
	return ok, nil
}

// fakeClaimRepo is an in-memory repository.ClaimRepository mirroring the SQL
// semantics: monotonic ids, unconditional status updates, checked deletes.
type fakeClaimRepo struct {
	mu     sync.Mutex
	claims map[int64]domain.Claim
	nextID int64
}

func newFakeClaimRepo() *fakeClaimRepo {
	return &fakeClaimRepo{claims: make(map[int64]domain.Claim)}
}

func (r *fakeClaimRepo) Create(_ context.Context, claim *domain.Claim) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	claim.ID = r.nextID
	claim.Status = domain.ClaimStatusDenied
	claim.SubmittedAt = time.Now()
	r.claims[claim.ID] = *claim
	return nil
}

func (r *fakeClaimRepo) GetByID(_ context.Context, id int64) (*domain.Claim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	claim, ok := r.claims[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &claim, nil
}

func (r *fakeClaimRepo) List(_ context.Context, filter domain.ClaimFilter) ([]domain.Claim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]domain.Claim, 0, len(r.claims))
	for _, claim := range r.claims {
		if filter.DiagnosisCode != nil && claim.DiagnosisCode != *filter.DiagnosisCode {
			continue
		}
		if filter.ProcedureCode != nil && claim.ProcedureCode != *filter.ProcedureCode {
			continue
		}
		if filter.Status != nil && claim.Status != *filter.Status {
			continue
		}
		all = append(all, claim)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	offset := filter.Offset()
	if offset >= len(all) {
		return []domain.Claim{}, nil
	}
	end := offset + filter.PerPage
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *fakeClaimRepo) Exists(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.claims[id]
	return ok, nil
}

func (r *fakeClaimRepo) UpdateStatus(_ context.Context, statusCode int, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if claim, ok := r.claims[id]; ok {
		claim.Status = statusCode
		r.claims[id] = claim
	}
	// missing rows are not an error, matching the SQL UPDATE
	return nil
}

func (r *fakeClaimRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.claims[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.claims, id)
	return nil
}

func (r *fakeClaimRepo) AggregateByStatus(_ context.Context, statusCode int) ([]domain.ClaimAggregate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	type key struct {
		patient   string
		diagnosis int
		procedure int
	}
	sums := make(map[key]float64)
	for _, claim := range r.claims {
		if claim.Status != statusCode {
			continue
		}
		sums[key{claim.PatientName, claim.DiagnosisCode, claim.ProcedureCode}] += claim.ClaimAmount
	}

	groups := make([]domain.ClaimAggregate, 0, len(sums))
	for k, total := range sums {
		groups = append(groups, domain.ClaimAggregate{
			PatientName:   k.patient,
			DiagnosisCode: k.diagnosis,
			ProcedureCode: k.procedure,
			Status:        statusCode,
			TotalAmount:   total,
		})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].PatientName < groups[j].PatientName })
	return groups, nil
}

// chanQueue is a channel-backed queue.Queue for tests.
type chanQueue struct {
	ch chan queue.Task
}

func newChanQueue() *chanQueue {
	return &chanQueue{ch: make(chan queue.Task, 16)}
}

func (q *chanQueue) Enqueue(_ context.Context, task queue.Task) error {
	q.ch <- task
	return nil
}

func (q *chanQueue) Dequeue(_ context.Context, timeout time.Duration) (*queue.Task, error) {
	select {
	case task := <-q.ch:
		return &task, nil
	case <-time.After(timeout):
		return nil, nil
	}
}

type testEnv struct {
	app      *fiber.App
	token    string
	claims   *fakeClaimRepo
	users    *fakeUserRepo
	registry *report.MemoryRegistry
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := zap.NewNop()
	users := newFakeUserRepo()
	claims := newFakeClaimRepo()
	registry := report.NewMemoryRegistry()
	tasks := newChanQueue()
	artifacts := report.NewArtifactWriter(t.TempDir())
	dispatcher := events.NewInMemoryDispatcher()

	authCfg := config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 60, BcryptCost: 4}
	authService := service.NewAuthService(authCfg, users)
	claimService := service.NewClaimService(claims, logger)
	reportService := service.NewReportService(registry, tasks, artifacts, dispatcher, logger, "http://localhost:8080")

	reportWorker := worker.NewReportWorker(tasks, registry, claims, artifacts, dispatcher, logger, 1)
	reportWorker.Start()
	t.Cleanup(reportWorker.Stop)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, observability.NewMetrics(), 0)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler("claims-service", "test", nil, nil, observability.NewMetrics()),
		Auth:           handlers.NewAuthHandler(authService),
		Claims:         handlers.NewClaimsHandler(claimService),
		Reports:        handlers.NewReportsHandler(reportService),
		AuthMiddleware: auth.NewMiddleware(authService.TokenManager()),
	})

	token, _, err := authService.TokenManager().GenerateToken("jane@example.com")
	require.NoError(t, err)

	return &testEnv{app: app, token: token, claims: claims, users: users, registry: registry}
}

func (e *testEnv) request(t *testing.T, method, path string, body any, authed bool) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}

	resp, err := e.app.Test(req, 5000)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	parsed := map[string]any{}
	if len(raw) > 0 && json.Valid(raw) {
		require.NoError(t, json.Unmarshal(raw, &parsed))
	} else {
		parsed["_raw"] = string(raw)
	}
	return resp, parsed
}
