package handlers_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func pollUntilDone(t *testing.T, env *testEnv, taskID string) map[string]any {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		resp, body := env.request(t, http.MethodGet, "/claims/report/"+taskID, nil, true)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		status, _ := body["status"].(string)
		if status == "completed" || status == "failed" {
			return body
		}
		require.Equal(t, "in progress", status)
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("report job %s never finished", taskID)
	return nil
}

func TestReportLifecycle(t *testing.T) {
	env := newTestEnv(t)

	for _, amount := range []float64{100, 50} {
		resp, _ := env.request(t, http.MethodPost, "/claims", map[string]any{
			"patient_name": "Jane Doe", "diagnosis_code": 100, "procedure_code": 200, "claim_amount": amount,
		}, true)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	// freshly added claims default to DENIED
	resp, body := env.request(t, http.MethodPost, "/claims/report", map[string]any{"status": "DENIED"}, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, body["success"])
	taskID := body["task_id"].(string)
	require.NotEmpty(t, taskID)

	result := pollUntilDone(t, env, taskID)
	require.Equal(t, "completed", result["status"])
	link := result["link"].(string)
	require.True(t, strings.HasSuffix(link, "/download/"+taskID))

	resp, raw := env.request(t, http.MethodGet, "/download/"+taskID, nil, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	csv := raw["_raw"].(string)
	lines := strings.Split(strings.TrimSpace(csv), "\n")
	require.Len(t, lines, 2, "two same-group claims aggregate into one row")
	require.Equal(t, "Patient Name,Diagnosis Code,Procedure Code,Status,Total Claim Amount", strings.TrimSpace(lines[0]))
	require.Contains(t, lines[1], "Jane Doe")
	require.Contains(t, lines[1], "150.00")
}

func TestReportWithNoMatchingClaims(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.request(t, http.MethodPost, "/claims/report", map[string]any{"status": "PENDING"}, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	taskID := body["task_id"].(string)

	result := pollUntilDone(t, env, taskID)
	require.Equal(t, "completed", result["status"])
	require.NotEmpty(t, result["link"])

	resp, raw := env.request(t, http.MethodGet, "/download/"+taskID, nil, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Patient Name,Diagnosis Code,Procedure Code,Status,Total Claim Amount",
		strings.TrimSpace(raw["_raw"].(string)), "empty aggregate still downloads a header-only CSV")
}

func TestReportInvalidStatus(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.request(t, http.MethodPost, "/claims/report", map[string]any{"status": "BOGUS"}, true)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	resp, _ = env.request(t, http.MethodPost, "/claims/report", map[string]any{"status": 2}, true)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestReportPollUnknownJob(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.request(t, http.MethodGet, "/claims/report/does-not-exist", nil, true)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.NotContains(t, body, "status", "unknown jobs must not report a default status")
}

func TestDownloadMissingArtifact(t *testing.T) {
	env := newTestEnv(t)

	// valid uuid, but no job ever ran
	resp, _ := env.request(t, http.MethodGet, "/download/6f1e1d9a-0c60-4f8e-9a49-8f2f2b7c6a10", nil, true)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	// not even a uuid
	resp, _ = env.request(t, http.MethodGet, "/download/..%2Fetc%2Fpasswd", nil, true)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
