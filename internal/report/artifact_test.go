package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/claims-service/internal/domain"
)

func TestArtifactPathNaming(t *testing.T) {
	w := NewArtifactWriter("/tmp/reports")
	require.Equal(t, filepath.Join("/tmp/reports", "abc_claims_report.csv"), w.Path("abc"))
}

func TestArtifactWriteHeaderOnly(t *testing.T) {
	dir := t.TempDir()
	w := NewArtifactWriter(dir)

	require.NoError(t, w.Write("job-empty", nil))

	records := readCSV(t, w.Path("job-empty"))
	require.Len(t, records, 1, "zero matching claims still yields a header-only file")
	require.Equal(t, []string{"Patient Name", "Diagnosis Code", "Procedure Code", "Status", "Total Claim Amount"}, records[0])
}

func TestArtifactWriteRows(t *testing.T) {
	dir := t.TempDir()
	w := NewArtifactWriter(dir)

	groups := []domain.ClaimAggregate{
		{PatientName: "Jane Doe", DiagnosisCode: 100, ProcedureCode: 200, Status: 2, TotalAmount: 150},
		{PatientName: "John Roe", DiagnosisCode: 101, ProcedureCode: 201, Status: 2, TotalAmount: 99.5},
	}
	require.NoError(t, w.Write("job-1", groups))

	records := readCSV(t, w.Path("job-1"))
	require.Len(t, records, 3)
	require.Equal(t, []string{"Jane Doe", "100", "200", "2", "150.00"}, records[1])
	require.Equal(t, []string{"John Roe", "101", "201", "2", "99.50"}, records[2])
}

func TestArtifactWriteBadDir(t *testing.T) {
	w := NewArtifactWriter(filepath.Join(t.TempDir(), "does", "not", "exist"))
	require.Error(t, w.Write("job-1", nil))
}

func TestArtifactWriteFailureLeavesNoFile(t *testing.T) {
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("requires /dev/full")
	}
	w := NewArtifactWriter(t.TempDir())

	// redirect the staging file to a device that rejects every write
	tmpPath := w.Path("job-enospc") + ".tmp"
	require.NoError(t, os.Symlink("/dev/full", tmpPath))

	require.Error(t, w.Write("job-enospc", []domain.ClaimAggregate{
		{PatientName: "Jane Doe", DiagnosisCode: 100, ProcedureCode: 200, Status: 2, TotalAmount: 150},
	}))

	_, err := os.Stat(w.Path("job-enospc"))
	require.True(t, os.IsNotExist(err), "a failed write must not leave an artifact")
	_, err = os.Lstat(tmpPath)
	require.True(t, os.IsNotExist(err), "the staging file is removed on failure")
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	return records
}
