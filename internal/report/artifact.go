package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spec-kit/claims-service/internal/domain"
)

var csvHeader = []string{"Patient Name", "Diagnosis Code", "Procedure Code", "Status", "Total Claim Amount"}

// ArtifactWriter produces the CSV artifact for a completed report job.
type ArtifactWriter struct {
	dir string
}

// NewArtifactWriter writes artifacts into dir.
func NewArtifactWriter(dir string) *ArtifactWriter {
	if dir == "" {
		dir = "."
	}
	return &ArtifactWriter{dir: dir}
}

// Path returns the artifact location for a job id.
func (w *ArtifactWriter) Path(jobID string) string {
	return filepath.Join(w.dir, jobID+"_claims_report.csv")
}

// Write creates the artifact: a header row followed by one row per aggregate
// group. An empty group list still yields a valid header-only file. Rows are
// staged to a temporary file and renamed into place once fully flushed; a
// failed write leaves no artifact at the download path.
func (w *ArtifactWriter) Write(jobID string, groups []domain.ClaimAggregate) (err error) {
	tmpPath := w.Path(jobID) + ".tmp"
	file, err := os.Create(tmpPath)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			file.Close()
			os.Remove(tmpPath)
		}
	}()

	writer := csv.NewWriter(file)
	if err = writer.Write(csvHeader); err != nil {
		return err
	}
	for _, g := range groups {
		record := []string{
			g.PatientName,
			strconv.Itoa(g.DiagnosisCode),
			strconv.Itoa(g.ProcedureCode),
			strconv.Itoa(g.Status),
			fmt.Sprintf("%.2f", g.TotalAmount),
		}
		if err = writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	if err = writer.Error(); err != nil {
		return err
	}
	if err = file.Sync(); err != nil {
		return err
	}
	if err = file.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, w.Path(jobID))
}
