// Package exporter produces the checksummed Phase 3 snapshot consumed by the
// next phase. Export is gated on project readiness and touches nothing on
// disk until the gate passes.
package exporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"impltrack/internal/checksum"
	"impltrack/internal/models"
)

// Phase is the phase marker embedded in every exported snapshot.
const Phase = "Phase3"

// NotReadyError reports why a project failed the export gate.
type NotReadyError struct {
	Reasons []string
}

func (e *NotReadyError) Error() string {
	return "project not ready for export: " + strings.Join(e.Reasons, "; ")
}

// Snapshot is the exported document. Checksum covers the canonical JSON of
// every other field.
type Snapshot struct {
	ProjectID     string                `json:"project_id"`
	ProjectName   string                `json:"project_name"`
	Phase         string                `json:"phase"`
	ExportDate    time.Time             `json:"export_date"`
	CodeRequests  []models.CodeRequest  `json:"code_requests"`
	DeployedFiles []models.DeployedFile `json:"deployed_files"`
	TestResults   []models.TestResult   `json:"test_results"`
	Bugs          []models.Bug          `json:"bugs"`
	UIUXNotes     []models.UIUXNote     `json:"ui_ux_notes"`
	Issues        []*models.Issue       `json:"issues"`
	ImportInfo    models.ImportInfo     `json:"import_info"`
	Checksum      string                `json:"checksum,omitempty"`
}

// Exporter writes snapshots into a fixed exports directory.
type Exporter struct {
	exportsDir string
}

// New creates an Exporter that writes into exportsDir.
func New(exportsDir string) *Exporter {
	return &Exporter{exportsDir: exportsDir}
}

// Export validates readiness, writes the checksummed snapshot, and appends
// one export-history record. It returns the path of the written file.
func (e *Exporter) Export(p *models.Project) (string, error) {
	ready, reasons := p.IsReadyForExport()
	if !ready {
		return "", &NotReadyError{Reasons: reasons}
	}

	snap := Snapshot{
		ProjectID:     p.ProjectID,
		ProjectName:   p.ProjectName,
		Phase:         Phase,
		ExportDate:    time.Now().UTC(),
		CodeRequests:  p.CodeRequests,
		DeployedFiles: p.DeployedFiles,
		TestResults:   p.TestResults,
		Bugs:          p.Bugs,
		UIUXNotes:     p.UIUXNotes,
		Issues:        p.Issues,
		ImportInfo:    p.ImportInfo,
	}

	// Checksum is computed while the field is still empty, so omitempty
	// keeps it out of the hashed payload.
	sum, err := checksum.Compute(snap)
	if err != nil {
		return "", fmt.Errorf("compute checksum: %w", err)
	}
	snap.Checksum = sum

	if err := os.MkdirAll(e.exportsDir, 0755); err != nil {
		return "", fmt.Errorf("create exports directory: %w", err)
	}

	filename := fmt.Sprintf("export_%s_%s.json", p.ProjectID, Phase)
	path := filepath.Join(e.exportsDir, filename)

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	p.AddExportRecord(filename, sum)
	return path, nil
}
