package exporter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"impltrack/internal/checksum"
	"impltrack/internal/models"
)

func TestExport_GateBlocksAndDoesNoIO(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	e := New(dir)

	p := models.NewProject("P001", "blocked")
	p.AddBug("open bug", "", models.SeverityLow)

	_, err := e.Export(p)
	require.Error(t, err)

	var notReady *NotReadyError
	require.ErrorAs(t, err, &notReady)
	assert.Equal(t, []string{"1 unresolved bug(s)"}, notReady.Reasons)

	// No directory, no file, no history entry.
	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr))
	assert.Empty(t, p.ExportHistory)
}

func TestExport_WritesChecksummedSnapshot(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	e := New(dir)

	p := models.NewProject("P001", "ready")
	issue := p.AddIssue("solved already", "", models.ImpactLow)
	p.UpdateIssueStatus(issue.IssueID, models.IssueStatusResolved, "done", "fixed in v2", "manual")
	p.AddUIUXNote("layout", "tighten spacing")

	path, err := e.Export(p)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "export_P001_Phase3.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "P001", doc["project_id"])
	assert.Equal(t, Phase, doc["phase"])
	assert.Contains(t, doc, "issues")
	assert.Contains(t, doc, "import_info")

	// The embedded checksum verifies over everything except itself.
	cs, ok := doc["checksum"].(string)
	require.True(t, ok)
	recomputed, err := checksum.ComputeWithout(doc, "checksum")
	require.NoError(t, err)
	assert.Equal(t, cs, recomputed)

	// One export-history record matching the file.
	require.Len(t, p.ExportHistory, 1)
	assert.Equal(t, "export_P001_Phase3.json", p.ExportHistory[0].Filename)
	assert.Equal(t, cs, p.ExportHistory[0].Checksum)
}

func TestExport_TamperBreaksChecksum(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	e := New(dir)

	p := models.NewProject("P001", "ready")
	path, err := e.Export(p)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	cs := doc["checksum"].(string)

	doc["project_name"] = "tampered"
	recomputed, err := checksum.ComputeWithout(doc, "checksum")
	require.NoError(t, err)
	assert.NotEqual(t, cs, recomputed)
}
