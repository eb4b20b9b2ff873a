package importer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"impltrack/internal/checksum"
)

func writeSnapshot(t *testing.T, doc map[string]any) string {
	t.Helper()
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "phase2_export.json")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func validDoc() map[string]any {
	return map[string]any{
		"source":      ExpectedSource,
		"exported_at": "2026-08-01T10:00:00Z",
		"project": map[string]any{
			"project_id":         "P001",
			"project_name":       "inventory-app",
			"original_phase1_id": "PH1-42",
			"phase1_data":        map[string]any{"main_features": []any{"search", "export"}},
			"design_data":        map[string]any{"tech_stack": map[string]any{"data_storage": "JSON"}},
		},
	}
}

func TestImportSnapshot_Valid(t *testing.T) {
	im := New(filepath.Join(t.TempDir(), "imports"))
	path := writeSnapshot(t, validDoc())

	p, err := im.ImportSnapshot(path)
	require.NoError(t, err)

	assert.Equal(t, "P001", p.ProjectID)
	assert.Equal(t, "inventory-app", p.ProjectName)
	assert.Equal(t, "phase2_export.json", p.ImportInfo.SourceFile)
	assert.Equal(t, "2026-08-01T10:00:00Z", p.ImportInfo.Phase2ExportDate)
	assert.Equal(t, "PH1-42", p.ImportInfo.OriginalPhase1ID)
	assert.Contains(t, p.ImportInfo.DesignData, "tech_stack")

	// Ingested file is archived.
	archived := filepath.Join(im.importsDir, "phase2_export.json")
	_, err = os.Stat(archived)
	assert.NoError(t, err)
}

func TestImportSnapshot_RejectsWrongSource(t *testing.T) {
	im := New(filepath.Join(t.TempDir(), "imports"))
	doc := validDoc()
	doc["source"] = "Phase1_Planning"
	path := writeSnapshot(t, doc)

	_, err := im.ImportSnapshot(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source marker")
}

func TestImportSnapshot_RejectsMissingProjectFields(t *testing.T) {
	im := New(filepath.Join(t.TempDir(), "imports"))

	doc := validDoc()
	doc["project"] = map[string]any{"project_id": ""}
	path := writeSnapshot(t, doc)

	_, err := im.ImportSnapshot(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project.project_id")
	assert.Contains(t, err.Error(), "project.project_name")

	delete(doc, "project")
	path = writeSnapshot(t, doc)
	_, err = im.ImportSnapshot(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'project' is missing")
}

func TestImportSnapshot_ChecksumVerification(t *testing.T) {
	im := New(filepath.Join(t.TempDir(), "imports"))

	doc := validDoc()
	sum, err := checksum.Compute(doc)
	require.NoError(t, err)
	doc["checksum"] = sum

	path := writeSnapshot(t, doc)
	p, err := im.ImportSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, "P001", p.ProjectID)

	// Any tampering after checksum computation rejects the whole file.
	doc["exported_at"] = "2026-08-02T10:00:00Z"
	path = writeSnapshot(t, doc)
	_, err = im.ImportSnapshot(path)
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}

func TestImportSnapshot_MalformedFile(t *testing.T) {
	im := New(filepath.Join(t.TempDir(), "imports"))
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{oops"), 0644))

	_, err := im.ImportSnapshot(path)
	assert.Error(t, err)

	_, err = im.ImportSnapshot(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
