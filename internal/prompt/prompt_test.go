package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"impltrack/internal/config"
	"impltrack/internal/models"
)

func seededProject() *models.Project {
	p := models.NewProject("P001", "inventory-app")
	p.ImportInfo.Phase1Data = map[string]any{
		"main_features": []any{"search", "export"},
	}
	p.ImportInfo.DesignData = map[string]any{
		"tech_stack": map[string]any{
			"gui_framework": "none (CLI)",
			"data_storage":  "JSON",
		},
		"data_models": []any{
			map[string]any{"model_name": "Item", "description": "stock item"},
		},
	}

	issue := p.AddIssue("save corrupts file", "partial write on crash", models.ImpactHigh)
	p.UpdateIssueStatus(issue.IssueID, models.IssueStatusInProgress, "reproducing", "", "manual")
	p.UpdateIssueStatus(issue.IssueID, models.IssueStatusRecurred, "came back after patch", "", "manual")

	p.AddCodeRequest("atomicSave", "write temp then rename", []string{issue.IssueID}, models.RequestStatusPending)
	p.AddCodeRequest("loadItems", "read the JSON store", nil, models.RequestStatusReceived)
	return p
}

func TestStatus_ContainsAllSections(t *testing.T) {
	out := Status(seededProject())

	assert.Contains(t, out, "## Project")
	assert.Contains(t, out, "Project ID: P001")
	assert.Contains(t, out, "search, export")

	assert.Contains(t, out, "## Issue history (complete)")
	assert.Contains(t, out, "[OPEN] ISS001: save corrupts file (recurred 1x)")
	assert.Contains(t, out, "[recurred] came back after patch")

	assert.Contains(t, out, "## Code request status")
	assert.Contains(t, out, "Pending: 1")
	assert.Contains(t, out, "atomicSave (related issues: ISS001)")

	// The bulk-update schema block must be present for the assistant.
	assert.Contains(t, out, `"issue_updates"`)
	assert.Contains(t, out, `"new_status": "discovered/in_progress/resolved/recurred"`)
}

func TestStatus_EmptyProject(t *testing.T) {
	out := Status(models.NewProject("P002", "empty"))
	assert.Contains(t, out, "(no issues recorded yet)")
	assert.Contains(t, out, "(no code requests yet)")
}

func TestImplementation_IncludesDesignContext(t *testing.T) {
	p := seededProject()
	out := Implementation(p, p.CodeRequests[0])

	assert.Contains(t, out, "**Function:** atomicSave")
	assert.Contains(t, out, "write temp then rename")
	assert.Contains(t, out, "Related issues:** ISS001")
	assert.Contains(t, out, "data_storage: JSON")
	assert.Contains(t, out, "Item: stock item")
	assert.Contains(t, out, `"files"`)
}

func TestParseCodeResponse(t *testing.T) {
	resp, err := ParseCodeResponse([]byte(`{
		"files": [{"filename": "a.go", "filepath": "./a.go", "content": "package a"}],
		"dependencies": ["fmt"],
		"installation_notes": "none"
	}`))
	require.NoError(t, err)
	assert.Len(t, resp.Files, 1)

	_, err = ParseCodeResponse([]byte(`{"files": []}`))
	assert.Error(t, err)

	_, err = ParseCodeResponse([]byte(`{"files": [{"filename": "a.go"}]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file 1")
}

func TestShellScript_Dialects(t *testing.T) {
	files := []CodeFile{
		{Filename: "store.go", Filepath: "./internal/store.go", Content: "package store"},
	}

	ps := ShellScript("/work/dir", config.ShellPowerShell, files)
	assert.Contains(t, ps, "cd '/work/dir'")
	assert.Contains(t, ps, "New-Item -ItemType Directory -Force -Path './internal'")
	assert.Contains(t, ps, "$store_go = @'")
	assert.Contains(t, ps, "Out-File -FilePath './internal/store.go'")

	sh := ShellScript("/work/dir", config.ShellBash, files)
	assert.Contains(t, sh, "mkdir -p './internal'")
	assert.Contains(t, sh, "cat > './internal/store.go'")
	assert.Contains(t, sh, "package store")

	cmd := ShellScript(`C:\work`, config.ShellCmd, files)
	assert.Contains(t, cmd, `cd /d "C:\work"`)
}
