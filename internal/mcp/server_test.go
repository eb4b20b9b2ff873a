package mcp

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"impltrack/internal/exporter"
	"impltrack/internal/models"
	"impltrack/internal/store"
)

// newTestServer builds a Server over a real file store in a temp dir.
func newTestServer(t *testing.T) (*Server, store.Store) {
	t.Helper()
	dir := t.TempDir()

	s := store.NewFileStore(filepath.Join(dir, "tracker_data.json"))
	require.NoError(t, s.Load())

	srv := NewServer(s, exporter.New(filepath.Join(dir, "exports")))
	require.NotNil(t, srv)
	return srv, s
}

// callToolReq builds a mcpgo.CallToolRequest with the given name and arguments.
func callToolReq(name string, args map[string]any) mcpgo.CallToolRequest {
	return mcpgo.CallToolRequest{
		Params: mcpgo.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

// resultText extracts the concatenated text from a CallToolResult.
func resultText(t *testing.T, result *mcpgo.CallToolResult) string {
	t.Helper()
	var b strings.Builder
	for _, c := range result.Content {
		tc, ok := c.(mcpgo.TextContent)
		if ok {
			b.WriteString(tc.Text)
		}
	}
	return b.String()
}

// resultJSON parses the text result as JSON into the provided target.
func resultJSON(t *testing.T, result *mcpgo.CallToolResult, target any) {
	t.Helper()
	text := resultText(t, result)
	err := json.Unmarshal([]byte(text), target)
	require.NoError(t, err, "failed to parse result JSON: %s", text)
}

// seedProject adds a project to the store and returns it.
func seedProject(t *testing.T, s store.Store, name string) *models.Project {
	t.Helper()
	p := models.NewProject("", name)
	require.NoError(t, s.Add(p))
	return p
}

func TestNewServer_Registration(t *testing.T) {
	srv, _ := newTestServer(t)
	mcpSrv := srv.MCPServer()
	require.NotNil(t, mcpSrv, "MCPServer() should return non-nil")
}

func TestHandleListProjects(t *testing.T) {
	srv, s := newTestServer(t)
	ctx := context.Background()

	seedProject(t, s, "alpha")
	seedProject(t, s, "beta")

	result, err := srv.handleListProjects(ctx, callToolReq("track_list_projects", nil))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var projects []map[string]any
	resultJSON(t, result, &projects)
	require.Len(t, projects, 2)
	assert.Equal(t, "alpha", projects[0]["project_name"])
	assert.Equal(t, true, projects[0]["ready_for_export"])
}

func TestHandleProjectStatus_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)
	ctx := context.Background()

	result, err := srv.handleProjectStatus(ctx, callToolReq("track_project_status", map[string]any{"project": "missing"}))
	require.NoError(t, err, "handler should not return Go error; should wrap in result")
	assert.True(t, result.IsError)
}

func TestHandleAddAndUpdateIssue(t *testing.T) {
	srv, s := newTestServer(t)
	ctx := context.Background()

	seedProject(t, s, "alpha")

	result, err := srv.handleAddIssue(ctx, callToolReq("track_add_issue", map[string]any{
		"project": "alpha",
		"title":   "login crashes",
		"impact":  "high",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, resultText(t, result))

	var created map[string]any
	resultJSON(t, result, &created)
	assert.Equal(t, "ISS001", created["issue_id"])
	assert.Equal(t, "discovered", created["current_status"])

	result, err = srv.handleUpdateIssue(ctx, callToolReq("track_update_issue", map[string]any{
		"project":  "alpha",
		"issue_id": "ISS001",
		"status":   "resolved",
		"notes":    "fixed null check",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, resultText(t, result))

	var updated map[string]any
	resultJSON(t, result, &updated)
	assert.Equal(t, "resolved", updated["current_status"])
	assert.Equal(t, float64(2), updated["history_length"])

	// Mutation persisted through the store.
	p, err := s.GetByName("alpha")
	require.NoError(t, err)
	assert.Equal(t, models.IssueStatusResolved, p.Issues[0].CurrentStatus)
}

func TestHandleUpdateIssue_UnknownID(t *testing.T) {
	srv, s := newTestServer(t)
	ctx := context.Background()

	seedProject(t, s, "alpha")

	result, err := srv.handleUpdateIssue(ctx, callToolReq("track_update_issue", map[string]any{
		"project":  "alpha",
		"issue_id": "ISS999",
		"status":   "resolved",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleBulkImport(t *testing.T) {
	srv, s := newTestServer(t)
	ctx := context.Background()

	seedProject(t, s, "alpha")

	payload := `{"bugs": [{"title": "off by one", "severity": "low"}],
		"test_results": [{"function_name": "save", "result": "pass"}]}`

	result, err := srv.handleBulkImport(ctx, callToolReq("track_bulk_import", map[string]any{
		"project": "alpha",
		"payload": payload,
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, resultText(t, result))

	var stats map[string]any
	resultJSON(t, result, &stats)
	assert.Equal(t, float64(1), stats["bugs"])
	assert.Equal(t, float64(1), stats["test_results"])
	assert.Empty(t, stats["errors"])

	p, err := s.GetByName("alpha")
	require.NoError(t, err)
	assert.Len(t, p.Bugs, 1)
	assert.Len(t, p.TestResults, 1)
}

func TestHandleExportProject_Blocked(t *testing.T) {
	srv, s := newTestServer(t)
	ctx := context.Background()

	p := seedProject(t, s, "alpha")
	p.AddBug("broken save", "", models.SeverityHigh)
	require.NoError(t, s.Update(p))

	result, err := srv.handleExportProject(ctx, callToolReq("track_export_project", map[string]any{"project": "alpha"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "unresolved bug")
}

func TestHandleExportProject_Ready(t *testing.T) {
	srv, s := newTestServer(t)
	ctx := context.Background()

	seedProject(t, s, "alpha")

	result, err := srv.handleExportProject(ctx, callToolReq("track_export_project", map[string]any{"project": "alpha"}))
	require.NoError(t, err)
	require.False(t, result.IsError, resultText(t, result))

	var out map[string]any
	resultJSON(t, result, &out)
	assert.NotEmpty(t, out["filepath"])
	assert.NotEmpty(t, out["checksum"])
}

func TestHandleStatusPrompt(t *testing.T) {
	srv, s := newTestServer(t)
	ctx := context.Background()

	p := seedProject(t, s, "alpha")
	p.AddIssue("slow startup", "", models.ImpactLow)
	require.NoError(t, s.Update(p))

	result, err := srv.handleStatusPrompt(ctx, callToolReq("track_status_prompt", map[string]any{"project": "alpha"}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "slow startup")
	assert.Contains(t, text, "issue_updates")
}
