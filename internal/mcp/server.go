// Package mcp exposes the tracker to AI assistants over the Model Context
// Protocol, so the assistant that produces bulk updates can also apply them.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"impltrack/internal/bulkimport"
	"impltrack/internal/exporter"
	"impltrack/internal/models"
	"impltrack/internal/prompt"
	"impltrack/internal/store"
)

// Server wraps the tracker data layer and exposes it as MCP tools.
type Server struct {
	store    store.Store
	exporter *exporter.Exporter
}

// NewServer creates the MCP server wrapper.
func NewServer(s store.Store, e *exporter.Exporter) *Server {
	return &Server{store: s, exporter: e}
}

// MCPServer returns a configured mcp-go server with all tools registered.
func (s *Server) MCPServer() *server.MCPServer {
	srv := server.NewMCPServer("impltrack", "1.0.0", server.WithToolCapabilities(true))

	srv.AddTool(s.listProjectsTool())
	srv.AddTool(s.projectStatusTool())
	srv.AddTool(s.addIssueTool())
	srv.AddTool(s.updateIssueTool())
	srv.AddTool(s.bulkImportTool())
	srv.AddTool(s.exportProjectTool())
	srv.AddTool(s.statusPromptTool())

	return srv
}

// ServeStdio starts the stdio transport, blocking until ctx is cancelled.
func (s *Server) ServeStdio(ctx context.Context) error {
	srv := s.MCPServer()
	stdioServer := server.NewStdioServer(srv)
	return stdioServer.Listen(ctx, os.Stdin, os.Stdout)
}

// ---------------------------------------------------------------------------
// Tool definitions and handlers
// ---------------------------------------------------------------------------

// track_list_projects
func (s *Server) listProjectsTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("track_list_projects",
		mcp.WithDescription("List all tracked implementation projects. Returns a JSON array with project_id, project_name, counts, and export readiness."),
	)
	return tool, s.handleListProjects
}

func (s *Server) handleListProjects(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	type projectOut struct {
		ProjectID        string `json:"project_id"`
		ProjectName      string `json:"project_name"`
		Issues           int    `json:"issues"`
		UnresolvedIssues int    `json:"unresolved_issues"`
		UnresolvedBugs   int    `json:"unresolved_bugs"`
		PendingRequests  int    `json:"pending_requests"`
		Ready            bool   `json:"ready_for_export"`
	}

	projects := s.store.Projects()
	out := make([]projectOut, len(projects))
	for i, p := range projects {
		ready, _ := p.IsReadyForExport()
		out[i] = projectOut{
			ProjectID:        p.ProjectID,
			ProjectName:      p.ProjectName,
			Issues:           len(p.Issues),
			UnresolvedIssues: p.UnresolvedIssuesCount(),
			UnresolvedBugs:   p.UnresolvedBugsCount(),
			PendingRequests:  p.PendingRequestsCount(),
			Ready:            ready,
		}
	}

	data, err := json.Marshal(out)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal projects: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// track_project_status
func (s *Server) projectStatusTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("track_project_status",
		mcp.WithDescription("Get detailed status for one project: issue ledger summary, request/bug/test counts, and export readiness with reasons."),
		mcp.WithString("project", mcp.Required(), mcp.Description("Project name or id")),
	)
	return tool, s.handleProjectStatus
}

func (s *Server) handleProjectStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("project")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: project"), nil
	}

	p, err := s.resolveProject(name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("project not found: %s", name)), nil
	}

	ready, reasons := p.IsReadyForExport()
	if reasons == nil {
		reasons = []string{}
	}

	issues := make([]map[string]any, len(p.Issues))
	for i, issue := range p.Issues {
		issues[i] = map[string]any{
			"issue_id":         issue.IssueID,
			"title":            issue.Title,
			"impact":           string(issue.Impact),
			"current_status":   string(issue.CurrentStatus),
			"recurrence_count": issue.RecurrenceCount,
			"history_length":   len(issue.History),
			"last_updated":     issue.LastUpdated.Format(time.RFC3339),
		}
	}

	result := map[string]any{
		"project_id":   p.ProjectID,
		"project_name": p.ProjectName,
		"issues":       issues,
		"counts": map[string]any{
			"code_requests":     len(p.CodeRequests),
			"pending_requests":  p.PendingRequestsCount(),
			"deployed_files":    len(p.DeployedFiles),
			"test_results":      len(p.TestResults),
			"bugs":              len(p.Bugs),
			"unresolved_bugs":   p.UnresolvedBugsCount(),
			"unresolved_issues": p.UnresolvedIssuesCount(),
		},
		"ready_for_export": ready,
		"blocking_reasons": reasons,
	}

	data, err := json.Marshal(result)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal status: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// track_add_issue
func (s *Server) addIssueTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("track_add_issue",
		mcp.WithDescription("Record a new issue for a project. The issue starts at status discovered with one history entry."),
		mcp.WithString("project", mcp.Required(), mcp.Description("Project name or id")),
		mcp.WithString("title", mcp.Required(), mcp.Description("Issue title")),
		mcp.WithString("description", mcp.Description("Issue description")),
		mcp.WithString("impact", mcp.Description("Impact: low, medium, high (default: medium)")),
	)
	return tool, s.handleAddIssue
}

func (s *Server) handleAddIssue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("project")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: project"), nil
	}
	title, err := request.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: title"), nil
	}

	p, err := s.resolveProject(name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("project not found: %s", name)), nil
	}

	impact, err := models.ParseImpact(request.GetString("impact", ""), models.ImpactMedium)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	issue := p.AddIssue(title, request.GetString("description", ""), impact)
	if err := s.store.Update(p); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to save: %v", err)), nil
	}

	result := map[string]any{
		"issue_id":       issue.IssueID,
		"title":          issue.Title,
		"impact":         string(issue.Impact),
		"current_status": string(issue.CurrentStatus),
	}
	data, _ := json.Marshal(result)
	return mcp.NewToolResultText(string(data)), nil
}

// track_update_issue
func (s *Server) updateIssueTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("track_update_issue",
		mcp.WithDescription("Append a status transition to an issue's history. Any status may follow any status; transitioning to recurred increments the recurrence count."),
		mcp.WithString("project", mcp.Required(), mcp.Description("Project name or id")),
		mcp.WithString("issue_id", mcp.Required(), mcp.Description("Issue id (e.g. ISS001)")),
		mcp.WithString("status", mcp.Required(), mcp.Description("New status: discovered, in_progress, resolved, recurred")),
		mcp.WithString("notes", mcp.Description("What happened")),
		mcp.WithString("resolution", mcp.Description("Fix description, when resolved")),
	)
	return tool, s.handleUpdateIssue
}

func (s *Server) handleUpdateIssue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("project")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: project"), nil
	}
	issueID, err := request.RequireString("issue_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: issue_id"), nil
	}
	statusStr, err := request.RequireString("status")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: status"), nil
	}

	p, err := s.resolveProject(name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("project not found: %s", name)), nil
	}

	status, err := models.ParseIssueStatus(statusStr)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	issue := p.IssueByID(issueID)
	if issue == nil {
		return mcp.NewToolResultError(fmt.Sprintf("issue not found: %s", issueID)), nil
	}

	p.UpdateIssueStatus(issueID, status, request.GetString("notes", ""), request.GetString("resolution", ""), "mcp")
	if err := s.store.Update(p); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to save: %v", err)), nil
	}

	result := map[string]any{
		"issue_id":         issue.IssueID,
		"current_status":   string(issue.CurrentStatus),
		"recurrence_count": issue.RecurrenceCount,
		"history_length":   len(issue.History),
	}
	data, _ := json.Marshal(result)
	return mcp.NewToolResultText(string(data)), nil
}

// track_bulk_import
func (s *Server) bulkImportTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("track_bulk_import",
		mcp.WithDescription("Apply a bulk-update JSON payload to a project. Sections: issue_updates, code_requests, deployed_files, test_results, bugs. Items are applied independently; failures are collected, not fatal."),
		mcp.WithString("project", mcp.Required(), mcp.Description("Project name or id")),
		mcp.WithString("payload", mcp.Required(), mcp.Description("Bulk-update JSON object as a string")),
	)
	return tool, s.handleBulkImport
}

func (s *Server) handleBulkImport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("project")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: project"), nil
	}
	raw, err := request.RequireString("payload")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: payload"), nil
	}

	p, err := s.resolveProject(name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("project not found: %s", name)), nil
	}

	payload, err := bulkimport.Validate([]byte(raw))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid payload: %v", err)), nil
	}

	stats := bulkimport.Apply(p, payload)
	if err := s.store.Update(p); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to save: %v", err)), nil
	}

	errors := stats.Errors
	if errors == nil {
		errors = []string{}
	}
	result := map[string]any{
		"issue_updates":  stats.IssueUpdates,
		"issue_creates":  stats.IssueCreates,
		"code_requests":  stats.CodeRequests,
		"deployed_files": stats.DeployedFiles,
		"test_results":   stats.TestResults,
		"bugs":           stats.Bugs,
		"errors":         errors,
	}
	data, _ := json.Marshal(result)
	return mcp.NewToolResultText(string(data)), nil
}

// track_export_project
func (s *Server) exportProjectTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("track_export_project",
		mcp.WithDescription("Export a project snapshot for the next phase. Fails with the blocking reasons if the project has unresolved bugs, unresolved issues, or pending code requests."),
		mcp.WithString("project", mcp.Required(), mcp.Description("Project name or id")),
	)
	return tool, s.handleExportProject
}

func (s *Server) handleExportProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("project")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: project"), nil
	}

	p, err := s.resolveProject(name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("project not found: %s", name)), nil
	}

	path, err := s.exporter.Export(p)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.store.Update(p); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("exported but failed to save history: %v", err)), nil
	}

	record := p.ExportHistory[len(p.ExportHistory)-1]
	result := map[string]any{
		"filepath": path,
		"filename": record.Filename,
		"checksum": record.Checksum,
	}
	data, _ := json.Marshal(result)
	return mcp.NewToolResultText(string(data)), nil
}

// track_status_prompt
func (s *Server) statusPromptTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("track_status_prompt",
		mcp.WithDescription("Generate the full status prompt for a project: issue history, request status, and the bulk-update JSON schema to answer with."),
		mcp.WithString("project", mcp.Required(), mcp.Description("Project name or id")),
	)
	return tool, s.handleStatusPrompt
}

func (s *Server) handleStatusPrompt(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("project")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: project"), nil
	}

	p, err := s.resolveProject(name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("project not found: %s", name)), nil
	}

	return mcp.NewToolResultText(prompt.Status(p)), nil
}

// resolveProject tries to find a project by name first, then by id.
func (s *Server) resolveProject(ref string) (*models.Project, error) {
	if p, err := s.store.GetByName(ref); err == nil {
		return p, nil
	}
	if p, err := s.store.Get(ref); err == nil {
		return p, nil
	}
	return nil, fmt.Errorf("project not found: %s", ref)
}
