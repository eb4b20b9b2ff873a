// Package prompt renders the natural-language prompts handed to the AI
// assistant: the full project status prompt, per-request implementation
// prompts, and the file-drop shell scripts built from the assistant's reply.
package prompt

import (
	"fmt"
	"strings"

	"impltrack/internal/models"
)

// Status renders the full tracking prompt: project info, the entire issue
// ledger, code-request status, and the bulk-update JSON schema the assistant
// must answer with.
func Status(p *models.Project) string {
	var b strings.Builder

	b.WriteString("# Phase 3 Implementation Tracking - Issue History and Next Actions\n\n")
	b.WriteString(projectInfo(p))
	b.WriteString("\n\n")
	b.WriteString(issueHistory(p))
	b.WriteString("\n\n")
	b.WriteString(requestStatus(p))
	b.WriteString("\n\n")
	b.WriteString("## This request\n\n")
	b.WriteString("Given the full history above, propose the next actions in this JSON format:\n\n")
	b.WriteString("```json\n")
	b.WriteString(updateSchema)
	b.WriteString("\n```\n\n")
	b.WriteString("Pay particular attention to:\n")
	b.WriteString("1. Concrete fixes for unresolved issues\n")
	b.WriteString("2. Root-cause analysis of recurring issues\n")
	b.WriteString("3. New code requests that are now needed\n")
	b.WriteString("4. A test plan for implemented functionality\n")

	return b.String()
}

func projectInfo(p *models.Project) string {
	features := "not set"
	if raw, ok := p.ImportInfo.Phase1Data["main_features"].([]any); ok && len(raw) > 0 {
		parts := make([]string, 0, len(raw))
		for _, f := range raw {
			if s, ok := f.(string); ok {
				parts = append(parts, s)
			}
		}
		if len(parts) > 0 {
			features = strings.Join(parts, ", ")
		}
	}

	importDate := "not set"
	if !p.ImportInfo.ImportDate.IsZero() {
		importDate = p.ImportInfo.ImportDate.Format("2006-01-02")
	}

	var b strings.Builder
	b.WriteString("## Project\n")
	fmt.Fprintf(&b, "- Project ID: %s\n", p.ProjectID)
	fmt.Fprintf(&b, "- Project name: %s\n", p.ProjectName)
	fmt.Fprintf(&b, "- Phase 1 main features: %s\n", features)
	fmt.Fprintf(&b, "- Phase 2 import date: %s", importDate)
	return b.String()
}

func issueHistory(p *models.Project) string {
	if len(p.Issues) == 0 {
		return "## Issue history\n\n(no issues recorded yet)"
	}

	var b strings.Builder
	b.WriteString("## Issue history (complete)\n\n")

	for _, issue := range p.Issues {
		mark := "[resolved]"
		if issue.IsUnresolved() {
			mark = "[OPEN]"
		}
		recurrence := ""
		if issue.RecurrenceCount > 0 {
			recurrence = fmt.Sprintf(" (recurred %dx)", issue.RecurrenceCount)
		}

		fmt.Fprintf(&b, "### %s %s: %s%s\n", mark, issue.IssueID, issue.Title, recurrence)
		fmt.Fprintf(&b, "- Impact: %s\n", issue.Impact)
		fmt.Fprintf(&b, "- Current status: %s\n", issue.CurrentStatus)
		b.WriteString("- History:\n")

		for _, h := range issue.History {
			line := fmt.Sprintf("  - %s [%s] %s", h.Timestamp.Format("2006-01-02 15:04"), h.Status, h.Notes)
			if h.Resolution != "" {
				line += " - resolution: " + h.Resolution
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func requestStatus(p *models.Project) string {
	if len(p.CodeRequests) == 0 {
		return "## Code request status\n\n(no code requests yet)"
	}

	var pending, received []models.CodeRequest
	for _, r := range p.CodeRequests {
		switch r.Status {
		case models.RequestStatusPending:
			pending = append(pending, r)
		case models.RequestStatusReceived:
			received = append(received, r)
		}
	}

	var b strings.Builder
	b.WriteString("## Code request status\n\n")
	fmt.Fprintf(&b, "- Pending: %d\n", len(pending))
	fmt.Fprintf(&b, "- Received: %d\n", len(received))

	if len(pending) > 0 {
		b.WriteString("\n### Pending requests\n")
		for _, r := range pending {
			related := ""
			if len(r.RelatedIssues) > 0 {
				related = fmt.Sprintf(" (related issues: %s)", strings.Join(r.RelatedIssues, ", "))
			}
			fmt.Fprintf(&b, "- %s%s\n", r.FunctionName, related)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// updateSchema documents the bulk-update payload the assistant must return.
const updateSchema = `{
  "issue_updates": [
    {
      "issue_id": "ISS001, or omit when creating",
      "action": "update or create",
      "title": "issue title (create only)",
      "description": "details (create only)",
      "impact": "low/medium/high",
      "new_status": "discovered/in_progress/resolved/recurred",
      "notes": "what happened this round",
      "resolution": "fix description (when resolved)"
    }
  ],
  "code_requests": [
    {
      "function_name": "name of the function",
      "details": "what to implement",
      "related_issues": ["ISS001"],
      "status": "pending"
    }
  ],
  "deployed_files": [
    {"filename": "file.go", "filepath": "./pkg/file.go", "status": "ok", "notes": ""}
  ],
  "test_results": [
    {"function_name": "name", "result": "pass or fail", "notes": ""}
  ],
  "bugs": [
    {"title": "bug title", "description": "details", "severity": "low/medium/high"}
  ]
}`

// Implementation renders the prompt asking the assistant to implement one
// code request, with design context pulled from the imported Phase 2 data.
func Implementation(p *models.Project, req models.CodeRequest) string {
	design := p.ImportInfo.DesignData

	var b strings.Builder
	b.WriteString("# Code implementation request\n\n")
	b.WriteString("## Request\n")
	fmt.Fprintf(&b, "**Function:** %s\n\n", req.FunctionName)
	fmt.Fprintf(&b, "**Details:**\n%s\n\n", req.Details)
	if len(req.RelatedIssues) > 0 {
		fmt.Fprintf(&b, "**Related issues:** %s\n\n", strings.Join(req.RelatedIssues, ", "))
	}
	b.WriteString("---\n\n## Project context\n\n")

	if stack, ok := design["tech_stack"].(map[string]any); ok {
		b.WriteString("**Tech stack:**\n")
		for _, key := range []string{"gui_framework", "data_storage", "language"} {
			if v, ok := stack[key].(string); ok {
				fmt.Fprintf(&b, "- %s: %s\n", key, v)
			}
		}
		b.WriteString("\n")
	}

	if modelsList, ok := design["data_models"].([]any); ok && len(modelsList) > 0 {
		b.WriteString("**Data models:**\n")
		for i, m := range modelsList {
			if i == 3 {
				break
			}
			if mm, ok := m.(map[string]any); ok {
				fmt.Fprintf(&b, "- %v: %v\n", mm["model_name"], mm["description"])
			}
		}
		b.WriteString("\n")
	}

	if screens, ok := design["screens"].([]any); ok && len(screens) > 0 {
		b.WriteString("**Related screens:**\n")
		for i, s := range screens {
			if i == 3 {
				break
			}
			if sm, ok := s.(map[string]any); ok {
				fmt.Fprintf(&b, "- %v: %v\n", sm["screen_name"], sm["description"])
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n\n## Response format\n\nAnswer with this JSON:\n\n")
	b.WriteString("```json\n")
	b.WriteString(codeResponseSchema)
	b.WriteString("\n```\n")

	return b.String()
}

const codeResponseSchema = `{
  "files": [
    {
      "filename": "file name (e.g. user_manager.go)",
      "filepath": "relative path (e.g. ./internal/user_manager.go)",
      "description": "what the file does",
      "content": "complete file contents"
    }
  ],
  "dependencies": ["required imports or packages"],
  "installation_notes": "setup steps and caveats"
}`
