// Package bulkimport applies an externally authored batch of updates to one
// project. Items are applied independently: a bad item is recorded as an
// error and skipped, never aborting the batch. There is no rollback.
package bulkimport

import (
	"encoding/json"
	"fmt"
	"strings"

	"impltrack/internal/models"
)

// Section keys recognized in a bulk-update payload.
var sectionKeys = []string{
	"issue_updates",
	"code_requests",
	"deployed_files",
	"test_results",
	"bugs",
}

// IssueUpdate is one item of the issue_updates section.
type IssueUpdate struct {
	Action      string `json:"action"`
	IssueID     string `json:"issue_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Impact      string `json:"impact"`
	NewStatus   string `json:"new_status"`
	Notes       string `json:"notes"`
	Resolution  string `json:"resolution"`
}

// CodeRequestItem is one item of the code_requests section.
type CodeRequestItem struct {
	FunctionName  string   `json:"function_name"`
	Details       string   `json:"details"`
	RelatedIssues []string `json:"related_issues"`
	Status        string   `json:"status"`
}

// DeployedFileItem is one item of the deployed_files section.
type DeployedFileItem struct {
	Filename string `json:"filename"`
	Filepath string `json:"filepath"`
	Status   string `json:"status"`
	Notes    string `json:"notes"`
}

// TestResultItem is one item of the test_results section.
type TestResultItem struct {
	FunctionName string `json:"function_name"`
	Result       string `json:"result"`
	Notes        string `json:"notes"`
}

// BugItem is one item of the bugs section.
type BugItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
}

// Payload is a validated bulk-update batch. Absent sections are nil.
type Payload struct {
	IssueUpdates  []IssueUpdate      `json:"issue_updates"`
	CodeRequests  []CodeRequestItem  `json:"code_requests"`
	DeployedFiles []DeployedFileItem `json:"deployed_files"`
	TestResults   []TestResultItem   `json:"test_results"`
	Bugs          []BugItem          `json:"bugs"`
}

// Stats reports what one Apply pass did. Errors holds one entry per failed
// item; a non-empty Errors does not mean the pass failed.
type Stats struct {
	IssueUpdates  int
	IssueCreates  int
	CodeRequests  int
	DeployedFiles int
	TestResults   int
	Bugs          int
	Errors        []string
}

// Summary renders the stats as a short human-readable report.
func (s *Stats) Summary() string {
	var b strings.Builder
	b.WriteString("Import complete:\n")
	fmt.Fprintf(&b, "- issue updates: %d\n", s.IssueUpdates)
	fmt.Fprintf(&b, "- issues created: %d\n", s.IssueCreates)
	fmt.Fprintf(&b, "- code requests: %d\n", s.CodeRequests)
	fmt.Fprintf(&b, "- deployed files: %d\n", s.DeployedFiles)
	fmt.Fprintf(&b, "- test results: %d\n", s.TestResults)
	fmt.Fprintf(&b, "- bugs: %d\n", s.Bugs)
	if len(s.Errors) > 0 {
		fmt.Fprintf(&b, "\nErrors: %d\n", len(s.Errors))
		for i, e := range s.Errors {
			if i == 5 {
				break
			}
			b.WriteString(e + "\n")
		}
	}
	return b.String()
}

// Validate parses raw payload bytes. The input must be a JSON object carrying
// at least one recognized section key; anything else is rejected before any
// mutation happens.
func Validate(data []byte) (*Payload, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("payload must be a JSON object: %w", err)
	}

	found := false
	for _, key := range sectionKeys {
		if _, ok := raw[key]; ok {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("no recognized data sections (expected one of %s)", strings.Join(sectionKeys, ", "))
	}

	var payload Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse payload sections: %w", err)
	}
	return &payload, nil
}

// Apply runs the batch against the project and appends one import-history
// record with the per-category counts. Item failures land in Stats.Errors;
// the pass itself always completes.
func Apply(p *models.Project, payload *Payload) *Stats {
	stats := &Stats{}

	for i, item := range payload.IssueUpdates {
		if err := applyIssueUpdate(p, item, stats); err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("issue_updates item %d: %v", i+1, err))
		}
	}

	for i, item := range payload.CodeRequests {
		if err := applyCodeRequest(p, item); err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("code_requests item %d: %v", i+1, err))
			continue
		}
		stats.CodeRequests++
	}

	for i, item := range payload.DeployedFiles {
		if err := applyDeployedFile(p, item); err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("deployed_files item %d: %v", i+1, err))
			continue
		}
		stats.DeployedFiles++
	}

	for i, item := range payload.TestResults {
		if err := applyTestResult(p, item); err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("test_results item %d: %v", i+1, err))
			continue
		}
		stats.TestResults++
	}

	for i, item := range payload.Bugs {
		if err := applyBug(p, item); err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("bugs item %d: %v", i+1, err))
			continue
		}
		stats.Bugs++
	}

	p.AddImportRecord("json_bulk_import", map[string]int{
		"issue_updates":  stats.IssueUpdates,
		"issue_creates":  stats.IssueCreates,
		"code_requests":  stats.CodeRequests,
		"deployed_files": stats.DeployedFiles,
		"test_results":   stats.TestResults,
		"bugs":           stats.Bugs,
	})

	return stats
}

func applyIssueUpdate(p *models.Project, item IssueUpdate, stats *Stats) error {
	action := item.Action
	if action == "" {
		action = "create"
	}

	switch action {
	case "update":
		if item.IssueID == "" {
			return fmt.Errorf("missing issue_id")
		}
		status := models.IssueStatusInProgress
		if item.NewStatus != "" {
			parsed, err := models.ParseIssueStatus(item.NewStatus)
			if err != nil {
				return err
			}
			status = parsed
		}
		// Unknown issue ids are a no-op inside the ledger, by contract.
		p.UpdateIssueStatus(item.IssueID, status, item.Notes, item.Resolution, "json_import")
		stats.IssueUpdates++
		return nil

	case "create":
		if item.Title == "" {
			return fmt.Errorf("missing title")
		}
		impact, err := models.ParseImpact(item.Impact, models.ImpactMedium)
		if err != nil {
			return err
		}
		var seedStatus models.IssueStatus
		if item.NewStatus != "" && item.NewStatus != string(models.IssueStatusDiscovered) {
			seedStatus, err = models.ParseIssueStatus(item.NewStatus)
			if err != nil {
				return err
			}
		}

		issue := p.AddIssue(item.Title, item.Description, impact)
		// A non-initial status is reached through a second ledger entry.
		if seedStatus != "" {
			p.UpdateIssueStatus(issue.IssueID, seedStatus, item.Notes, item.Resolution, "json_import")
		}
		stats.IssueCreates++
		return nil
	}

	return fmt.Errorf("unknown action %q", action)
}

func applyCodeRequest(p *models.Project, item CodeRequestItem) error {
	if item.FunctionName == "" {
		return fmt.Errorf("missing function_name")
	}
	status, err := models.ParseRequestStatus(item.Status, models.RequestStatusPending)
	if err != nil {
		return err
	}
	p.AddCodeRequest(item.FunctionName, item.Details, item.RelatedIssues, status)
	return nil
}

func applyDeployedFile(p *models.Project, item DeployedFileItem) error {
	if item.Filename == "" {
		return fmt.Errorf("missing filename")
	}
	status, err := models.ParseFileStatus(item.Status, models.FileStatusOK)
	if err != nil {
		return err
	}
	p.AddDeployedFile(item.Filename, item.Filepath, status, item.Notes)
	return nil
}

func applyTestResult(p *models.Project, item TestResultItem) error {
	if item.FunctionName == "" {
		return fmt.Errorf("missing function_name")
	}
	result, err := models.ParseTestOutcome(item.Result, models.TestOutcomePass)
	if err != nil {
		return err
	}
	p.AddTestResult(item.FunctionName, result, item.Notes)
	return nil
}

func applyBug(p *models.Project, item BugItem) error {
	if item.Title == "" {
		return fmt.Errorf("missing title")
	}
	severity, err := models.ParseSeverity(item.Severity, models.SeverityMedium)
	if err != nil {
		return err
	}
	p.AddBug(item.Title, item.Description, severity)
	return nil
}

// Preview renders a short summary of what a payload would apply, without
// touching any project.
func Preview(payload *Payload) string {
	var b strings.Builder
	b.WriteString("=== Import preview ===\n\n")

	if len(payload.IssueUpdates) > 0 {
		fmt.Fprintf(&b, "Issue updates/creates: %d\n", len(payload.IssueUpdates))
		for i, item := range payload.IssueUpdates {
			if i == 3 {
				fmt.Fprintf(&b, "  ... %d more\n", len(payload.IssueUpdates)-3)
				break
			}
			action := "new"
			if item.Action == "update" {
				action = "update"
			}
			id := item.IssueID
			if id == "" {
				id = "(new)"
			}
			title := item.Title
			if title == "" {
				title = item.Notes
			}
			fmt.Fprintf(&b, "  - [%s] %s: %s\n", action, id, truncate(title, 30))
		}
		b.WriteString("\n")
	}

	if len(payload.CodeRequests) > 0 {
		fmt.Fprintf(&b, "Code requests: %d\n", len(payload.CodeRequests))
		for i, item := range payload.CodeRequests {
			if i == 3 {
				fmt.Fprintf(&b, "  ... %d more\n", len(payload.CodeRequests)-3)
				break
			}
			fmt.Fprintf(&b, "  - %s\n", truncate(item.FunctionName, 30))
		}
		b.WriteString("\n")
	}

	if len(payload.DeployedFiles) > 0 {
		fmt.Fprintf(&b, "Deployed files: %d\n", len(payload.DeployedFiles))
		for i, item := range payload.DeployedFiles {
			if i == 3 {
				fmt.Fprintf(&b, "  ... %d more\n", len(payload.DeployedFiles)-3)
				break
			}
			fmt.Fprintf(&b, "  - %s\n", item.Filename)
		}
		b.WriteString("\n")
	}

	if len(payload.TestResults) > 0 {
		fmt.Fprintf(&b, "Test results: %d\n", len(payload.TestResults))
	}
	if len(payload.Bugs) > 0 {
		fmt.Fprintf(&b, "Bugs: %d\n", len(payload.Bugs))
	}

	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
