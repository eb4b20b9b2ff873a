package models

import (
	"fmt"
	"time"
)

// Project is the aggregate for one implementation-phase project. It owns the
// issue ledger, the four integer-id collections, and the import/export audit
// trails. Every mutator bumps UpdatedAt.
type Project struct {
	ProjectID     string         `json:"project_id"`
	ProjectName   string         `json:"project_name"`
	ImportInfo    ImportInfo     `json:"import_info"`
	CodeRequests  []CodeRequest  `json:"code_requests"`
	DeployedFiles []DeployedFile `json:"deployed_files"`
	TestResults   []TestResult   `json:"test_results"`
	Bugs          []Bug          `json:"bugs"`
	UIUXNotes     []UIUXNote     `json:"ui_ux_notes"`
	Issues        []*Issue       `json:"issues"`
	IssueCounter  int            `json:"issue_counter"`
	ImportHistory []ImportRecord `json:"import_history"`
	ExportHistory []ExportRecord `json:"export_history"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// NewProject creates an empty project with the issue counter at its start
// value. The counter is monotonic and never resets, even across deletes.
func NewProject(id, name string) *Project {
	now := time.Now().UTC()
	return &Project{
		ProjectID:     id,
		ProjectName:   name,
		CodeRequests:  []CodeRequest{},
		DeployedFiles: []DeployedFile{},
		TestResults:   []TestResult{},
		Bugs:          []Bug{},
		UIUXNotes:     []UIUXNote{},
		Issues:        []*Issue{},
		IssueCounter:  1,
		ImportHistory: []ImportRecord{},
		ExportHistory: []ExportRecord{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (p *Project) touch() {
	p.UpdatedAt = time.Now().UTC()
}

// generateIssueID allocates the next sequential issue id (ISS001, ISS002, ...).
func (p *Project) generateIssueID() string {
	id := fmt.Sprintf("ISS%03d", p.IssueCounter)
	p.IssueCounter++
	return id
}

// AddIssue creates a new issue at status discovered with one seed history
// entry and returns it.
func (p *Project) AddIssue(title, description string, impact Impact) *Issue {
	issue := &Issue{
		IssueID:         p.generateIssueID(),
		Title:           title,
		Description:     description,
		Impact:          impact,
		CreatedAt:       time.Now().UTC(),
		History:         []HistoryEntry{},
		RelatedRequests: []int{},
	}
	issue.AddHistory(IssueStatusDiscovered, description, "", "manual")

	p.Issues = append(p.Issues, issue)
	p.touch()
	return issue
}

// IssueByID returns the issue with the given id, or nil if unknown.
func (p *Project) IssueByID(issueID string) *Issue {
	for _, issue := range p.Issues {
		if issue.IssueID == issueID {
			return issue
		}
	}
	return nil
}

// UpdateIssueStatus appends a history entry to the issue's ledger. An unknown
// issue id is a silent no-op, not an error.
func (p *Project) UpdateIssueStatus(issueID string, status IssueStatus, notes, resolution, user string) {
	issue := p.IssueByID(issueID)
	if issue == nil {
		return
	}
	issue.AddHistory(status, notes, resolution, user)
	p.touch()
}

// UnresolvedIssues returns issues whose current status is not resolved.
func (p *Project) UnresolvedIssues() []*Issue {
	var out []*Issue
	for _, issue := range p.Issues {
		if issue.IsUnresolved() {
			out = append(out, issue)
		}
	}
	return out
}

// RecurrentIssues returns issues that have recurred at least once.
func (p *Project) RecurrentIssues() []*Issue {
	var out []*Issue
	for _, issue := range p.Issues {
		if issue.RecurrenceCount > 0 {
			out = append(out, issue)
		}
	}
	return out
}

// AddCodeRequest appends a code request and returns it.
func (p *Project) AddCodeRequest(functionName, details string, relatedIssues []string, status RequestStatus) CodeRequest {
	if relatedIssues == nil {
		relatedIssues = []string{}
	}
	maxID := 0
	for _, r := range p.CodeRequests {
		if r.ID > maxID {
			maxID = r.ID
		}
	}
	req := CodeRequest{
		ID:            maxID + 1,
		FunctionName:  functionName,
		Details:       details,
		RequestDate:   time.Now().UTC(),
		Status:        status,
		RelatedIssues: relatedIssues,
	}
	p.CodeRequests = append(p.CodeRequests, req)
	p.touch()
	return req
}

// UpdateRequestStatus updates the status of one code request, optionally
// recording the date it was received.
func (p *Project) UpdateRequestStatus(requestID int, status RequestStatus, receivedDate *time.Time) bool {
	for i := range p.CodeRequests {
		if p.CodeRequests[i].ID == requestID {
			p.CodeRequests[i].Status = status
			if receivedDate != nil {
				p.CodeRequests[i].ReceivedDate = receivedDate
			}
			p.touch()
			return true
		}
	}
	return false
}

// RemoveCodeRequest deletes exactly one request by id. Remaining ids are
// never renumbered.
func (p *Project) RemoveCodeRequest(requestID int) bool {
	for i := range p.CodeRequests {
		if p.CodeRequests[i].ID == requestID {
			p.CodeRequests = append(p.CodeRequests[:i], p.CodeRequests[i+1:]...)
			p.touch()
			return true
		}
	}
	return false
}

// AddDeployedFile appends a deployed-file record and returns it.
func (p *Project) AddDeployedFile(filename, filepath string, status FileStatus, notes string) DeployedFile {
	maxID := 0
	for _, f := range p.DeployedFiles {
		if f.ID > maxID {
			maxID = f.ID
		}
	}
	file := DeployedFile{
		ID:           maxID + 1,
		Filename:     filename,
		Filepath:     filepath,
		DeployedDate: time.Now().UTC(),
		Status:       status,
		Notes:        notes,
	}
	p.DeployedFiles = append(p.DeployedFiles, file)
	p.touch()
	return file
}

// RemoveDeployedFile deletes exactly one deployed-file record by id.
func (p *Project) RemoveDeployedFile(fileID int) bool {
	for i := range p.DeployedFiles {
		if p.DeployedFiles[i].ID == fileID {
			p.DeployedFiles = append(p.DeployedFiles[:i], p.DeployedFiles[i+1:]...)
			p.touch()
			return true
		}
	}
	return false
}

// AddTestResult appends a test-result record and returns it.
func (p *Project) AddTestResult(functionName string, result TestOutcome, notes string) TestResult {
	maxID := 0
	for _, t := range p.TestResults {
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	test := TestResult{
		ID:           maxID + 1,
		FunctionName: functionName,
		TestDate:     time.Now().UTC(),
		Result:       result,
		Notes:        notes,
	}
	p.TestResults = append(p.TestResults, test)
	p.touch()
	return test
}

// RemoveTestResult deletes exactly one test-result record by id.
func (p *Project) RemoveTestResult(testID int) bool {
	for i := range p.TestResults {
		if p.TestResults[i].ID == testID {
			p.TestResults = append(p.TestResults[:i], p.TestResults[i+1:]...)
			p.touch()
			return true
		}
	}
	return false
}

// AddBug appends a bug record at status open and returns it.
func (p *Project) AddBug(title, description string, severity Severity) Bug {
	maxID := 0
	for _, b := range p.Bugs {
		if b.ID > maxID {
			maxID = b.ID
		}
	}
	bug := Bug{
		ID:          maxID + 1,
		Title:       title,
		Description: description,
		Severity:    severity,
		FoundDate:   time.Now().UTC(),
		Status:      BugStatusOpen,
	}
	p.Bugs = append(p.Bugs, bug)
	p.touch()
	return bug
}

// UpdateBugStatus updates the status of one bug, optionally recording the
// resolution date.
func (p *Project) UpdateBugStatus(bugID int, status BugStatus, resolvedDate *time.Time) bool {
	for i := range p.Bugs {
		if p.Bugs[i].ID == bugID {
			p.Bugs[i].Status = status
			if resolvedDate != nil {
				p.Bugs[i].ResolvedDate = resolvedDate
			}
			p.touch()
			return true
		}
	}
	return false
}

// RemoveBug deletes exactly one bug by id.
func (p *Project) RemoveBug(bugID int) bool {
	for i := range p.Bugs {
		if p.Bugs[i].ID == bugID {
			p.Bugs = append(p.Bugs[:i], p.Bugs[i+1:]...)
			p.touch()
			return true
		}
	}
	return false
}

// AddUIUXNote appends a UI/UX note and returns it.
func (p *Project) AddUIUXNote(category, note string) UIUXNote {
	maxID := 0
	for _, n := range p.UIUXNotes {
		if n.ID > maxID {
			maxID = n.ID
		}
	}
	entry := UIUXNote{
		ID:        maxID + 1,
		Category:  category,
		Note:      note,
		CreatedAt: time.Now().UTC(),
	}
	p.UIUXNotes = append(p.UIUXNotes, entry)
	p.touch()
	return entry
}

// UnresolvedBugsCount counts bugs whose status is not resolved.
func (p *Project) UnresolvedBugsCount() int {
	count := 0
	for _, b := range p.Bugs {
		if b.Status != BugStatusResolved {
			count++
		}
	}
	return count
}

// UnresolvedIssuesCount counts issues that are still unresolved.
func (p *Project) UnresolvedIssuesCount() int {
	return len(p.UnresolvedIssues())
}

// PendingRequestsCount counts code requests still waiting to be received.
func (p *Project) PendingRequestsCount() int {
	count := 0
	for _, r := range p.CodeRequests {
		if r.Status == RequestStatusPending {
			count++
		}
	}
	return count
}

// IsReadyForExport reports whether the project may be exported. Each violated
// condition contributes one human-readable reason.
func (p *Project) IsReadyForExport() (bool, []string) {
	var reasons []string

	if n := p.UnresolvedBugsCount(); n > 0 {
		reasons = append(reasons, fmt.Sprintf("%d unresolved bug(s)", n))
	}
	if n := p.UnresolvedIssuesCount(); n > 0 {
		reasons = append(reasons, fmt.Sprintf("%d unresolved issue(s)", n))
	}
	if n := p.PendingRequestsCount(); n > 0 {
		reasons = append(reasons, fmt.Sprintf("%d pending code request(s)", n))
	}

	return len(reasons) == 0, reasons
}

// AddImportRecord appends one audit entry to the import history.
func (p *Project) AddImportRecord(source string, itemsCount map[string]int) {
	p.ImportHistory = append(p.ImportHistory, ImportRecord{
		Timestamp:  time.Now().UTC(),
		Source:     source,
		ItemsCount: itemsCount,
	})
	p.touch()
}

// AddExportRecord appends one audit entry to the export history.
func (p *Project) AddExportRecord(filename, checksum string) {
	p.ExportHistory = append(p.ExportHistory, ExportRecord{
		ExportDate: time.Now().UTC(),
		Filename:   filename,
		Checksum:   checksum,
	})
	p.touch()
}
