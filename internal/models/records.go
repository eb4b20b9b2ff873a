package models

import "time"

// RequestStatus represents the lifecycle of a code request.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusReceived RequestStatus = "received"
	RequestStatusOnHold   RequestStatus = "on_hold"
)

// BugStatus represents the state of a recorded bug.
type BugStatus string

const (
	BugStatusOpen     BugStatus = "open"
	BugStatusResolved BugStatus = "resolved"
)

// Severity represents bug severity.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// FileStatus represents the deployment state of a file.
type FileStatus string

const (
	FileStatusOK    FileStatus = "ok"
	FileStatusError FileStatus = "error"
)

// TestOutcome represents the result of a recorded test run.
type TestOutcome string

const (
	TestOutcomePass TestOutcome = "pass"
	TestOutcomeFail TestOutcome = "fail"
)

// CodeRequest is a tracked ask for an external producer to implement a
// function. RelatedIssues holds issue ids as soft references; the referenced
// issues need not exist.
type CodeRequest struct {
	ID            int           `json:"id"`
	FunctionName  string        `json:"function_name"`
	Details       string        `json:"details"`
	RequestDate   time.Time     `json:"request_date"`
	ReceivedDate  *time.Time    `json:"received_date"`
	Status        RequestStatus `json:"status"`
	RelatedIssues []string      `json:"related_issues"`
}

// DeployedFile records a file placed into the work directory.
type DeployedFile struct {
	ID           int        `json:"id"`
	Filename     string     `json:"filename"`
	Filepath     string     `json:"filepath"`
	DeployedDate time.Time  `json:"deployed_date"`
	Status       FileStatus `json:"status"`
	Notes        string     `json:"notes"`
}

// TestResult records the outcome of testing one function.
type TestResult struct {
	ID           int         `json:"id"`
	FunctionName string      `json:"function_name"`
	TestDate     time.Time   `json:"test_date"`
	Result       TestOutcome `json:"result"`
	Notes        string      `json:"notes"`
}

// Bug records a defect found during implementation.
type Bug struct {
	ID           int        `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Severity     Severity   `json:"severity"`
	FoundDate    time.Time  `json:"found_date"`
	Status       BugStatus  `json:"status"`
	ResolvedDate *time.Time `json:"resolved_date"`
}

// UIUXNote records a UI/UX observation carried through import and export.
type UIUXNote struct {
	ID        int       `json:"id"`
	Category  string    `json:"category"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}

// ImportRecord is one append-only audit entry for a bulk or snapshot import.
type ImportRecord struct {
	Timestamp  time.Time      `json:"timestamp"`
	Source     string         `json:"source"`
	ItemsCount map[string]int `json:"items_count"`
}

// ExportRecord is one append-only audit entry for a snapshot export.
type ExportRecord struct {
	ExportDate time.Time `json:"export_date"`
	Filename   string    `json:"filename"`
	Checksum   string    `json:"checksum"`
}

// ImportInfo records the provenance of an imported project.
type ImportInfo struct {
	SourceFile       string         `json:"source_file,omitempty"`
	ImportDate       time.Time      `json:"import_date"`
	Phase2ExportDate string         `json:"phase2_export_date,omitempty"`
	OriginalPhase1ID string         `json:"original_phase1_id,omitempty"`
	Phase1Data       map[string]any `json:"phase1_data,omitempty"`
	DesignData       map[string]any `json:"design_data,omitempty"`
}
