package models

import "time"

// IssueStatus represents the state of a tracked issue.
type IssueStatus string

const (
	IssueStatusDiscovered IssueStatus = "discovered"
	IssueStatusInProgress IssueStatus = "in_progress"
	IssueStatusResolved   IssueStatus = "resolved"
	IssueStatusRecurred   IssueStatus = "recurred"
)

// Impact represents how widely an issue affects the project.
type Impact string

const (
	ImpactLow    Impact = "low"
	ImpactMedium Impact = "medium"
	ImpactHigh   Impact = "high"
)

// HistoryEntry records one status change in an issue's ledger.
type HistoryEntry struct {
	Timestamp  time.Time   `json:"timestamp"`
	Status     IssueStatus `json:"status"`
	Notes      string      `json:"notes"`
	Resolution string      `json:"resolution"`
	User       string      `json:"user"`
}

// Issue is a tracked problem with an append-only status history.
// CurrentStatus, RecurrenceCount, and LastUpdated are derived from the
// history and kept in sync by AddHistory; the history itself is never
// mutated or reordered.
type Issue struct {
	IssueID         string         `json:"issue_id"`
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	Impact          Impact         `json:"impact"`
	CreatedAt       time.Time      `json:"created_at"`
	History         []HistoryEntry `json:"history"`
	CurrentStatus   IssueStatus    `json:"current_status"`
	RecurrenceCount int            `json:"recurrence_count"`
	LastUpdated     time.Time      `json:"last_updated"`
	RelatedRequests []int          `json:"related_requests"`
}

// AddHistory appends one entry and updates the derived fields.
// There is no transition table: any status may follow any status.
func (i *Issue) AddHistory(status IssueStatus, notes, resolution, user string) {
	entry := HistoryEntry{
		Timestamp:  time.Now().UTC(),
		Status:     status,
		Notes:      notes,
		Resolution: resolution,
		User:       user,
	}
	i.History = append(i.History, entry)
	i.CurrentStatus = status
	i.LastUpdated = entry.Timestamp

	if status == IssueStatusRecurred {
		i.RecurrenceCount++
	}
}

// IsUnresolved reports whether the issue still needs attention.
func (i *Issue) IsUnresolved() bool {
	switch i.CurrentStatus {
	case IssueStatusDiscovered, IssueStatusInProgress, IssueStatusRecurred:
		return true
	}
	return false
}
