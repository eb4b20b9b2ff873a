package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddIssue_SeedsLedger(t *testing.T) {
	p := NewProject("P001", "test-project")

	issue := p.AddIssue("Crash on save", "NPE in save path", ImpactHigh)

	assert.Equal(t, "ISS001", issue.IssueID)
	assert.Equal(t, IssueStatusDiscovered, issue.CurrentStatus)
	require.Len(t, issue.History, 1)
	assert.Equal(t, IssueStatusDiscovered, issue.History[0].Status)
	assert.Equal(t, "NPE in save path", issue.History[0].Notes)
	assert.Equal(t, "manual", issue.History[0].User)
	assert.Equal(t, 0, issue.RecurrenceCount)
}

func TestIssueIDs_SequentialAndNeverReset(t *testing.T) {
	p := NewProject("P001", "test-project")

	a := p.AddIssue("first", "", ImpactLow)
	b := p.AddIssue("second", "", ImpactLow)
	assert.Equal(t, "ISS001", a.IssueID)
	assert.Equal(t, "ISS002", b.IssueID)

	// Counter keeps climbing even if the issue list shrinks.
	p.Issues = p.Issues[:1]
	c := p.AddIssue("third", "", ImpactLow)
	assert.Equal(t, "ISS003", c.IssueID)
}

func TestUpdateIssueStatus_RecurrenceScenario(t *testing.T) {
	p := NewProject("P001", "test-project")
	issue := p.AddIssue("Crash on save", "NPE in save path", ImpactHigh)

	p.UpdateIssueStatus(issue.IssueID, IssueStatusInProgress, "working on it", "", "manual")
	p.UpdateIssueStatus(issue.IssueID, IssueStatusRecurred, "it came back", "", "manual")

	assert.Equal(t, 1, issue.RecurrenceCount)
	assert.Equal(t, IssueStatusRecurred, issue.CurrentStatus)
	assert.Len(t, issue.History, 3)
}

func TestRecurrenceCount_MatchesRecurredEntries(t *testing.T) {
	p := NewProject("P001", "test-project")
	issue := p.AddIssue("flaky", "", ImpactMedium)

	statuses := []IssueStatus{
		IssueStatusInProgress,
		IssueStatusRecurred,
		IssueStatusResolved,
		IssueStatusRecurred,
		IssueStatusResolved,
	}
	for _, s := range statuses {
		p.UpdateIssueStatus(issue.IssueID, s, "", "", "manual")
	}

	recurred := 0
	for _, h := range issue.History {
		if h.Status == IssueStatusRecurred {
			recurred++
		}
	}
	assert.Equal(t, recurred, issue.RecurrenceCount)
	assert.Equal(t, 2, issue.RecurrenceCount)

	last := issue.History[len(issue.History)-1]
	assert.Equal(t, last.Status, issue.CurrentStatus)
	assert.Equal(t, last.Timestamp, issue.LastUpdated)
}

func TestUpdateIssueStatus_UnknownIDIsNoOp(t *testing.T) {
	p := NewProject("P001", "test-project")
	issue := p.AddIssue("only issue", "", ImpactLow)
	before := p.UpdatedAt

	p.UpdateIssueStatus("ISS999", IssueStatusResolved, "", "", "manual")

	assert.Len(t, issue.History, 1)
	assert.Equal(t, before, p.UpdatedAt)
}

func TestIsUnresolved(t *testing.T) {
	tests := []struct {
		status IssueStatus
		want   bool
	}{
		{IssueStatusDiscovered, true},
		{IssueStatusInProgress, true},
		{IssueStatusRecurred, true},
		{IssueStatusResolved, false},
	}
	for _, tt := range tests {
		issue := &Issue{CurrentStatus: tt.status}
		assert.Equal(t, tt.want, issue.IsUnresolved(), "status %s", tt.status)
	}
}

func TestIsReadyForExport_Scenario(t *testing.T) {
	p := NewProject("P001", "test-project")

	ready, reasons := p.IsReadyForExport()
	assert.True(t, ready)
	assert.Empty(t, reasons)

	bug := p.AddBug("crash", "segfault on start", SeverityHigh)
	ready, reasons = p.IsReadyForExport()
	assert.False(t, ready)
	assert.Equal(t, []string{"1 unresolved bug(s)"}, reasons)

	now := time.Now().UTC()
	p.UpdateBugStatus(bug.ID, BugStatusResolved, &now)
	ready, reasons = p.IsReadyForExport()
	assert.True(t, ready)
	assert.Empty(t, reasons)
}

func TestIsReadyForExport_AllThreeGates(t *testing.T) {
	p := NewProject("P001", "test-project")
	p.AddBug("bug", "", SeverityLow)
	p.AddIssue("issue", "", ImpactLow)
	p.AddCodeRequest("doThing", "details", nil, RequestStatusPending)

	ready, reasons := p.IsReadyForExport()
	assert.False(t, ready)
	require.Len(t, reasons, 3)
	assert.Contains(t, reasons[0], "unresolved bug")
	assert.Contains(t, reasons[1], "unresolved issue")
	assert.Contains(t, reasons[2], "pending code request")

	// Clear each gate in turn.
	now := time.Now().UTC()
	p.UpdateBugStatus(1, BugStatusResolved, &now)
	p.UpdateIssueStatus("ISS001", IssueStatusResolved, "fixed", "patched", "manual")
	p.UpdateRequestStatus(1, RequestStatusReceived, &now)

	ready, reasons = p.IsReadyForExport()
	assert.True(t, ready)
	assert.Empty(t, reasons)
}

func TestIDAssignment_MaxPlusOneAfterDelete(t *testing.T) {
	p := NewProject("P001", "test-project")
	p.AddCodeRequest("a", "", nil, RequestStatusPending)
	p.AddCodeRequest("b", "", nil, RequestStatusPending)
	p.AddCodeRequest("c", "", nil, RequestStatusPending)

	require.True(t, p.RemoveCodeRequest(2))
	require.Len(t, p.CodeRequests, 2)

	// A count-based id would hand out 3 again; max+1 must not collide.
	req := p.AddCodeRequest("d", "", nil, RequestStatusPending)
	assert.Equal(t, 4, req.ID)

	seen := map[int]bool{}
	for _, r := range p.CodeRequests {
		assert.False(t, seen[r.ID], "duplicate id %d", r.ID)
		seen[r.ID] = true
	}
}

func TestRemove_DeletesExactlyOne(t *testing.T) {
	p := NewProject("P001", "test-project")
	p.AddBug("one", "", SeverityLow)
	p.AddBug("two", "", SeverityLow)

	assert.True(t, p.RemoveBug(1))
	assert.False(t, p.RemoveBug(1))
	require.Len(t, p.Bugs, 1)
	assert.Equal(t, 2, p.Bugs[0].ID)

	assert.False(t, p.RemoveDeployedFile(1))
	assert.False(t, p.RemoveTestResult(1))
}

func TestMutatorsBumpUpdatedAt(t *testing.T) {
	p := NewProject("P001", "test-project")
	before := p.UpdatedAt

	time.Sleep(time.Millisecond)
	p.AddTestResult("doThing", TestOutcomePass, "")
	assert.True(t, p.UpdatedAt.After(before))

	before = p.UpdatedAt
	time.Sleep(time.Millisecond)
	p.AddDeployedFile("main.go", "./main.go", FileStatusOK, "")
	assert.True(t, p.UpdatedAt.After(before))

	before = p.UpdatedAt
	time.Sleep(time.Millisecond)
	p.AddUIUXNote("layout", "button overlaps table")
	assert.True(t, p.UpdatedAt.After(before))
}

func TestAuditTrails_AppendOnly(t *testing.T) {
	p := NewProject("P001", "test-project")

	p.AddImportRecord("json_bulk_import", map[string]int{"bugs": 2})
	p.AddImportRecord("phase2_import", map[string]int{})
	p.AddExportRecord("export_P001_Phase3.json", "abc123")

	require.Len(t, p.ImportHistory, 2)
	assert.Equal(t, "json_bulk_import", p.ImportHistory[0].Source)
	assert.Equal(t, 2, p.ImportHistory[0].ItemsCount["bugs"])
	require.Len(t, p.ExportHistory, 1)
	assert.Equal(t, "abc123", p.ExportHistory[0].Checksum)
}

func TestProject_JSONRoundTrip(t *testing.T) {
	p := NewProject("P001", "round-trip")
	issue := p.AddIssue("leaky abstraction", "details", ImpactMedium)
	p.UpdateIssueStatus(issue.IssueID, IssueStatusInProgress, "digging", "", "manual")
	p.AddCodeRequest("parseConfig", "parse the config", []string{issue.IssueID}, RequestStatusPending)
	p.AddDeployedFile("config.go", "./internal/config.go", FileStatusOK, "initial drop")
	p.AddTestResult("parseConfig", TestOutcomeFail, "nil map")
	p.AddBug("nil map panic", "panic on empty config", SeverityHigh)
	p.AddUIUXNote("wording", "rename Save button")
	p.AddImportRecord("json_bulk_import", map[string]int{"code_requests": 1})

	first, err := json.Marshal(p)
	require.NoError(t, err)

	var decoded Project
	require.NoError(t, json.Unmarshal(first, &decoded))

	second, err := json.Marshal(&decoded)
	require.NoError(t, err)
	assert.JSONEq(t, string(first), string(second))

	// Nested ledger survives in order.
	require.Len(t, decoded.Issues, 1)
	require.Len(t, decoded.Issues[0].History, 2)
	assert.Equal(t, IssueStatusDiscovered, decoded.Issues[0].History[0].Status)
	assert.Equal(t, IssueStatusInProgress, decoded.Issues[0].History[1].Status)
}
