package models

import "fmt"

// Parse helpers validate enum values at the deserialization boundary. An
// empty input yields the given default.

func ParseIssueStatus(s string) (IssueStatus, error) {
	switch IssueStatus(s) {
	case IssueStatusDiscovered, IssueStatusInProgress, IssueStatusResolved, IssueStatusRecurred:
		return IssueStatus(s), nil
	}
	return "", fmt.Errorf("invalid issue status %q", s)
}

func ParseImpact(s string, def Impact) (Impact, error) {
	if s == "" {
		return def, nil
	}
	switch Impact(s) {
	case ImpactLow, ImpactMedium, ImpactHigh:
		return Impact(s), nil
	}
	return "", fmt.Errorf("invalid impact %q", s)
}

func ParseRequestStatus(s string, def RequestStatus) (RequestStatus, error) {
	if s == "" {
		return def, nil
	}
	switch RequestStatus(s) {
	case RequestStatusPending, RequestStatusReceived, RequestStatusOnHold:
		return RequestStatus(s), nil
	}
	return "", fmt.Errorf("invalid request status %q", s)
}

func ParseBugStatus(s string) (BugStatus, error) {
	switch BugStatus(s) {
	case BugStatusOpen, BugStatusResolved:
		return BugStatus(s), nil
	}
	return "", fmt.Errorf("invalid bug status %q", s)
}

func ParseSeverity(s string, def Severity) (Severity, error) {
	if s == "" {
		return def, nil
	}
	switch Severity(s) {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return Severity(s), nil
	}
	return "", fmt.Errorf("invalid severity %q", s)
}

func ParseFileStatus(s string, def FileStatus) (FileStatus, error) {
	if s == "" {
		return def, nil
	}
	switch FileStatus(s) {
	case FileStatusOK, FileStatusError:
		return FileStatus(s), nil
	}
	return "", fmt.Errorf("invalid file status %q", s)
}

func ParseTestOutcome(s string, def TestOutcome) (TestOutcome, error) {
	if s == "" {
		return def, nil
	}
	switch TestOutcome(s) {
	case TestOutcomePass, TestOutcomeFail:
		return TestOutcome(s), nil
	}
	return "", fmt.Errorf("invalid test outcome %q", s)
}
