package db

import "time"

// SolveRun represents a stored roster run for one month
type SolveRun struct {
	ID          string
	Month       string
	Strategy    string
	Status      string
	Seed        uint64
	Nodes       int
	HoursSpread float64
	Warnings    []string
	CreatedAt   time.Time
}

// AssignmentRow represents a stored assignment of a run
type AssignmentRow struct {
	ID        string
	RunID     string
	Date      string
	PersonID  string
	Role      string
	ShiftCode string
	Hours     float64
	Pinned    bool
}

// IssueRow represents stored unmet demand of a run
type IssueRow struct {
	ID      string
	RunID   string
	Date    string
	ShiftID string
	Missing int
	Reason  string
}

// OverrideRow represents a stored soft-rule relaxation of a run
type OverrideRow struct {
	ID        string
	RunID     string
	Date      string
	PersonID  string
	Role      string
	ShiftCode string
	Reason    string
}

// RunRecords are the child rows written together with a SolveRun
type RunRecords struct {
	Assignments []AssignmentRow
	Issues      []IssueRow
	Overrides   []OverrideRow
}
