package db

import "context"

// RunStore defines the read operations on stored runs
type RunStore interface {
	GetSolveRuns(ctx context.Context) ([]SolveRun, error)
	GetAssignments(ctx context.Context, runID string) ([]AssignmentRow, error)
}

// Database defines the interface for all database operations.
// postgres.DB implements this interface.
type Database interface {
	RunStore
	InsertSolveRun(ctx context.Context, run *SolveRun, records RunRecords) error
	GetIssues(ctx context.Context, runID string) ([]IssueRow, error)
	GetOverrides(ctx context.Context, runID string) ([]OverrideRow, error)
}
