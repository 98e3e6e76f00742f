package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/duty-roster/pkg/db"
)

// RunDetails is a stored run with its rows
type RunDetails struct {
	Run         db.SolveRun
	Assignments []db.AssignmentRow
	Issues      []db.IssueRow
	Overrides   []db.OverrideRow
}

// ListRuns returns the stored runs, newest first, optionally limited to month
func ListRuns(ctx context.Context, store db.RunStore, logger *zap.Logger, month string) ([]db.SolveRun, error) {
	logger.Debug("Fetching solve runs", zap.String("month", month))
	runs, err := store.GetSolveRuns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch solve runs: %w", err)
	}

	if month == "" {
		return runs, nil
	}

	var filtered []db.SolveRun
	for _, r := range runs {
		if r.Month == month {
			filtered = append(filtered, r)
		}
	}
	logger.Debug("Filtered solve runs", zap.Int("count", len(filtered)))
	return filtered, nil
}

// GetRunDetails loads one run and all of its rows
func GetRunDetails(ctx context.Context, store db.Database, logger *zap.Logger, runID string) (*RunDetails, error) {
	runs, err := store.GetSolveRuns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch solve runs: %w", err)
	}

	details := &RunDetails{}
	found := false
	for _, r := range runs {
		if r.ID == runID {
			details.Run = r
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("solve run %s not found", runID)
	}

	if details.Assignments, err = store.GetAssignments(ctx, runID); err != nil {
		return nil, fmt.Errorf("failed to fetch assignments: %w", err)
	}
	if details.Issues, err = store.GetIssues(ctx, runID); err != nil {
		return nil, fmt.Errorf("failed to fetch issues: %w", err)
	}
	if details.Overrides, err = store.GetOverrides(ctx, runID); err != nil {
		return nil, fmt.Errorf("failed to fetch overrides: %w", err)
	}

	logger.Debug("Loaded run details",
		zap.String("run_id", runID),
		zap.Int("assignments", len(details.Assignments)),
		zap.Int("issues", len(details.Issues)),
		zap.Int("overrides", len(details.Overrides)))

	return details, nil
}
