package db

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jakechorley/duty-roster/pkg/core/roster"
)

// NewSolveRun builds the run record of an outcome
func NewSolveRun(month string, out *roster.Outcome, now time.Time) *SolveRun {
	return &SolveRun{
		ID:          uuid.New().String(),
		Month:       month,
		Strategy:    string(out.Strategy),
		Status:      string(out.Status),
		Seed:        out.Seed,
		Nodes:       out.Nodes,
		HoursSpread: out.HoursSpread(),
		Warnings:    out.Warnings,
		CreatedAt:   now,
	}
}

// NewRunRecords converts an outcome into the child rows of runID
func NewRunRecords(runID string, out *roster.Outcome) RunRecords {
	var records RunRecords
	for _, a := range out.Assignments {
		records.Assignments = append(records.Assignments, AssignmentRow{
			ID:        uuid.New().String(),
			RunID:     runID,
			Date:      a.Date,
			PersonID:  a.PersonID,
			Role:      a.Role,
			ShiftCode: a.ShiftCode,
			Hours:     a.Hours,
			Pinned:    a.Pinned,
		})
	}
	for _, is := range out.Issues {
		records.Issues = append(records.Issues, IssueRow{
			ID:      uuid.New().String(),
			RunID:   runID,
			Date:    is.Date,
			ShiftID: is.ShiftID,
			Missing: is.Missing,
			Reason:  is.Reason,
		})
	}
	for _, o := range out.Overrides {
		records.Overrides = append(records.Overrides, OverrideRow{
			ID:        uuid.New().String(),
			RunID:     runID,
			Date:      o.Date,
			PersonID:  o.PersonID,
			Role:      o.Role,
			ShiftCode: o.ShiftCode,
			Reason:    o.Reason,
		})
	}
	return records
}

// LatestRun returns the most recently created run for month. Only complete
// runs are considered when completeOnly is set.
func LatestRun(runs []SolveRun, month string, completeOnly bool) (*SolveRun, bool) {
	var latest *SolveRun
	for i := range runs {
		run := &runs[i]
		if run.Month != month {
			continue
		}
		if completeOnly && run.Status != string(roster.StatusComplete) {
			continue
		}
		if latest == nil || run.CreatedAt.After(latest.CreatedAt) {
			latest = run
		}
	}
	return latest, latest != nil
}

// HistoryDocs converts stored assignments into history entries of an input
// document, oldest first
func HistoryDocs(rows []AssignmentRow) []roster.ShiftDoc {
	docs := make([]roster.ShiftDoc, 0, len(rows))
	for _, r := range rows {
		docs = append(docs, roster.ShiftDoc{
			PersonID:  r.PersonID,
			Date:      r.Date,
			Role:      r.Role,
			ShiftCode: r.ShiftCode,
		})
	}
	slices.SortStableFunc(docs, func(a, b roster.ShiftDoc) int {
		return cmp.Or(cmp.Compare(a.Date, b.Date), strings.Compare(a.PersonID, b.PersonID))
	})
	return docs
}

// Assignments converts stored rows back into engine assignments
func Assignments(rows []AssignmentRow) []roster.Assignment {
	out := make([]roster.Assignment, 0, len(rows))
	for _, r := range rows {
		out = append(out, roster.Assignment{
			Date:      r.Date,
			PersonID:  r.PersonID,
			Role:      r.Role,
			ShiftCode: r.ShiftCode,
			Hours:     r.Hours,
			Pinned:    r.Pinned,
		})
	}
	roster.SortAssignments(out)
	return out
}
