package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/duty-roster/pkg/core/roster"
)

func testOutcome() *roster.Outcome {
	return &roster.Outcome{
		Status:   roster.StatusPartial,
		Strategy: roster.StrategyGreedy,
		Assignments: []roster.Assignment{
			{Date: "2026-03-02", PersonID: "a", Role: "Acil", ShiftCode: "G", Hours: 8},
			{Date: "2026-03-03", PersonID: "b", Role: "Acil", ShiftCode: "N", Hours: 12, Pinned: true},
		},
		Issues:    []roster.Issue{{Date: "2026-03-04", ShiftID: "Acil/G", Missing: 1, Reason: "no candidates"}},
		Overrides: []roster.Override{{Date: "2026-03-02", PersonID: "a", ShiftCode: "G", Reason: "soft leave R relaxed"}},
		Seed:      202603,
		Hours:     map[string]float64{"a": 8, "b": 12},
		Warnings:  []string{"pin 2026-03-20 G for \"a\" has no matching demand"},
	}
}

func TestNewSolveRun(t *testing.T) {
	now := time.Date(2026, 2, 20, 9, 0, 0, 0, time.UTC)

	run := NewSolveRun("2026-03", testOutcome(), now)

	assert.NotEmpty(t, run.ID)
	assert.Equal(t, "2026-03", run.Month)
	assert.Equal(t, "greedy", run.Strategy)
	assert.Equal(t, "partial", run.Status)
	assert.Equal(t, uint64(202603), run.Seed)
	assert.Equal(t, 4.0, run.HoursSpread)
	assert.Len(t, run.Warnings, 1)
	assert.Equal(t, now, run.CreatedAt)
}

func TestNewRunRecords(t *testing.T) {
	records := NewRunRecords("run-1", testOutcome())

	require.Len(t, records.Assignments, 2)
	require.Len(t, records.Issues, 1)
	require.Len(t, records.Overrides, 1)

	ids := make(map[string]bool)
	for _, a := range records.Assignments {
		assert.Equal(t, "run-1", a.RunID)
		ids[a.ID] = true
	}
	assert.Len(t, ids, 2, "each row gets its own ID")
	assert.True(t, records.Assignments[1].Pinned)
	assert.Equal(t, "Acil/G", records.Issues[0].ShiftID)
	assert.Equal(t, "soft leave R relaxed", records.Overrides[0].Reason)
}

func TestLatestRun(t *testing.T) {
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	runs := []SolveRun{
		{ID: "old", Month: "2026-02", Status: "complete", CreatedAt: base},
		{ID: "new", Month: "2026-02", Status: "complete", CreatedAt: base.Add(time.Hour)},
		{ID: "draft", Month: "2026-02", Status: "partial", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "other", Month: "2026-03", Status: "complete", CreatedAt: base.Add(3 * time.Hour)},
	}

	run, ok := LatestRun(runs, "2026-02", false)
	require.True(t, ok)
	assert.Equal(t, "draft", run.ID)

	run, ok = LatestRun(runs, "2026-02", true)
	require.True(t, ok)
	assert.Equal(t, "new", run.ID)

	_, ok = LatestRun(runs, "2026-01", false)
	assert.False(t, ok)
}

func TestHistoryDocsAndAssignments(t *testing.T) {
	rows := []AssignmentRow{
		{Date: "2026-02-28", PersonID: "b", ShiftCode: "N", Hours: 12},
		{Date: "2026-02-27", PersonID: "a", ShiftCode: "G", Hours: 8},
		{Date: "2026-02-28", PersonID: "a", ShiftCode: "G", Hours: 8},
	}

	assert.Equal(t, []roster.ShiftDoc{
		{PersonID: "a", Date: "2026-02-27", ShiftCode: "G"},
		{PersonID: "a", Date: "2026-02-28", ShiftCode: "G"},
		{PersonID: "b", Date: "2026-02-28", ShiftCode: "N"},
	}, HistoryDocs(rows))

	as := Assignments(rows)
	require.Len(t, as, 3)
	assert.Equal(t, "2026-02-27", as[0].Date)
	assert.Equal(t, 12.0, as[2].Hours)
}
