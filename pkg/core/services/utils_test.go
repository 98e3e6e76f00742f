package services

import (
	"context"
	"errors"
	"time"

	"github.com/jakechorley/duty-roster/internal/config"
	"github.com/jakechorley/duty-roster/pkg/core/roster"
	"github.com/jakechorley/duty-roster/pkg/db"
)

// mockDB implements a test double for db.Database
type mockDB struct {
	runs        []db.SolveRun
	assignments map[string][]db.AssignmentRow
	issues      map[string][]db.IssueRow
	overrides   map[string][]db.OverrideRow

	inserted   []*db.SolveRun
	insertedRs []db.RunRecords

	getRunsErr error
	insertErr  error
}

var _ db.Database = (*mockDB)(nil)

func (m *mockDB) GetSolveRuns(ctx context.Context) ([]db.SolveRun, error) {
	if m.getRunsErr != nil {
		return nil, m.getRunsErr
	}
	return m.runs, nil
}

func (m *mockDB) GetAssignments(ctx context.Context, runID string) ([]db.AssignmentRow, error) {
	return m.assignments[runID], nil
}

func (m *mockDB) GetIssues(ctx context.Context, runID string) ([]db.IssueRow, error) {
	return m.issues[runID], nil
}

func (m *mockDB) GetOverrides(ctx context.Context, runID string) ([]db.OverrideRow, error) {
	return m.overrides[runID], nil
}

func (m *mockDB) InsertSolveRun(ctx context.Context, run *db.SolveRun, records db.RunRecords) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.inserted = append(m.inserted, run)
	m.insertedRs = append(m.insertedRs, records)
	return nil
}

var errMock = errors.New("database unavailable")

// spyRecorder counts what the services record
type spyRecorder struct {
	runs          []string
	assignments   int
	missing       int
	overrides     int
	spread        map[string]float64
	inputWarnings map[string]int
}

func newSpyRecorder() *spyRecorder {
	return &spyRecorder{spread: map[string]float64{}, inputWarnings: map[string]int{}}
}

func (s *spyRecorder) RecordRun(strategy, status string, _ time.Duration, _ int) {
	s.runs = append(s.runs, strategy+"/"+status)
}

func (s *spyRecorder) RecordResult(_ string, assignments, missing, overrides int) {
	s.assignments += assignments
	s.missing += missing
	s.overrides += overrides
}

func (s *spyRecorder) SetHoursSpread(month string, spread float64) {
	s.spread[month] = spread
}

func (s *spyRecorder) RecordInputWarnings(section string, count int) {
	s.inputWarnings[section] += count
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Shifts = []roster.ShiftDef{
		{Code: "G", Start: "08:00", End: "16:00"},
		{Code: "N", Start: "20:00", End: "08:00", Night: true},
	}
	return cfg
}

// weekInput demands one G shift a day from 2026-03-02 to 2026-03-04
func weekInput(people ...string) *roster.Input {
	in := &roster.Input{
		Month: "2026-03",
		Days:  []string{"2026-03-02", "2026-03-03", "2026-03-04"},
		Tasks: []roster.TaskLine{{Role: "Acil", ShiftCode: "G", PerDay: 1}},
	}
	for _, id := range people {
		in.People = append(in.People, roster.PersonDoc{ID: id})
	}
	return in
}
