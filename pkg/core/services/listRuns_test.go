package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/duty-roster/pkg/core/roster"
	"github.com/jakechorley/duty-roster/pkg/db"
)

func runsMock() *mockDB {
	return &mockDB{
		runs: []db.SolveRun{
			{ID: "r2", Month: "2026-03", Status: "complete"},
			{ID: "r1", Month: "2026-02", Status: "complete"},
		},
		assignments: map[string][]db.AssignmentRow{
			"r2": {
				{RunID: "r2", Date: "2026-03-02", PersonID: "a", Role: "Acil", ShiftCode: "G", Hours: 8},
				{RunID: "r2", Date: "2026-03-02", PersonID: "a", Role: "Acil", ShiftCode: "G", Hours: 8},
			},
		},
		issues:    map[string][]db.IssueRow{"r2": {{RunID: "r2", Date: "2026-03-04", ShiftID: "Acil/G", Missing: 1}}},
		overrides: map[string][]db.OverrideRow{},
	}
}

func TestListRuns(t *testing.T) {
	mock := runsMock()

	runs, err := ListRuns(context.Background(), mock, zap.NewNop(), "")
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	runs, err = ListRuns(context.Background(), mock, zap.NewNop(), "2026-02")
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "r1", runs[0].ID)

	_, err = ListRuns(context.Background(), &mockDB{getRunsErr: errMock}, zap.NewNop(), "")
	assert.ErrorIs(t, err, errMock)
}

func TestGetRunDetails(t *testing.T) {
	mock := runsMock()

	details, err := GetRunDetails(context.Background(), mock, zap.NewNop(), "r2")
	require.NoError(t, err)
	assert.Equal(t, "2026-03", details.Run.Month)
	assert.Len(t, details.Assignments, 2)
	assert.Len(t, details.Issues, 1)
	assert.Empty(t, details.Overrides)

	_, err = GetRunDetails(context.Background(), mock, zap.NewNop(), "missing")
	assert.ErrorContains(t, err, "not found")
}

func TestValidateRun_ReportsDoubleBooking(t *testing.T) {
	in := weekInput("a")
	in.Tasks[0].PerDay = 2

	violations, err := ValidateRun(context.Background(), runsMock(), testConfig(), zap.NewNop(), in, "r2")
	require.NoError(t, err)

	require.Len(t, violations, 1)
	assert.Equal(t, roster.RuleOneShiftPerDay, violations[0].Rule)
	assert.Equal(t, "2026-03-02", violations[0].Assignment.Date)
}
