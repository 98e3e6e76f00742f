package roster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() Catalog {
	return Catalog{
		Shifts:   []ShiftDef{{Code: "G", Start: "08:00", End: "16:00"}},
		Closures: []string{"FREQ=MONTHLY;BYMONTHDAY=15"},
		Rules:    DefaultRules(),
	}
}

func countRows(demand []Demand, code string) (rows, required int) {
	for _, d := range demand {
		if d.ShiftCode == code {
			rows++
			required += d.Required
		}
	}
	return rows, required
}

func TestNormalizeInput_Demand(t *testing.T) {
	in := &Input{
		Month:  "2026-03",
		Shifts: []ShiftDef{{Code: "N", Start: "20:00", End: "08:00", Night: true}},
		Tasks: []TaskLine{
			{Role: "Acil", ShiftCode: "G", PerDay: 1},
			{Role: "Acil", ShiftCode: "N", Weekly: map[string]int{"mon": 2, "Friday": 1, "someday": 3}},
			{Role: "Sorumlu", ShiftCode: "S", RRule: "FREQ=WEEKLY;BYDAY=SA", Count: 2, Hours: 4},
			{ShiftCode: "X", RRule: "not a rule"},
		},
		People: []PersonDoc{{ID: "a"}},
	}

	req, warnings, err := NormalizeInput(in, testCatalog())
	require.NoError(t, err)

	assert.Equal(t, 2026, req.Year)
	assert.Equal(t, time.March, req.Month)
	assert.Len(t, req.Days, 31)

	// The 15th is closed
	rows, required := countRows(req.Demand, "G")
	assert.Equal(t, 30, rows)
	assert.Equal(t, 30, required)

	rows, required = countRows(req.Demand, "N")
	assert.Equal(t, 9, rows)
	assert.Equal(t, 5*2+4, required)

	rows, required = countRows(req.Demand, "S")
	assert.Equal(t, 4, rows)
	assert.Equal(t, 8, required)

	for _, d := range req.Demand {
		assert.NotEqual(t, 15, d.Date.Day())
		switch d.ShiftCode {
		case "G":
			assert.True(t, d.HasTimes)
			assert.Equal(t, 8.0, d.Hours)
		case "N":
			assert.True(t, d.Night)
			assert.Equal(t, 20*60, d.Start)
			assert.Equal(t, 8*60, d.End)
			assert.Equal(t, 12.0, d.Hours)
			assert.Contains(t, []time.Weekday{time.Monday, time.Friday}, d.Date.Weekday())
		case "S":
			assert.False(t, d.HasTimes)
			assert.Equal(t, 4.0, d.Hours)
			assert.Equal(t, time.Saturday, d.Date.Weekday())
		}
	}

	var messages []string
	for _, w := range warnings {
		messages = append(messages, w.String())
	}
	assert.ElementsMatch(t, []string{
		`tasks[1]: unknown weekday "someday"`,
		`tasks[2]: shift S has no definition, times unknown`,
		`tasks[3]: invalid rrule: ` + rruleError(t, "not a rule"),
	}, messages)
}

func TestNormalizeInput_RRuleKeepsDTStart(t *testing.T) {
	in := &Input{
		Month: "2026-03",
		Tasks: []TaskLine{
			{Role: "Acil", ShiftCode: "G", RRule: "FREQ=WEEKLY;INTERVAL=2;DTSTART=20260309T000000Z", Count: 1},
		},
		People: []PersonDoc{{ID: "a"}},
	}

	req, warnings, err := NormalizeInput(in, testCatalog())
	require.NoError(t, err)
	assert.Empty(t, warnings)

	var dates []string
	for _, d := range req.Demand {
		dates = append(dates, d.Date.Format(DateLayout))
	}
	assert.Equal(t, []string{"2026-03-09", "2026-03-23"}, dates)
}

func rruleError(t *testing.T, rule string) string {
	t.Helper()
	n := &normalizer{}
	_, err := n.occurrences(rule)
	require.Error(t, err)
	return err.Error()
}

func TestNormalizeInput_ExplicitDays(t *testing.T) {
	in := &Input{
		Month:  "2026-03",
		Days:   []string{"2026-03-10", "2026-03-02", "2026-04-01", "2026-03-02", "yesterday"},
		Tasks:  []TaskLine{{ShiftCode: "G", PerDay: 1}},
		People: []PersonDoc{{ID: "a"}},
	}

	req, warnings, err := NormalizeInput(in, Catalog{Rules: DefaultRules()})
	require.NoError(t, err)

	assert.Equal(t, []time.Time{day("2026-03-02"), day("2026-03-10")}, req.Days)
	assert.Len(t, req.Demand, 2)
	assert.Len(t, warnings, 3)
}

func TestNormalizeInput_PeopleAndLeaves(t *testing.T) {
	no := false
	in := &Input{
		Month:  "2026-03",
		Shifts: []ShiftDef{{Code: "G", Hours: 8}},
		Tasks:  []TaskLine{{ShiftCode: "G", PerDay: 1}},
		People: []PersonDoc{
			{ID: "a", Name: "Ayşe", Areas: []string{"Yeşil"}},
			{ID: "b", NightAllowed: &no, Supervisor: true},
		},
		Leaves: []LeaveDoc{
			{PersonID: "a", Date: "2026-03-03", Code: "kn", ShiftCode: "N"},
			{PersonID: "a", Date: "03/04/2026", Code: "Y"},
			{PersonID: "b", Date: "2026-03-04", Code: "AN"},
			{PersonID: "b", Date: "2026-03-05", Code: "yi"},
			{PersonID: "b", Date: "2026-03-06", Code: "ZZ"},
			{Date: "2026-03-07", Code: "YI"},
		},
		LeaveCodes: map[string]LeaveCodeDef{
			"YI": {Effect: "hard", TargetReduction: 8},
		},
		Requests: []RequestDoc{
			{PersonID: "a", Date: "2026-03-09", Kind: "want"},
			{PersonID: "a", Date: "2026-03-10", ShiftCode: "G", Kind: "off"},
			{PersonID: "a", Date: "2026-03-11", Kind: "maybe"},
		},
		BlockedDays: []PersonDateDoc{{PersonID: "b", Date: "2026-03-12"}},
	}

	req, warnings, err := NormalizeInput(in, Catalog{Rules: DefaultRules()})
	require.NoError(t, err)

	require.Len(t, req.People, 2)
	assert.False(t, req.People[0].NoNights)
	assert.True(t, req.People[1].NoNights)
	assert.True(t, req.People[1].Supervisor)

	require.Len(t, req.Leaves, 4)
	assert.Equal(t, LeaveEffect{Kind: EffectForceShift, ShiftCode: "N"}, req.Leaves[0].Effect)
	assert.Equal(t, EffectBanFirstDayOfMonth, req.Leaves[1].Effect.Kind)
	assert.Equal(t, EffectHardBlock, req.Leaves[2].Effect.Kind)
	assert.Equal(t, 8.0, req.Leaves[2].TargetReduction)
	assert.Equal(t, EffectNone, req.Leaves[3].Effect.Kind)

	assert.Equal(t, []Preference{
		{PersonID: "a", Date: day("2026-03-09"), Kind: Prefer},
		{PersonID: "a", Date: day("2026-03-10"), ShiftCode: "G", Kind: Avoid},
	}, req.Preferences)
	assert.Equal(t, []DayBlock{{PersonID: "b", Date: day("2026-03-12")}}, req.BlockedDays)

	// bad leave date, leave without a person, unknown request kind
	assert.Len(t, warnings, 3)
}

func TestNormalizeInput_PinsAndHistory(t *testing.T) {
	in := &Input{
		Month:   "2026-03",
		Shifts:  []ShiftDef{{Code: "N", Start: "20:00", End: "08:00", Night: true}},
		Tasks:   []TaskLine{{ShiftCode: "N", PerDay: 1}},
		People:  []PersonDoc{{ID: "a"}},
		Pinned:  []ShiftDoc{{PersonID: "a", Date: "2026-03-05", ShiftCode: "N"}},
		History: []ShiftDoc{{PersonID: "a", Date: "2026-02-28", ShiftCode: "n"}},
	}

	req, warnings, err := NormalizeInput(in, Catalog{Rules: DefaultRules()})
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, []Pin{{PersonID: "a", Date: day("2026-03-05"), ShiftCode: "N"}}, req.Pins)
	require.Len(t, req.History, 1)
	h := req.History[0].Slot
	assert.True(t, h.Night)
	assert.True(t, h.HasTimes)
	assert.Equal(t, 12.0, h.Hours)
	assert.Equal(t, day("2026-02-28"), h.Date)
}

func TestNormalizeInput_Errors(t *testing.T) {
	_, _, err := NormalizeInput(&Input{Tasks: []TaskLine{{ShiftCode: "G"}}}, Catalog{Rules: DefaultRules()})
	assert.Error(t, err)

	_, _, err = NormalizeInput(&Input{Month: "March"}, Catalog{Rules: DefaultRules()})
	assert.ErrorContains(t, err, "invalid month")

	rules := DefaultRules()
	rules.MaxConsecutiveDays = -2
	_, _, err = NormalizeInput(&Input{Month: "2026-03"}, Catalog{Rules: rules})
	assert.ErrorIs(t, err, ErrInvalidRules)
}
