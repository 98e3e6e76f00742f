package roster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func monthDays(year int, month time.Month) []time.Time {
	var days []time.Time
	for d := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC); d.Month() == month; d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func clock(s string) int {
	m, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return m
}

// timed builds a one-person demand row with times
func timed(date, role, code, start, end string) Demand {
	s, e := clock(start), clock(end)
	return Demand{
		Date:      day(date),
		Role:      role,
		ShiftCode: code,
		Hours:     shiftDurationHours(s, e),
		Required:  1,
		Start:     s,
		End:       e,
		HasTimes:  true,
	}
}

// untimed builds a one-person demand row without times
func untimed(date, role, code string, hours float64) Demand {
	return Demand{Date: day(date), Role: role, ShiftCode: code, Hours: hours, Required: 1}
}

func night(d Demand) Demand {
	d.Night = true
	return d
}

func people(ids ...string) []Person {
	out := make([]Person, len(ids))
	for i, id := range ids {
		out[i] = Person{ID: id, Name: id}
	}
	return out
}

// bareRules disables every numeric rule and toggle so tests can enable one at a time
func bareRules() Rules {
	return Rules{
		HoursPerWorkday: 8,
		Weights:         Weights{HourBalance: 1},
	}
}

func newRequest(days []time.Time, demand []Demand, staff []Person, rules Rules) *Request {
	return &Request{
		Year:   days[0].Year(),
		Month:  days[0].Month(),
		Days:   days,
		Demand: demand,
		People: staff,
		Rules:  rules,
	}
}

// testEnv exposes the engine internals for a request
type testEnv struct {
	p    *prepared
	st   *rosterState
	eval *Evaluator
}

func newTestEnv(t *testing.T, req *Request) *testEnv {
	t.Helper()
	p, err := prepare(req)
	require.NoError(t, err)
	st := p.newState()
	return &testEnv{p: p, st: st, eval: newEvaluator(p, st)}
}

func (env *testEnv) person(id string) int {
	return env.p.personIdx[id]
}

// slot returns the first unit slot on date with the given shift code
func (env *testEnv) slot(t *testing.T, date, code string) *Slot {
	t.Helper()
	for _, s := range env.p.slots {
		if s.DateKey == date && s.code == NormalizeCode(code) {
			return s
		}
	}
	t.Fatalf("no slot %s %s", date, code)
	return nil
}

func (env *testEnv) place(t *testing.T, id, date, code string) {
	t.Helper()
	env.st.push(newPlacement(env.person(id), env.slot(t, date, code)))
}

func (env *testEnv) check(t *testing.T, id, date, code string) Verdict {
	t.Helper()
	return env.eval.Admit(env.person(id), env.slot(t, date, code), PassStrict)
}

func assignmentsOf(out *Outcome, id string) []Assignment {
	var as []Assignment
	for _, a := range out.Assignments {
		if a.PersonID == id {
			as = append(as, a)
		}
	}
	return as
}
