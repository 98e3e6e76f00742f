package roster

import (
	"cmp"
	"slices"
)

// Status describes how a run ended
type Status string

const (
	// StatusComplete means every slot was filled
	StatusComplete Status = "complete"
	// StatusExhausted means the search proved no complete roster exists
	StatusExhausted Status = "exhausted"
	// StatusBudgetExceeded means the search ran out of nodes or time
	StatusBudgetExceeded Status = "budget_exceeded"
	// StatusFallback means the search ran out of budget and a greedy draft was returned
	StatusFallback Status = "fallback"
	// StatusPartial means a greedy draft left some demand unmet
	StatusPartial Status = "partial"
)

// Strategy names the algorithm that produced an outcome
type Strategy string

const (
	StrategyBacktracking Strategy = "backtracking"
	StrategyGreedy       Strategy = "greedy"
)

// Outcome is the result of one run
type Outcome struct {
	Status      Status
	Strategy    Strategy
	Assignments []Assignment
	Issues      []Issue
	Overrides   []Override

	// Nodes is the number of search nodes the backtracking solver visited
	Nodes int

	Seed uint64

	// Hours maps person ID to assigned hours in this run
	Hours map[string]float64

	// Warnings lists request entries that were skipped
	Warnings []string
}

// OK reports whether every slot was filled
func (o *Outcome) OK() bool {
	return o.Status == StatusComplete
}

// HoursSpread returns the difference between the most and least assigned
// hours across all people
func (o *Outcome) HoursSpread() float64 {
	if len(o.Hours) == 0 {
		return 0
	}
	first := true
	var lo, hi float64
	for _, h := range o.Hours {
		if first {
			lo, hi, first = h, h, false
			continue
		}
		lo = min(lo, h)
		hi = max(hi, h)
	}
	return hi - lo
}

// newOutcome builds an outcome from the non-historical placements on the state
func newOutcome(p *prepared, st *rosterState, status Status, strategy Strategy, seed uint64) *Outcome {
	out := &Outcome{
		Status:   status,
		Strategy: strategy,
		Seed:     seed,
		Hours:    make(map[string]float64, len(p.people)),
		Warnings: slices.Clone(p.warnings),
	}
	for i, person := range p.people {
		out.Hours[person.ID] = st.persons[i].TotalHours
	}
	for _, pl := range st.live() {
		out.Assignments = append(out.Assignments, Assignment{
			Date:      pl.slot.DateKey,
			PersonID:  st.ids[pl.person],
			Role:      pl.slot.Role,
			ShiftCode: pl.slot.ShiftCode,
			Hours:     pl.slot.Hours,
			Pinned:    pl.pinned,
		})
		if pl.override != "" {
			out.Overrides = append(out.Overrides, Override{
				Date:      pl.slot.DateKey,
				PersonID:  st.ids[pl.person],
				ShiftCode: pl.slot.ShiftCode,
				Role:      pl.slot.Role,
				Reason:    pl.override,
			})
		}
	}
	SortAssignments(out.Assignments)
	return out
}

// emptyOutcome builds an outcome carrying no assignments
func emptyOutcome(p *prepared, status Status, seed uint64) *Outcome {
	out := &Outcome{
		Status:   status,
		Strategy: StrategyBacktracking,
		Seed:     seed,
		Hours:    make(map[string]float64, len(p.people)),
		Warnings: slices.Clone(p.warnings),
	}
	for _, person := range p.people {
		out.Hours[person.ID] = 0
	}
	return out
}

// SortAssignments orders assignments by date, role, shift code and person
func SortAssignments(as []Assignment) {
	slices.SortStableFunc(as, func(a, b Assignment) int {
		return cmp.Or(
			cmp.Compare(a.Date, b.Date),
			cmp.Compare(a.Role, b.Role),
			cmp.Compare(a.ShiftCode, b.ShiftCode),
			cmp.Compare(a.PersonID, b.PersonID),
		)
	})
}
