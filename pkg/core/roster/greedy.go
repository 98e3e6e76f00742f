package roster

import (
	"cmp"
	"math/rand/v2"
	"slices"
)

// supervisorWindowDays is the trailing window for spreading responsible rows
const supervisorWindowDays = 30

// Draft builds a roster in one chronological pass without backtracking.
// Unfillable slots are reported as issues and the pass continues.
func Draft(req *Request, opts SolveOptions) (*Outcome, error) {
	p, err := prepare(req)
	if err != nil {
		return nil, err
	}
	return draft(p, opts.seed(p)), nil
}

type greedy struct {
	p      *prepared
	st     *rosterState
	eval   *Evaluator
	ranker *Ranker
	rng    *rand.Rand
}

func draft(p *prepared, seed uint64) *Outcome {
	st := p.newState()
	rng := newRand(seed)
	g := &greedy{
		p:      p,
		st:     st,
		eval:   newEvaluator(p, st),
		ranker: newRanker(newScorer(p, st, rng), st),
		rng:    rng,
	}
	issues := NewIssues()
	pinned := p.pinnedSet()

	for _, day := range slotsByDay(p.slots) {
		// Responsible rows first
		slices.SortStableFunc(day, func(a, b *Slot) int {
			return cmpBool(b.Responsible, a.Responsible)
		})

		for _, slot := range day {
			if pinned[slot] {
				continue
			}
			person, rej, ok := g.pick(slot)
			if !ok {
				issues.AddSlot(slot, rejectionReason(rej))
				continue
			}
			st.push(newPlacement(person, slot))
		}
	}

	status := StatusComplete
	if issues.Len() > 0 {
		status = StatusPartial
	}
	out := newOutcome(p, st, status, StrategyGreedy, seed)
	out.Issues = issues.List()
	return out
}

// pick chooses a person for slot from the priority pool, then the general
// pool. People forced onto the slot by their leave replace both pools when
// any of them is admitted. The rejections of the last pool tried are
// returned when nobody fits.
func (g *greedy) pick(slot *Slot) (int, rejections, bool) {
	pools := g.pools(slot)
	if forced := g.forced(slot); len(forced) > 0 {
		pools = [][]int{forced}
	}

	var rej rejections
	for _, pool := range pools {
		rej = make(rejections)
		candidates := g.filter(slot, pool, rej)
		if len(candidates) == 0 {
			continue
		}

		if slot.RandomPick {
			return candidates[g.rng.IntN(len(candidates))], rej, true
		}

		ranked := g.ranker.Rank(slot, candidates)
		if slot.Responsible {
			from := slot.day - supervisorWindowDays
			slices.SortStableFunc(ranked, func(a, b Candidate) int {
				return cmp.Compare(
					g.st.persons[a.Person].responsibleSince(from, slot.day),
					g.st.persons[b.Person].responsibleSince(from, slot.day),
				)
			})
		}
		return ranked[0].Person, rej, true
	}
	return 0, rej, false
}

// pools returns the slot's priority pool (when set) followed by everyone
func (g *greedy) pools(slot *Slot) [][]int {
	everyone := make([]int, len(g.p.people))
	for i := range everyone {
		everyone[i] = i
	}
	if len(slot.PriorityPool) == 0 {
		return [][]int{everyone}
	}

	var priority []int
	for _, id := range slot.PriorityPool {
		if idx, ok := g.p.personIdx[id]; ok && !slices.Contains(priority, idx) {
			priority = append(priority, idx)
		}
	}
	if len(priority) == 0 {
		return [][]int{everyone}
	}
	return [][]int{priority, everyone}
}

// forced returns the admitted people whose leave forces them onto slot
func (g *greedy) forced(slot *Slot) []int {
	var forced []int
	for person := range g.p.people {
		if g.p.forcedOnto(person, slot) {
			forced = append(forced, person)
		}
	}
	if len(forced) == 0 {
		return nil
	}
	return g.filter(slot, forced, make(rejections))
}

// filter keeps the pool members admitted to slot. Responsible rows take
// supervisors only, and nobody works a night straight after their own night.
func (g *greedy) filter(slot *Slot, pool []int, rej rejections) []int {
	var out []int
	for _, person := range pool {
		switch {
		case slot.Responsible && !g.p.people[person].Supervisor:
			rej[RuleSupervisorOnly]++
		case slot.NightOrLong() && g.st.persons[person].nightOn(slot.day-1):
			rej[RuleNightAfterNight]++
		default:
			if v := g.eval.Admit(person, slot, PassStrict); !v.Eligible {
				rej[v.Rule]++
				continue
			}
			out = append(out, person)
		}
	}
	return out
}

// slotsByDay splits chronologically sorted slots into per-day groups
func slotsByDay(slots []*Slot) [][]*Slot {
	var days [][]*Slot
	for i := 0; i < len(slots); {
		j := i
		for j < len(slots) && slots[j].day == slots[i].day {
			j++
		}
		days = append(days, slices.Clone(slots[i:j]))
		i = j
	}
	return days
}

func cmpBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	default:
		return -1
	}
}
