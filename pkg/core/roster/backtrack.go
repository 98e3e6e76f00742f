package roster

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

// ErrBudgetExceeded marks a search stopped by SolveOptions.MaxNodes
var ErrBudgetExceeded = errors.New("search budget exceeded")

// contextCheckInterval is how many search nodes pass between context checks
const contextCheckInterval = 256

// SolveOptions bound and seed a run
type SolveOptions struct {
	// MaxNodes caps the number of search nodes. Zero means unbounded.
	MaxNodes int

	// Seed replaces the year*100+month seed when non-zero
	Seed uint64

	// FallbackToGreedy returns a greedy draft when the search budget or the
	// context deadline runs out
	FallbackToGreedy bool
}

func (o SolveOptions) seed(p *prepared) uint64 {
	if o.Seed != 0 {
		return o.Seed
	}
	return p.seed
}

// search is one depth-first run over the ordered open slots
type search struct {
	ctx    context.Context
	p      *prepared
	st     *rosterState
	eval   *Evaluator
	ranker *Ranker
	order  []*Slot

	maxNodes int
	nodes    int
	stop     error

	// deepest failure seen, reported as the exhausted run's issue
	deepest     int
	deepestSlot *Slot
	deepestWhy  string
}

// Solve assigns every slot of req or reports that it cannot. The search is
// all-or-nothing: an exhausted search returns no assignments, only an issue
// for the slot that failed deepest.
//
// Slots are visited most-constrained first. At each slot the ranked eligible
// candidates are tried in a strict pass that honours soft leave, then in a
// relaxed pass that ignores it; relaxed placements are logged as overrides.
// Context cancellation is returned as an error. A context deadline or the
// node budget ends the run with StatusBudgetExceeded, or with a greedy draft
// when FallbackToGreedy is set.
func Solve(ctx context.Context, req *Request, opts SolveOptions) (*Outcome, error) {
	p, err := prepare(req)
	if err != nil {
		return nil, err
	}
	seed := opts.seed(p)

	st := p.newState()
	s := &search{
		ctx:      ctx,
		p:        p,
		st:       st,
		eval:     newEvaluator(p, st),
		maxNodes: opts.MaxNodes,
		deepest:  -1,
	}
	s.ranker = newRanker(newScorer(p, st, newRand(seed)), st)
	s.order = s.orderSlots()

	if s.place(0) {
		out := newOutcome(p, st, StatusComplete, StrategyBacktracking, seed)
		out.Nodes = s.nodes
		return out, nil
	}

	if errors.Is(s.stop, context.Canceled) {
		return nil, fmt.Errorf("solve cancelled after %d nodes: %w", s.nodes, s.stop)
	}

	if s.stop != nil && opts.FallbackToGreedy {
		out := draft(p, seed)
		out.Status = StatusFallback
		out.Nodes = s.nodes
		return out, nil
	}

	status := StatusExhausted
	if s.stop != nil {
		status = StatusBudgetExceeded
	}
	out := emptyOutcome(p, status, seed)
	out.Nodes = s.nodes
	if s.deepestSlot != nil {
		out.Issues = []Issue{{
			Date:    s.deepestSlot.DateKey,
			ShiftID: s.deepestSlot.ShiftID(),
			Missing: 1,
			Reason:  s.deepestWhy,
		}}
	}
	return out, nil
}

// orderSlots returns the open (unpinned) slots sorted by the size of their
// candidate pool on the initial state, smallest first. Equal pools keep
// chronological order.
func (s *search) orderSlots() []*Slot {
	pinned := s.p.pinnedSet()
	pool := make(map[*Slot]int, len(s.p.slots))
	var open []*Slot
	for _, slot := range s.p.slots {
		if pinned[slot] {
			continue
		}
		open = append(open, slot)
		pool[slot] = len(s.eval.eligibleFor(slot, PassRelaxed, nil))
	}
	slices.SortStableFunc(open, func(a, b *Slot) int {
		return pool[a] - pool[b]
	})
	return open
}

func (s *search) passes() []Pass {
	if s.p.softLeaves && s.p.rules.LeaveBlock {
		return []Pass{PassStrict, PassRelaxed}
	}
	return []Pass{PassStrict}
}

// place fills order[k:] and reports whether it succeeded. On failure the
// state is exactly as it was on entry.
func (s *search) place(k int) bool {
	if k == len(s.order) {
		return true
	}
	if s.tick() {
		return false
	}

	slot := s.order[k]
	tried := make(map[int]bool)
	var rej rejections
	for _, pass := range s.passes() {
		rej = make(rejections)
		candidates := s.p.narrowForced(slot, s.eval.eligibleFor(slot, pass, rej))
		candidates = slices.DeleteFunc(candidates, func(person int) bool {
			return tried[person]
		})
		if len(candidates) == 0 {
			continue
		}

		for _, c := range s.ranker.Rank(slot, candidates) {
			tried[c.Person] = true
			pl := newPlacement(c.Person, slot)
			if pass == PassRelaxed {
				pl.override = s.overrideReason(c.Person, slot)
			}

			s.st.push(pl)
			if s.place(k + 1) {
				return true
			}
			s.st.pop()

			if s.stop != nil {
				return false
			}
		}
	}

	s.recordFailure(k, slot, rej, len(tried))
	return false
}

// tick counts a search node and reports whether the search must stop
func (s *search) tick() bool {
	s.nodes++
	if s.maxNodes > 0 && s.nodes > s.maxNodes {
		s.stop = ErrBudgetExceeded
		return true
	}
	if s.nodes%contextCheckInterval == 1 {
		if err := s.ctx.Err(); err != nil {
			s.stop = err
			return true
		}
	}
	return false
}

// overrideReason names the soft leave a relaxed placement ignores. It is
// empty when the person had no soft leave that day.
func (s *search) overrideReason(person int, slot *Slot) string {
	for _, leave := range s.p.leaves[personDay{person, slot.day}] {
		if leave.Effect.Kind == EffectSoftBlock {
			return fmt.Sprintf("soft leave %s relaxed", leave.Code)
		}
	}
	return ""
}

func (s *search) recordFailure(k int, slot *Slot, rej rejections, tried int) {
	if k < s.deepest {
		return
	}
	s.deepest = k
	s.deepestSlot = slot
	if tried == 0 {
		s.deepestWhy = rejectionReason(rej)
		return
	}
	s.deepestWhy = fmt.Sprintf("none of %d candidates led to a complete roster", tried)
}
