package roster

import (
	"math/rand/v2"
)

// Score is the fairness desirability of a candidate. Lower is picked first.
type Score struct {
	// Base is the weighted fairness sum without jitter
	Base float64

	// Jitter is the seeded tie-break noise in [0, Weights.Jitter)
	Jitter float64

	// Total is Base plus Jitter
	Total float64

	// Preference is the net request count for the slot: prefers minus avoids
	Preference int

	// Sequence counts yesterday's shifts that discourage this one
	Sequence int
}

// Scorer computes fairness scores over the live roster state. Its PRNG is
// the single source of randomness of a run.
type Scorer struct {
	p   *prepared
	st  *rosterState
	rng *rand.Rand
}

func newScorer(p *prepared, st *rosterState, rng *rand.Rand) *Scorer {
	return &Scorer{p: p, st: st, rng: rng}
}

// newRand returns the run's PRNG for seed
func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Target returns the monthly target hours of person
func (s *Scorer) Target(person int) float64 {
	return s.p.targets[person]
}

// Score computes the fairness score of person for slot:
//
//	(totalHours - target) * HourBalance
//	+ weekdayCount[slot weekday] * WeekdayBalance
//	+ sum of pair history with people already on this row * PairPenalty
//	- RequestBonus per prefer, + RequestBonus per avoid
//
// plus seeded jitter. Avoid requests are ignored on a day the person is
// forced onto a shift by leave.
func (s *Scorer) Score(person int, slot *Slot) Score {
	w := s.p.rules.Weights
	ps := s.st.persons[person]

	base := (ps.TotalHours - s.p.targets[person]) * w.HourBalance
	base += float64(ps.WeekdayCounts[slot.Date.Weekday()]) * w.WeekdayBalance

	pairs := 0
	for _, other := range s.st.groups[slot.groupKey] {
		pairs += ps.PairHistory[s.st.ids[other]]
	}
	base += float64(pairs) * w.PairPenalty

	pref := s.preference(person, slot)
	base -= float64(pref) * w.RequestBonus

	jitter := 0.0
	if w.Jitter > 0 {
		jitter = s.rng.Float64() * w.Jitter
	}

	return Score{
		Base:       base,
		Jitter:     jitter,
		Total:      base + jitter,
		Preference: pref,
		Sequence:   s.sequencePenalty(person, slot),
	}
}

// preference sums the person's requests for the slot's date, both for its
// shift code and date-wide
func (s *Scorer) preference(person int, slot *Slot) int {
	pref := s.p.prefs[prefKey{person, slot.day, slot.code}] + s.p.prefs[prefKey{person, slot.day, ""}]
	if pref < 0 {
		if _, forced := s.p.forcedShift(person, slot.day); forced {
			return 0
		}
	}
	return pref
}

// sequencePenalty counts yesterday's shifts whose avoid-after list names this slot
func (s *Scorer) sequencePenalty(person int, slot *Slot) int {
	if len(s.p.sequence) == 0 {
		return 0
	}
	penalty := 0
	for _, q := range s.st.persons[person].byDay[slot.day-1] {
		if s.p.sequence[q.slot.code][slot.code] {
			penalty++
		}
	}
	return penalty
}
