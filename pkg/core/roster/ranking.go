package roster

import (
	"cmp"
	"math"
	"slices"
)

// rankPrecision is the granularity scores and hours are rounded to before
// comparison, so float drift cannot split a tie
const rankPrecision = 1e6

// Candidate is an eligible person with their score for one slot
type Candidate struct {
	Person int
	Score  Score
	order  int
}

// Ranker orders eligible candidates with the scorer
type Ranker struct {
	scorer *Scorer
	st     *rosterState
}

func newRanker(scorer *Scorer, st *rosterState) *Ranker {
	return &Ranker{scorer: scorer, st: st}
}

// Rank scores every candidate for slot and sorts them, best first. Ties on
// the base score fall back, in order, to request preference (descending),
// the sequence penalty, total hours, jitter and finally input order.
func (r *Ranker) Rank(slot *Slot, candidates []int) []Candidate {
	ranked := make([]Candidate, len(candidates))
	for i, person := range candidates {
		ranked[i] = Candidate{Person: person, Score: r.scorer.Score(person, slot), order: i}
	}
	slices.SortFunc(ranked, r.compare)
	return ranked
}

func (r *Ranker) compare(a, b Candidate) int {
	if c := cmp.Compare(rankKey(a.Score.Base), rankKey(b.Score.Base)); c != 0 {
		return c
	}
	if a.Score.Preference != b.Score.Preference {
		return cmp.Compare(b.Score.Preference, a.Score.Preference)
	}
	if a.Score.Sequence != b.Score.Sequence {
		return cmp.Compare(a.Score.Sequence, b.Score.Sequence)
	}
	ha, hb := r.st.persons[a.Person].TotalHours, r.st.persons[b.Person].TotalHours
	if c := cmp.Compare(rankKey(ha), rankKey(hb)); c != 0 {
		return c
	}
	if a.Score.Jitter != b.Score.Jitter {
		return cmp.Compare(a.Score.Jitter, b.Score.Jitter)
	}
	return cmp.Compare(a.order, b.order)
}

func rankKey(v float64) float64 {
	return math.Round(v*rankPrecision) / rankPrecision
}
