package roster

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

type issueKey struct {
	date    string
	shiftID string
}

// Issues accumulates unmet demand, merging repeated misses of the same
// date and shift
type Issues struct {
	order []issueKey
	byKey map[issueKey]*Issue
}

// NewIssues returns an empty accumulator
func NewIssues() *Issues {
	return &Issues{byKey: make(map[issueKey]*Issue)}
}

// Add records missing unfilled units of a slot's demand row
func (is *Issues) Add(date, shiftID string, missing int, reason string) {
	if missing <= 0 {
		return
	}
	key := issueKey{date, shiftID}
	if existing, ok := is.byKey[key]; ok {
		existing.Missing += missing
		if reason != "" && !strings.Contains(existing.Reason, reason) {
			existing.Reason += "; " + reason
		}
		return
	}
	is.order = append(is.order, key)
	is.byKey[key] = &Issue{Date: date, ShiftID: shiftID, Missing: missing, Reason: reason}
}

// AddSlot records one missing unit of slot
func (is *Issues) AddSlot(slot *Slot, reason string) {
	is.Add(slot.DateKey, slot.ShiftID(), 1, reason)
}

// Len returns the number of distinct issues
func (is *Issues) Len() int {
	return len(is.order)
}

// List returns the issues in insertion order
func (is *Issues) List() []Issue {
	out := make([]Issue, 0, len(is.order))
	for _, key := range is.order {
		out = append(out, *is.byKey[key])
	}
	return out
}

// rejectionReason summarizes why nobody could fill a slot
func rejectionReason(rej rejections) string {
	if len(rej) == 0 {
		return "no candidates"
	}
	type count struct {
		rule RuleID
		n    int
	}
	counts := make([]count, 0, len(rej))
	for r, n := range rej {
		counts = append(counts, count{r, n})
	}
	slices.SortFunc(counts, func(a, b count) int {
		return cmp.Or(cmp.Compare(b.n, a.n), cmp.Compare(a.rule, b.rule))
	})
	parts := make([]string, len(counts))
	for i, c := range counts {
		parts[i] = fmt.Sprintf("%s: %d", c.rule, c.n)
	}
	return "no eligible candidate (" + strings.Join(parts, ", ") + ")"
}
