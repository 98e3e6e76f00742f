package roster

import (
	"cmp"
	"slices"
	"strings"
)

const (
	// RuleUnknownPerson flags an assignment for someone not in the request
	RuleUnknownPerson RuleID = "UNKNOWN_PERSON"
	// RuleNoDemand flags an assignment with no unfilled demand unit left
	RuleNoDemand RuleID = "NO_DEMAND"
)

// Violation is a hard rule broken by an assignment of a finished roster
type Violation struct {
	Assignment Assignment
	Rule       RuleID
}

// Validate replays assignments against req in date order and reports every
// assignment the hard rules would have refused. Soft leave is treated as
// relaxed and pinned assignments are accepted as given. Each violating pair
// is reported once, on the assignment replayed second.
func Validate(req *Request, assignments []Assignment) ([]Violation, error) {
	p, err := prepare(req)
	if err != nil {
		return nil, err
	}
	st := p.historyState()
	eval := newEvaluator(p, st)

	free := make(map[string][]*Slot)
	for _, slot := range p.slots {
		free[slot.groupKey] = append(free[slot.groupKey], slot)
	}

	replay := slices.Clone(assignments)
	slices.SortStableFunc(replay, func(a, b Assignment) int {
		return cmp.Compare(a.Date, b.Date)
	})

	var violations []Violation
	for _, a := range replay {
		person, ok := p.personIdx[a.PersonID]
		if !ok {
			violations = append(violations, Violation{Assignment: a, Rule: RuleUnknownPerson})
			continue
		}
		key := a.Date + "|" + strings.Join(Tokens(a.Role), " ") + "/" + NormalizeCode(a.ShiftCode)
		units := free[key]
		if len(units) == 0 {
			violations = append(violations, Violation{Assignment: a, Rule: RuleNoDemand})
			continue
		}
		slot := units[0]
		free[key] = units[1:]

		if !a.Pinned {
			if v := eval.Admit(person, slot, PassRelaxed); !v.Eligible {
				violations = append(violations, Violation{Assignment: a, Rule: v.Rule})
			}
		}
		pl := newPlacement(person, slot)
		pl.pinned = a.Pinned
		st.push(pl)
	}
	return violations, nil
}
