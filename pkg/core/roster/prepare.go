package roster

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

type personDay struct {
	person int
	day    int
}

type prefKey struct {
	person int
	day    int
	code   string
}

// prepared holds the indexes derived once from a Request
type prepared struct {
	req   *Request
	rules Rules

	people    []Person
	personIdx map[string]int

	areas   []areaMatcher
	allowed []map[string]bool

	leaves     map[personDay][]LeaveRecord
	blocked    map[personDay]bool
	prefs      map[prefKey]int
	softLeaves bool

	weekendBanned map[string]bool
	greenCode     string
	sequence      map[string]map[string]bool

	targets []float64

	slots    []*Slot
	pinned   []pinnedSlot
	history  []historySlot
	warnings []string

	seed uint64
}

type pinnedSlot struct {
	person int
	slot   *Slot
}

type historySlot struct {
	person int
	slot   *Slot
}

// prepare validates a request and builds every index the strategies use
func prepare(req *Request) (*prepared, error) {
	if len(req.Days) == 0 {
		return nil, ErrNoDays
	}
	if err := req.Rules.Validate(); err != nil {
		return nil, err
	}

	p := &prepared{
		req:           req,
		rules:         req.Rules,
		people:        req.People,
		personIdx:     make(map[string]int, len(req.People)),
		leaves:        make(map[personDay][]LeaveRecord),
		blocked:       make(map[personDay]bool),
		prefs:         make(map[prefKey]int),
		weekendBanned: make(map[string]bool),
		sequence:      make(map[string]map[string]bool),
	}

	for i, person := range req.People {
		if _, dup := p.personIdx[person.ID]; dup {
			p.warnings = append(p.warnings, fmt.Sprintf("duplicate person %q ignored", person.ID))
			continue
		}
		p.personIdx[person.ID] = i
		p.areas = append(p.areas, newAreaMatcher(person.Areas))
		var allowed map[string]bool
		if len(person.AllowedShiftCodes) > 0 {
			allowed = make(map[string]bool, len(person.AllowedShiftCodes))
			for _, code := range person.AllowedShiftCodes {
				allowed[NormalizeCode(code)] = true
			}
		}
		p.allowed = append(p.allowed, allowed)
	}
	// Duplicates keep their index slot so people and matchers stay aligned
	for len(p.areas) < len(req.People) {
		p.areas = append(p.areas, areaMatcher{})
		p.allowed = append(p.allowed, nil)
	}

	for _, leave := range req.Leaves {
		idx, ok := p.personIdx[leave.PersonID]
		if !ok {
			continue
		}
		key := personDay{idx, dayNumber(leave.Date)}
		p.leaves[key] = append(p.leaves[key], leave)
		if leave.Effect.Kind == EffectSoftBlock {
			p.softLeaves = true
		}
	}
	for _, block := range req.BlockedDays {
		if idx, ok := p.personIdx[block.PersonID]; ok {
			p.blocked[personDay{idx, dayNumber(block.Date)}] = true
		}
	}
	for _, pref := range req.Preferences {
		idx, ok := p.personIdx[pref.PersonID]
		if !ok {
			continue
		}
		key := prefKey{idx, dayNumber(pref.Date), NormalizeCode(pref.ShiftCode)}
		switch pref.Kind {
		case Prefer:
			p.prefs[key]++
		case Avoid:
			p.prefs[key]--
		}
	}

	for _, code := range p.rules.WeekendBannedCodes {
		p.weekendBanned[NormalizeCode(code)] = true
	}
	if p.rules.GreenArea != nil {
		p.greenCode = NormalizeCode(p.rules.GreenArea.ShiftCode)
	}
	for _, seq := range p.rules.SequencePenalties {
		after := NormalizeCode(seq.After)
		if p.sequence[after] == nil {
			p.sequence[after] = make(map[string]bool)
		}
		for _, code := range seq.Avoid {
			p.sequence[after][NormalizeCode(code)] = true
		}
	}

	p.computeTargets()
	p.expandSlots()
	p.resolvePins()
	p.resolveHistory()

	year, month := req.Year, req.Month
	if year == 0 {
		year, month = req.Days[0].Year(), req.Days[0].Month()
	}
	p.seed = uint64(year*100 + int(month))

	return p, nil
}

// computeTargets derives each person's monthly target hours: workdays times
// HoursPerWorkday minus the reductions of their countable leave days
func (p *prepared) computeTargets() {
	holidays := make(map[int]bool, len(p.req.Holidays))
	for _, h := range p.req.Holidays {
		holidays[dayNumber(h)] = true
	}
	inPeriod := make(map[int]bool, len(p.req.Days))
	for _, d := range p.req.Days {
		inPeriod[dayNumber(d)] = true
	}
	base := float64(workdays(p.req.Days, holidays)) * p.rules.HoursPerWorkday

	reductions := make([]map[int]float64, len(p.people))
	for key, leaves := range p.leaves {
		if !inPeriod[key.day] {
			continue
		}
		for _, leave := range leaves {
			if leave.TargetReduction <= 0 {
				continue
			}
			if reductions[key.person] == nil {
				reductions[key.person] = make(map[int]float64)
			}
			// A day counts once, at its largest reduction
			reductions[key.person][key.day] = max(reductions[key.person][key.day], leave.TargetReduction)
		}
	}

	p.targets = make([]float64, len(p.people))
	for i := range p.people {
		target := base
		for _, r := range reductions[i] {
			target -= r
		}
		p.targets[i] = max(target, 0)
	}
}

// canonicalSlot fills the derived keys of a slot built from a demand row
func canonicalSlot(d Demand, unit int) *Slot {
	s := &Slot{Demand: d, Unit: unit}
	s.day = dayNumber(d.Date)
	s.Date = dateOfDay(s.day)
	s.DateKey = s.Date.Format(DateLayout)
	s.week = ISOWeekKey(s.Date)
	s.code = NormalizeCode(d.ShiftCode)
	s.roleTokens = Tokens(d.Role)
	s.taskKey = strings.Join(s.roleTokens, " ") + "/" + s.code
	s.groupKey = s.DateKey + "|" + s.taskKey
	if len(d.NextDayAllowed) > 0 {
		s.nextDay = make(map[string]bool, len(d.NextDayAllowed))
		for _, code := range d.NextDayAllowed {
			s.nextDay[NormalizeCode(code)] = true
		}
	}
	return s
}

// expandSlots turns demand rows into unit slots, skipping malformed rows and
// rows outside the requested days
func (p *prepared) expandSlots() {
	days := make(map[int]bool, len(p.req.Days))
	for _, d := range p.req.Days {
		days[dayNumber(d)] = true
	}

	for i, d := range p.req.Demand {
		switch {
		case d.Date.IsZero():
			p.warnings = append(p.warnings, fmt.Sprintf("demand row %d skipped: missing date", i))
			continue
		case d.ShiftCode == "":
			p.warnings = append(p.warnings, fmt.Sprintf("demand row %d skipped: missing shift code", i))
			continue
		case d.Hours < 0:
			p.warnings = append(p.warnings, fmt.Sprintf("demand row %d skipped: negative hours", i))
			continue
		case !days[dayNumber(d.Date)]:
			p.warnings = append(p.warnings, fmt.Sprintf("demand row %d skipped: %s outside the rostered days", i, d.Date.Format(DateLayout)))
			continue
		}
		for unit := 0; unit < d.Required; unit++ {
			slot := canonicalSlot(d, unit)
			slot.Index = len(p.slots)
			p.slots = append(p.slots, slot)
		}
	}

	// Chronological order is the base order for both strategies
	sort.SliceStable(p.slots, func(i, j int) bool {
		return p.slots[i].day < p.slots[j].day
	})
	for i, s := range p.slots {
		s.Index = i
	}
}

// resolvePins matches each pin to an unfilled unit slot of the same row
func (p *prepared) resolvePins() {
	taken := make(map[*Slot]bool)
	for _, pin := range p.req.Pins {
		idx, ok := p.personIdx[pin.PersonID]
		if !ok {
			p.warnings = append(p.warnings, fmt.Sprintf("pin for unknown person %q ignored", pin.PersonID))
			continue
		}
		day := dayNumber(pin.Date)
		code := NormalizeCode(pin.ShiftCode)
		role := NormalizeLabel(pin.Role)
		i := slices.IndexFunc(p.slots, func(s *Slot) bool {
			return !taken[s] && s.day == day && s.code == code && (role == "" || NormalizeLabel(s.Role) == role)
		})
		if i < 0 {
			p.warnings = append(p.warnings, fmt.Sprintf("pin %s %s for %q has no matching demand", pin.Date.Format(DateLayout), pin.ShiftCode, pin.PersonID))
			continue
		}
		taken[p.slots[i]] = true
		p.pinned = append(p.pinned, pinnedSlot{person: idx, slot: p.slots[i]})
	}
}

func (p *prepared) resolveHistory() {
	for _, h := range p.req.History {
		idx, ok := p.personIdx[h.PersonID]
		if !ok || h.Slot.Date.IsZero() {
			continue
		}
		p.history = append(p.history, historySlot{person: idx, slot: canonicalSlot(h.Slot, 0)})
	}
}

// pinnedSet returns the slots filled by pins
func (p *prepared) pinnedSet() map[*Slot]bool {
	set := make(map[*Slot]bool, len(p.pinned))
	for _, pin := range p.pinned {
		set[pin.slot] = true
	}
	return set
}

// historyState builds a fresh run state seeded with carried-in history
func (p *prepared) historyState() *rosterState {
	st := newRosterState(p.people)
	for _, h := range p.history {
		pl := newPlacement(h.person, h.slot)
		pl.historical = true
		st.push(pl)
	}
	return st
}

// newState builds a fresh run state seeded with history and pins
func (p *prepared) newState() *rosterState {
	st := p.historyState()
	for _, pin := range p.pinned {
		pl := newPlacement(pin.person, pin.slot)
		pl.pinned = true
		st.push(pl)
	}
	return st
}

// forcedShift returns the forced-shift leave of a person for a day, if any
func (p *prepared) forcedShift(person, day int) (LeaveEffect, bool) {
	for _, leave := range p.leaves[personDay{person, day}] {
		if leave.Effect.Kind == EffectForceShift {
			return leave.Effect, true
		}
	}
	return LeaveEffect{}, false
}

// forcedOnto reports whether person is forced onto this slot by a KN-style leave
func (p *prepared) forcedOnto(person int, slot *Slot) bool {
	effect, ok := p.forcedShift(person, slot.day)
	if !ok {
		return false
	}
	return effect.ShiftCode == "" || NormalizeCode(effect.ShiftCode) == slot.code
}

// narrowForced applies forced-shift narrowing: if any candidate is forced
// onto this slot, only forced candidates remain
func (p *prepared) narrowForced(slot *Slot, candidates []int) []int {
	var forced []int
	for _, c := range candidates {
		if p.forcedOnto(c, slot) {
			forced = append(forced, c)
		}
	}
	if len(forced) > 0 {
		return forced
	}
	return candidates
}
