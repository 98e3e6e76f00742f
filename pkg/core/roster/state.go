package roster

import (
	"slices"
	"time"
)

// placement is a person occupying a slot. Placements live on the state's
// stack; undo pops them in reverse order.
type placement struct {
	person int
	slot   *Slot

	day      int
	startAbs int
	endAbs   int

	historical bool
	pinned     bool
	override   string

	// prevTotal and prevWeekHours restore float counters exactly on undo
	prevTotal     float64
	prevWeekHours float64
}

// PersonState is the per-run roster state of one person
type PersonState struct {
	TotalHours    float64
	WeekCounts    map[string]int
	WeekHours     map[string]float64
	WeekdayCounts [7]int
	TaskCounts    map[string]int
	PairHistory   map[string]int

	placements  []*placement
	byDay       map[int][]*placement
	responsible []int
}

func newPersonState() *PersonState {
	return &PersonState{
		WeekCounts:  make(map[string]int),
		WeekHours:   make(map[string]float64),
		TaskCounts:  make(map[string]int),
		PairHistory: make(map[string]int),
		byDay:       make(map[int][]*placement),
	}
}

// LastAssignedDate returns the date of the person's latest placement
func (ps *PersonState) LastAssignedDate() (time.Time, bool) {
	if len(ps.placements) == 0 {
		return time.Time{}, false
	}
	return dateOfDay(ps.placements[len(ps.placements)-1].day), true
}

// ConsecutiveDays returns the length of the unbroken run of working days
// ending at the person's latest placement
func (ps *PersonState) ConsecutiveDays() int {
	if len(ps.placements) == 0 {
		return 0
	}
	last := ps.placements[len(ps.placements)-1].day
	run := 0
	for ps.worksOn(last - run) {
		run++
	}
	return run
}

// AssignmentCount returns the number of non-historical placements
func (ps *PersonState) AssignmentCount() int {
	count := 0
	for _, p := range ps.placements {
		if !p.historical {
			count++
		}
	}
	return count
}

func (ps *PersonState) worksOn(day int) bool {
	return len(ps.byDay[day]) > 0
}

func (ps *PersonState) nightOn(day int) bool {
	for _, p := range ps.byDay[day] {
		if p.slot.NightOrLong() {
			return true
		}
	}
	return false
}

// responsibleSince counts responsible rows worked on days in [from, to)
func (ps *PersonState) responsibleSince(from, to int) int {
	count := 0
	for _, d := range ps.responsible {
		if d >= from && d < to {
			count++
		}
	}
	return count
}

// rosterState is the mutable state of one solve run
type rosterState struct {
	ids     []string
	persons []*PersonState

	// dayCodes counts placements per (day, normalized shift code)
	dayCodes map[dayCode]int

	// groups lists people already placed on each demand row
	groups map[string][]int

	stack []*placement
}

type dayCode struct {
	day  int
	code string
}

func newRosterState(people []Person) *rosterState {
	st := &rosterState{
		ids:      make([]string, len(people)),
		persons:  make([]*PersonState, len(people)),
		dayCodes: make(map[dayCode]int),
		groups:   make(map[string][]int),
	}
	for i, p := range people {
		st.ids[i] = p.ID
		st.persons[i] = newPersonState()
	}
	return st
}

// newPlacement builds a placement for person on slot with absolute times resolved
func newPlacement(person int, slot *Slot) *placement {
	p := &placement{person: person, slot: slot, day: slot.day}
	if slot.HasTimes {
		p.startAbs = slot.day*minutesPerDay + slot.Start
		end := slot.End
		if end <= slot.Start {
			end += minutesPerDay
		}
		p.endAbs = slot.day*minutesPerDay + end
	}
	return p
}

// push applies a placement to the state
func (st *rosterState) push(p *placement) {
	ps := st.persons[p.person]
	slot := p.slot
	week := slot.week

	p.prevTotal = ps.TotalHours
	p.prevWeekHours = ps.WeekHours[week]
	ps.WeekCounts[week]++
	ps.WeekHours[week] += slot.Hours
	if slot.Responsible {
		ps.responsible = append(ps.responsible, p.day)
	}

	if !p.historical {
		ps.TotalHours += slot.Hours
		ps.WeekdayCounts[dateOfDay(p.day).Weekday()]++
		ps.TaskCounts[slot.taskKey]++
		st.dayCodes[dayCode{p.day, slot.code}]++

		id := st.ids[p.person]
		for _, other := range st.groups[slot.groupKey] {
			ps.PairHistory[st.ids[other]]++
			st.persons[other].PairHistory[id]++
		}
		st.groups[slot.groupKey] = append(st.groups[slot.groupKey], p.person)
	}

	idx, _ := slices.BinarySearchFunc(ps.placements, p, comparePlacements)
	ps.placements = slices.Insert(ps.placements, idx, p)
	ps.byDay[p.day] = append(ps.byDay[p.day], p)

	st.stack = append(st.stack, p)
}

// pop undoes the most recent placement and returns it
func (st *rosterState) pop() *placement {
	n := len(st.stack)
	p := st.stack[n-1]
	st.stack = st.stack[:n-1]

	ps := st.persons[p.person]
	slot := p.slot
	week := slot.week

	decrement(ps.WeekCounts, week)
	if ps.WeekCounts[week] == 0 {
		delete(ps.WeekHours, week)
	} else {
		ps.WeekHours[week] = p.prevWeekHours
	}
	if slot.Responsible {
		ps.responsible = ps.responsible[:len(ps.responsible)-1]
	}

	if !p.historical {
		ps.TotalHours = p.prevTotal
		ps.WeekdayCounts[dateOfDay(p.day).Weekday()]--
		decrement(ps.TaskCounts, slot.taskKey)
		decrement(st.dayCodes, dayCode{p.day, slot.code})

		members := st.groups[slot.groupKey]
		members = members[:len(members)-1]
		if len(members) == 0 {
			delete(st.groups, slot.groupKey)
		} else {
			st.groups[slot.groupKey] = members
		}
		id := st.ids[p.person]
		for _, other := range members {
			decrement(ps.PairHistory, st.ids[other])
			decrement(st.persons[other].PairHistory, id)
		}
	}

	idx := slices.Index(ps.placements, p)
	ps.placements = slices.Delete(ps.placements, idx, idx+1)
	day := ps.byDay[p.day]
	day = day[:len(day)-1]
	if len(day) == 0 {
		delete(ps.byDay, p.day)
	} else {
		ps.byDay[p.day] = day
	}

	return p
}

// placementsNear returns the person's placements within window days of day
func (st *rosterState) placementsNear(person, day, window int) []*placement {
	var near []*placement
	ps := st.persons[person]
	for d := day - window; d <= day+window; d++ {
		near = append(near, ps.byDay[d]...)
	}
	return near
}

// live returns the non-historical placements in stack order
func (st *rosterState) live() []*placement {
	out := make([]*placement, 0, len(st.stack))
	for _, p := range st.stack {
		if !p.historical {
			out = append(out, p)
		}
	}
	return out
}

func comparePlacements(a, b *placement) int {
	if a.day != b.day {
		return a.day - b.day
	}
	return a.slot.Start - b.slot.Start
}

func decrement[K comparable](m map[K]int, key K) {
	m[key]--
	if m[key] <= 0 {
		delete(m, key)
	}
}
