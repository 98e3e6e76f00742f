package roster

// RuleID names a hard rule a candidate can violate
type RuleID string

const (
	RuleLeaveBlock          RuleID = "LEAVE_BLOCK"
	RuleForcedShift         RuleID = "FORCED_SHIFT"
	RuleFirstDayBan         RuleID = "FIRST_DAY_BAN"
	RuleAreaMismatch        RuleID = "AREA_MISMATCH"
	RuleShiftCodeNotAllowed RuleID = "SHIFT_CODE_NOT_ALLOWED"
	RuleWeekendOff          RuleID = "WEEKEND_OFF"
	RuleNightsNotAllowed    RuleID = "NIGHTS_NOT_ALLOWED"
	RuleOneShiftPerDay      RuleID = "ONE_SHIFT_PER_DAY"
	RuleDayBlocked          RuleID = "DAY_BLOCKED"
	RuleMaxConsecutiveDays  RuleID = "MAX_CONSECUTIVE_DAYS"
	RuleNightThenDayOff     RuleID = "NIGHT_THEN_DAY_OFF"
	RuleMinRestHours        RuleID = "MIN_REST_HOURS"
	RuleMaxShiftsPerWeek    RuleID = "MAX_SHIFTS_PER_WEEK"
	RuleMaxTaskPerPerson    RuleID = "MAX_TASK_PER_PERSON"

	// Placement-time rules
	RuleTimeOverlap          RuleID = "TIME_OVERLAP"
	RuleMissingShiftTime     RuleID = "MISSING_SHIFT_TIME"
	RuleWeekendBan           RuleID = "WEEKEND_BAN"
	RuleWeeklyHourLimit      RuleID = "WEEKLY_HOUR_LIMIT"
	RulePostNightRest        RuleID = "POST_NIGHT_REST"
	RuleNextDayNotAllowed    RuleID = "NEXT_DAY_NOT_ALLOWED"
	RuleMaxConsecutiveNights RuleID = "MAX_CONSECUTIVE_NIGHTS"
	RuleGreenAreaQuota       RuleID = "GREEN_AREA_QUOTA"

	// Greedy-only filters
	RuleSupervisorOnly  RuleID = "SUPERVISOR_ONLY"
	RuleNightAfterNight RuleID = "NIGHT_AFTER_NIGHT"
)

// Pass selects how soft constraints are treated
type Pass int

const (
	// PassStrict honours soft leave blocks
	PassStrict Pass = iota
	// PassRelaxed ignores soft leave blocks
	PassRelaxed
)

// Verdict is the result of an eligibility check
type Verdict struct {
	Eligible bool
	Rule     RuleID
}

var eligible = Verdict{Eligible: true}

func reject(rule RuleID) Verdict {
	return Verdict{Rule: rule}
}

// rule is one ordered eligibility check. check returns false to veto.
type rule struct {
	id    RuleID
	check func(e *Evaluator, person int, slot *Slot, pass Pass) bool
}

// evaluatorRules run in order; the first failing rule wins.
//
// Every check looks at placements on both sides of the candidate date because
// the backtracking solver does not fill slots in date order.
var evaluatorRules = []rule{
	{RuleAreaMismatch, (*Evaluator).areaOK},
	{RuleShiftCodeNotAllowed, (*Evaluator).shiftCodeOK},
	{RuleWeekendOff, (*Evaluator).weekendOK},
	{RuleNightsNotAllowed, (*Evaluator).nightsOK},
	{RuleOneShiftPerDay, (*Evaluator).oneShiftPerDayOK},
	{RuleDayBlocked, (*Evaluator).dayBlockOK},
	{RuleMaxConsecutiveDays, (*Evaluator).consecutiveDaysOK},
	{RuleNightThenDayOff, (*Evaluator).nightThenDayOffOK},
	{RuleMinRestHours, (*Evaluator).minRestOK},
	{RuleMaxShiftsPerWeek, (*Evaluator).weeklyShiftsOK},
	{RuleMaxTaskPerPerson, (*Evaluator).taskCountOK},
}

// Evaluator decides whether a person may occupy a slot given the current
// roster state. It never mutates the state.
type Evaluator struct {
	p  *prepared
	st *rosterState
}

func newEvaluator(p *prepared, st *rosterState) *Evaluator {
	return &Evaluator{p: p, st: st}
}

// Check runs the ordered rule list for person (an index into Request.People)
// on slot. Leave effects are checked first, then the rule table.
func (e *Evaluator) Check(person int, slot *Slot, pass Pass) Verdict {
	if v := e.checkLeave(person, slot, pass); !v.Eligible {
		return v
	}
	for _, r := range evaluatorRules {
		if !r.check(e, person, slot, pass) {
			return reject(r.id)
		}
	}
	return eligible
}

// Admit runs Check followed by the placement-time checks
func (e *Evaluator) Admit(person int, slot *Slot, pass Pass) Verdict {
	if v := e.Check(person, slot, pass); !v.Eligible {
		return v
	}
	return e.CheckPlacement(person, slot)
}

// checkLeave applies the leave effects recorded for the slot's date
func (e *Evaluator) checkLeave(person int, slot *Slot, pass Pass) Verdict {
	for _, leave := range e.p.leaves[personDay{person, slot.day}] {
		switch leave.Effect.Kind {
		case EffectHardBlock:
			if e.p.rules.LeaveBlock {
				return reject(RuleLeaveBlock)
			}
		case EffectSoftBlock:
			if e.p.rules.LeaveBlock && pass == PassStrict {
				return reject(RuleLeaveBlock)
			}
		case EffectBanFirstDayOfMonth:
			if slot.Date.Day() == 1 {
				return reject(RuleFirstDayBan)
			}
		case EffectForceShift:
			if leave.Effect.ShiftCode != "" && NormalizeCode(leave.Effect.ShiftCode) != slot.code {
				return reject(RuleForcedShift)
			}
		}
	}
	return eligible
}

func (e *Evaluator) areaOK(person int, slot *Slot, _ Pass) bool {
	return e.p.areas[person].matches(slot.roleTokens)
}

func (e *Evaluator) shiftCodeOK(person int, slot *Slot, _ Pass) bool {
	allowed := e.p.allowed[person]
	return allowed == nil || allowed[slot.code]
}

func (e *Evaluator) weekendOK(person int, slot *Slot, _ Pass) bool {
	return !e.p.people[person].WeekendOff || !isWeekend(slot.Date)
}

func (e *Evaluator) nightsOK(person int, slot *Slot, _ Pass) bool {
	return !e.p.people[person].NoNights || !slot.NightOrLong()
}

func (e *Evaluator) oneShiftPerDayOK(person int, slot *Slot, _ Pass) bool {
	return !e.p.rules.OneShiftPerDay || !e.st.persons[person].worksOn(slot.day)
}

func (e *Evaluator) dayBlockOK(person int, slot *Slot, _ Pass) bool {
	return !e.p.blocked[personDay{person, slot.day}]
}

// consecutiveDaysOK rejects when the working run through the candidate day
// would reach MaxConsecutiveDays
func (e *Evaluator) consecutiveDaysOK(person int, slot *Slot, _ Pass) bool {
	limit := e.p.rules.MaxConsecutiveDays
	if limit <= 0 {
		return true
	}
	ps := e.st.persons[person]
	run := 1
	for d := slot.day - 1; ps.worksOn(d); d-- {
		run++
	}
	for d := slot.day + 1; ps.worksOn(d); d++ {
		run++
	}
	return run < limit
}

// nightThenDayOffOK enforces a free day after a night or long shift
func (e *Evaluator) nightThenDayOffOK(person int, slot *Slot, _ Pass) bool {
	if !e.p.rules.NightThenDayOff {
		return true
	}
	ps := e.st.persons[person]
	if ps.nightOn(slot.day - 1) {
		return false
	}
	return !slot.NightOrLong() || !ps.worksOn(slot.day+1)
}

// minRestOK checks the rest gap to every neighbouring placement. With exact
// times the gap runs from the earlier shift's end (crossing midnight when
// end <= start) to the later shift's start. Without times a same-day pair
// always violates and a next-day pair violates only above 24 hours.
func (e *Evaluator) minRestOK(person int, slot *Slot, _ Pass) bool {
	minRest := e.p.rules.MinRestHours
	if minRest <= 0 {
		return true
	}
	window := 2 + int(minRest/24)
	start, end := slotAbs(slot)
	for _, q := range e.st.placementsNear(person, slot.day, window) {
		gap, known := restGap(q, slot, start, end)
		if !known {
			dayGap := abs(q.day - slot.day)
			if dayGap == 0 || (dayGap == 1 && minRest > 24) {
				return false
			}
			continue
		}
		if gap < minRest*60 {
			return false
		}
	}
	return true
}

func (e *Evaluator) weeklyShiftsOK(person int, slot *Slot, _ Pass) bool {
	limit := e.p.rules.MaxShiftsPerWeek
	return limit <= 0 || e.st.persons[person].WeekCounts[slot.week] < limit
}

func (e *Evaluator) taskCountOK(person int, slot *Slot, _ Pass) bool {
	limit := e.p.rules.MaxTaskPerPerson
	return limit <= 0 || e.st.persons[person].TaskCounts[slot.taskKey] < limit
}

// slotAbs returns the absolute start and end minute of a timed slot
func slotAbs(slot *Slot) (int, int) {
	if !slot.HasTimes {
		return 0, 0
	}
	end := slot.End
	if end <= slot.Start {
		end += minutesPerDay
	}
	return slot.day*minutesPerDay + slot.Start, slot.day*minutesPerDay + end
}

// restGap returns the minutes between an existing placement and a candidate
// slot, whichever comes first. known is false when either side lacks times.
func restGap(q *placement, slot *Slot, start, end int) (float64, bool) {
	if !q.slot.HasTimes || !slot.HasTimes {
		return 0, false
	}
	if q.startAbs <= start {
		return float64(start - q.endAbs), true
	}
	return float64(q.startAbs - end), true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// rejections tallies the rule that vetoed each rejected candidate
type rejections map[RuleID]int

// eligibleFor returns every person admitted to slot in pass, in input order,
// tallying vetoes into rej when it is non-nil
func (e *Evaluator) eligibleFor(slot *Slot, pass Pass, rej rejections) []int {
	var out []int
	for person := range e.p.people {
		v := e.Admit(person, slot, pass)
		if v.Eligible {
			out = append(out, person)
			continue
		}
		if rej != nil {
			rej[v.Rule]++
		}
	}
	return out
}
