package roster

// placementRules run after the evaluator accepted a candidate, in order
var placementRules = []rule{
	{RuleTimeOverlap, (*Evaluator).noOverlap},
	{RuleWeekendBan, (*Evaluator).weekendBanOK},
	{RuleWeeklyHourLimit, (*Evaluator).weeklyHoursOK},
	{RulePostNightRest, (*Evaluator).postNightRestOK},
	{RuleNextDayNotAllowed, (*Evaluator).nextDayOK},
	{RuleMaxConsecutiveNights, (*Evaluator).consecutiveNightsOK},
	{RuleGreenAreaQuota, (*Evaluator).greenQuotaOK},
}

// CheckPlacement runs the hard constraints enforced when a placement is made:
//   - same-day interval overlap, with overnight shifts truncated to the day
//     they start; a slot without times next to another same-day shift fails
//     with MISSING_SHIFT_TIME
//   - the weekend ban on configured shift codes
//   - the weekly hour ceiling, including the candidate shift
//   - the post-night rest window
//   - next-day-allowed whitelists, in both directions
//   - the consecutive night cap
//   - the green area daily quota
func (e *Evaluator) CheckPlacement(person int, slot *Slot) Verdict {
	if e.p.rules.DistinctTasksSameHour {
		for _, q := range e.st.persons[person].byDay[slot.day] {
			if !q.slot.HasTimes || !slot.HasTimes {
				return reject(RuleMissingShiftTime)
			}
		}
	}
	for _, r := range placementRules {
		if !r.check(e, person, slot, PassRelaxed) {
			return reject(r.id)
		}
	}
	return eligible
}

func (e *Evaluator) noOverlap(person int, slot *Slot, _ Pass) bool {
	if !e.p.rules.DistinctTasksSameHour || !slot.HasTimes {
		return true
	}
	start, end := sameDayInterval(slot.Start, slot.End)
	for _, q := range e.st.persons[person].byDay[slot.day] {
		qs, qe := sameDayInterval(q.slot.Start, q.slot.End)
		if start < qe && qs < end {
			return false
		}
	}
	return true
}

func (e *Evaluator) weekendBanOK(_ int, slot *Slot, _ Pass) bool {
	return !e.p.weekendBanned[slot.code] || !isWeekend(slot.Date)
}

func (e *Evaluator) weeklyHoursOK(person int, slot *Slot, _ Pass) bool {
	limit := e.p.rules.WeeklyHourLimit
	if limit <= 0 {
		return true
	}
	return e.st.persons[person].WeekHours[slot.week]+slot.Hours <= limit+1e-9
}

// postNightRestOK keeps PostNightRestHours free between a night or long
// shift and the next day shift. Runs of nights are left to the consecutive
// night cap. Untimed pairs measure whole free days between them.
func (e *Evaluator) postNightRestOK(person int, slot *Slot, _ Pass) bool {
	rest := e.p.rules.PostNightRestHours
	if rest <= 0 {
		return true
	}
	window := 2 + int(rest/24)
	start, end := slotAbs(slot)
	for _, q := range e.st.placementsNear(person, slot.day, window) {
		earlier, later := q.slot, slot
		if q.day > slot.day || (q.day == slot.day && q.slot.Start > slot.Start) {
			earlier, later = slot, q.slot
		}
		if !earlier.NightOrLong() || later.NightOrLong() {
			continue
		}
		gap, known := restGap(q, slot, start, end)
		if !known {
			gap = float64(abs(q.day-slot.day)-1) * minutesPerDay
		}
		if gap < rest*60 {
			return false
		}
	}
	return true
}

// nextDayOK enforces NextDayAllowed whitelists of the previous day's shifts
// and of the candidate slot against the following day
func (e *Evaluator) nextDayOK(person int, slot *Slot, _ Pass) bool {
	ps := e.st.persons[person]
	for _, q := range ps.byDay[slot.day-1] {
		if q.slot.nextDay != nil && !q.slot.nextDay[slot.code] {
			return false
		}
	}
	if slot.nextDay == nil {
		return true
	}
	for _, q := range ps.byDay[slot.day+1] {
		if !slot.nextDay[q.slot.code] {
			return false
		}
	}
	return true
}

// consecutiveNightsOK caps the unbroken run of night or long shifts through
// the candidate date
func (e *Evaluator) consecutiveNightsOK(person int, slot *Slot, _ Pass) bool {
	limit := e.p.rules.MaxConsecutiveNights
	if limit <= 0 || !slot.NightOrLong() {
		return true
	}
	ps := e.st.persons[person]
	run := 1
	for d := slot.day - 1; ps.nightOn(d); d-- {
		run++
	}
	for d := slot.day + 1; ps.nightOn(d); d++ {
		run++
	}
	return run <= limit
}

func (e *Evaluator) greenQuotaOK(_ int, slot *Slot, _ Pass) bool {
	if e.p.greenCode == "" || slot.code != e.p.greenCode {
		return true
	}
	quota := e.p.rules.GreenArea
	limit := quota.WeekdayLimit
	if isWeekend(slot.Date) {
		limit = quota.WeekendLimit
	}
	return limit <= 0 || e.st.dayCodes[dayCode{slot.day, slot.code}] < limit
}
