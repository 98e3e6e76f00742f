package roster

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

// MonthLayout is the layout of Input.Month
const MonthLayout = "2006-01"

// Input is the roster request document supplied by the surrounding service,
// as read from YAML or JSON
type Input struct {
	Month       string                  `yaml:"month" json:"month" validate:"required"`
	Days        []string                `yaml:"days,omitempty" json:"days,omitempty"`
	Shifts      []ShiftDef              `yaml:"shifts,omitempty" json:"shifts,omitempty" validate:"dive"`
	Tasks       []TaskLine              `yaml:"tasks" json:"tasks" validate:"dive"`
	People      []PersonDoc             `yaml:"people" json:"people" validate:"dive"`
	Leaves      []LeaveDoc              `yaml:"leaves,omitempty" json:"leaves,omitempty"`
	BlockedDays []PersonDateDoc         `yaml:"blockedDays,omitempty" json:"blockedDays,omitempty"`
	Requests    []RequestDoc            `yaml:"requests,omitempty" json:"requests,omitempty"`
	Pinned      []ShiftDoc              `yaml:"pinned,omitempty" json:"pinned,omitempty"`
	History     []ShiftDoc              `yaml:"history,omitempty" json:"history,omitempty"`
	Holidays    []string                `yaml:"holidays,omitempty" json:"holidays,omitempty"`
	LeaveCodes  map[string]LeaveCodeDef `yaml:"leaveCodes,omitempty" json:"leaveCodes,omitempty"`
}

// ShiftDef defines a shift code's times and flags
type ShiftDef struct {
	Code           string   `yaml:"code" json:"code" validate:"required"`
	Start          string   `yaml:"start,omitempty" json:"start,omitempty"`
	End            string   `yaml:"end,omitempty" json:"end,omitempty"`
	Hours          float64  `yaml:"hours,omitempty" json:"hours,omitempty" validate:"min=0"`
	Night          bool     `yaml:"night,omitempty" json:"night,omitempty"`
	Long           bool     `yaml:"long,omitempty" json:"long,omitempty"`
	NextDayAllowed []string `yaml:"nextDayAllowed,omitempty" json:"nextDayAllowed,omitempty"`
}

// TaskLine is a line of demand. Exactly one of PerDay, Weekly and RRule
// selects the dates it applies to; Weekly maps weekday names to counts and
// RRule demands Count people on each occurrence.
type TaskLine struct {
	Role         string         `yaml:"role" json:"role"`
	ShiftCode    string         `yaml:"shiftCode" json:"shiftCode" validate:"required"`
	Hours        float64        `yaml:"hours,omitempty" json:"hours,omitempty" validate:"min=0"`
	PerDay       int            `yaml:"perDay,omitempty" json:"perDay,omitempty" validate:"min=0"`
	Weekly       map[string]int `yaml:"weekly,omitempty" json:"weekly,omitempty"`
	RRule        string         `yaml:"rrule,omitempty" json:"rrule,omitempty"`
	Count        int            `yaml:"count,omitempty" json:"count,omitempty" validate:"min=0"`
	Responsible  bool           `yaml:"responsible,omitempty" json:"responsible,omitempty"`
	RandomPick   bool           `yaml:"randomPick,omitempty" json:"randomPick,omitempty"`
	PriorityPool []string       `yaml:"priorityPool,omitempty" json:"priorityPool,omitempty"`
}

// PersonDoc is a person as supplied in the document
type PersonDoc struct {
	ID                string   `yaml:"id" json:"id" validate:"required"`
	Name              string   `yaml:"name,omitempty" json:"name,omitempty"`
	Areas             []string `yaml:"areas,omitempty" json:"areas,omitempty"`
	AllowedShiftCodes []string `yaml:"allowedShiftCodes,omitempty" json:"allowedShiftCodes,omitempty"`
	WeekendOff        bool     `yaml:"weekendOff,omitempty" json:"weekendOff,omitempty"`

	// NightAllowed defaults to true when absent
	NightAllowed *bool `yaml:"nightAllowed,omitempty" json:"nightAllowed,omitempty"`
	Supervisor   bool  `yaml:"supervisor,omitempty" json:"supervisor,omitempty"`
}

type LeaveDoc struct {
	PersonID  string `yaml:"personId" json:"personId"`
	Date      string `yaml:"date" json:"date"`
	Code      string `yaml:"code" json:"code"`
	ShiftCode string `yaml:"shiftCode,omitempty" json:"shiftCode,omitempty"`
}

type PersonDateDoc struct {
	PersonID string `yaml:"personId" json:"personId"`
	Date     string `yaml:"date" json:"date"`
}

// RequestDoc is a preference; Kind is "prefer" or "avoid"
type RequestDoc struct {
	PersonID  string `yaml:"personId" json:"personId"`
	Date      string `yaml:"date" json:"date"`
	ShiftCode string `yaml:"shiftCode,omitempty" json:"shiftCode,omitempty"`
	Kind      string `yaml:"kind" json:"kind"`
}

// ShiftDoc is a concrete shift worked by a person, used for pins and history
type ShiftDoc struct {
	PersonID  string `yaml:"personId" json:"personId"`
	Date      string `yaml:"date" json:"date"`
	Role      string `yaml:"role,omitempty" json:"role,omitempty"`
	ShiftCode string `yaml:"shiftCode" json:"shiftCode"`
}

// LeaveCodeDef configures a leave code. Effect is one of the names accepted
// by ParseLeaveEffectKind.
type LeaveCodeDef struct {
	Effect          string  `yaml:"effect" json:"effect"`
	ShiftCode       string  `yaml:"shiftCode,omitempty" json:"shiftCode,omitempty"`
	TargetReduction float64 `yaml:"targetReduction,omitempty" json:"targetReduction,omitempty" validate:"min=0"`
}

// Catalog is the site-wide configuration an input document is resolved
// against. Document shift and leave code definitions take precedence.
type Catalog struct {
	Shifts     []ShiftDef
	LeaveCodes map[string]LeaveCodeDef

	// Closures are RRULE strings; demand on matching dates is dropped
	Closures []string

	Rules Rules
}

// DefaultLeaveCodes is the leave code table used when a code is not configured
func DefaultLeaveCodes() map[string]LeaveCodeDef {
	return map[string]LeaveCodeDef{
		"KN": {Effect: "force"},
		"AN": {Effect: "banFirstDay"},
	}
}

// InputWarning reports a document entry that was skipped or defaulted
type InputWarning struct {
	Section string
	Index   int
	Message string
}

func (w InputWarning) String() string {
	return fmt.Sprintf("%s[%d]: %s", w.Section, w.Index, w.Message)
}

type resolvedShift struct {
	def      ShiftDef
	start    int
	end      int
	hasTimes bool
}

type normalizer struct {
	in       *Input
	cat      Catalog
	first    time.Time
	last     time.Time
	shifts   map[string]resolvedShift
	codes    map[string]LeaveCodeDef
	warnings []InputWarning
}

func (n *normalizer) warn(section string, index int, format string, args ...any) {
	n.warnings = append(n.warnings, InputWarning{Section: section, Index: index, Message: fmt.Sprintf(format, args...)})
}

// NormalizeInput resolves a document into a canonical Request. Malformed
// entries are skipped and reported as warnings. Only a document that fails
// validation, a bad month or invalid rules return an error.
func NormalizeInput(in *Input, cat Catalog) (*Request, []InputWarning, error) {
	if err := validate.Struct(in); err != nil {
		return nil, nil, fmt.Errorf("invalid roster input: %w", err)
	}
	if err := cat.Rules.Validate(); err != nil {
		return nil, nil, err
	}
	first, err := time.Parse(MonthLayout, strings.TrimSpace(in.Month))
	if err != nil {
		return nil, nil, fmt.Errorf("invalid month %q: %w", in.Month, err)
	}

	n := &normalizer{
		in:     in,
		cat:    cat,
		first:  first,
		last:   first.AddDate(0, 1, -1),
		shifts: make(map[string]resolvedShift),
		codes:  make(map[string]LeaveCodeDef),
	}
	n.resolveShifts()
	n.resolveLeaveCodes()

	req := &Request{
		Year:  first.Year(),
		Month: first.Month(),
		Rules: cat.Rules,
	}
	req.Days = n.days()
	req.Holidays = n.dates("holidays", in.Holidays)
	req.Demand = n.demand(req.Days)
	req.People = n.people()
	req.Leaves = n.leaves()
	req.BlockedDays = n.blockedDays()
	req.Preferences = n.preferences()
	req.Pins = n.pins()
	req.History = n.history()

	return req, n.warnings, nil
}

func (n *normalizer) resolveShifts() {
	add := func(section string, defs []ShiftDef) {
		for i, def := range defs {
			rs := resolvedShift{def: def}
			if def.Start != "" || def.End != "" {
				start, errStart := ParseClock(def.Start)
				end, errEnd := ParseClock(def.End)
				if errStart != nil || errEnd != nil {
					n.warn(section, i, "shift %s has unparseable times %q-%q", def.Code, def.Start, def.End)
				} else {
					rs.start, rs.end, rs.hasTimes = start, end%minutesPerDay, true
				}
			}
			if rs.def.Hours == 0 && rs.hasTimes {
				rs.def.Hours = shiftDurationHours(rs.start, rs.end)
			}
			n.shifts[NormalizeCode(def.Code)] = rs
		}
	}
	add("catalog.shifts", n.cat.Shifts)
	add("shifts", n.in.Shifts)
}

func (n *normalizer) resolveLeaveCodes() {
	for code, def := range DefaultLeaveCodes() {
		n.codes[NormalizeCode(code)] = def
	}
	for code, def := range n.cat.LeaveCodes {
		n.codes[NormalizeCode(code)] = def
	}
	for code, def := range n.in.LeaveCodes {
		n.codes[NormalizeCode(code)] = def
	}
}

func (n *normalizer) parseDate(section string, index int, value string) (time.Time, bool) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		n.warn(section, index, "invalid date %q", value)
		return time.Time{}, false
	}
	return d, true
}

func (n *normalizer) dates(section string, values []string) []time.Time {
	var out []time.Time
	for i, v := range values {
		if d, ok := n.parseDate(section, i, v); ok {
			out = append(out, d)
		}
	}
	return out
}

// days returns the explicit days inside the month, or every day of the month
func (n *normalizer) days() []time.Time {
	if len(n.in.Days) == 0 {
		var days []time.Time
		for d := n.first; !d.After(n.last); d = d.AddDate(0, 0, 1) {
			days = append(days, d)
		}
		return days
	}
	var days []time.Time
	seen := make(map[int]bool)
	for i, d := range n.dates("days", n.in.Days) {
		if d.Before(n.first) || d.After(n.last) {
			n.warn("days", i, "%s is outside %s", d.Format(DateLayout), n.in.Month)
			continue
		}
		if !seen[dayNumber(d)] {
			seen[dayNumber(d)] = true
			days = append(days, d)
		}
	}
	slices.SortFunc(days, func(a, b time.Time) int { return a.Compare(b) })
	return days
}

// occurrences returns the days of the month matched by an RRULE string.
// Rules without a DTSTART are anchored at the first day of the month.
func (n *normalizer) occurrences(rule string) (map[int]bool, error) {
	r, err := rrule.StrToRRule(rule)
	if err != nil {
		return nil, err
	}
	if r.OrigOptions.Dtstart.IsZero() {
		r.DTStart(n.first)
	}
	end := n.last.Add(24*time.Hour - time.Second)
	out := make(map[int]bool)
	for _, occ := range r.Between(n.first, end, true) {
		out[dayNumber(occ)] = true
	}
	return out, nil
}

func (n *normalizer) closures() map[int]bool {
	closed := make(map[int]bool)
	for i, rule := range n.cat.Closures {
		days, err := n.occurrences(rule)
		if err != nil {
			n.warn("closures", i, "invalid rrule: %v", err)
			continue
		}
		for d := range days {
			closed[d] = true
		}
	}
	return closed
}

func (n *normalizer) demand(days []time.Time) []Demand {
	closed := n.closures()
	var out []Demand
	for i, line := range n.in.Tasks {
		count, ok := n.lineCounter(i, line)
		if !ok {
			continue
		}
		shift, known := n.shifts[NormalizeCode(line.ShiftCode)]
		if !known {
			n.warn("tasks", i, "shift %s has no definition, times unknown", line.ShiftCode)
		}
		hours := line.Hours
		if hours == 0 {
			hours = shift.def.Hours
		}
		for _, day := range days {
			if closed[dayNumber(day)] {
				continue
			}
			required := count(day)
			if required <= 0 {
				continue
			}
			out = append(out, Demand{
				Date:           day,
				Role:           line.Role,
				ShiftCode:      line.ShiftCode,
				Hours:          hours,
				Required:       required,
				Start:          shift.start,
				End:            shift.end,
				HasTimes:       shift.hasTimes,
				Night:          shift.def.Night,
				Long:           shift.def.Long,
				NextDayAllowed: shift.def.NextDayAllowed,
				Responsible:    line.Responsible,
				RandomPick:     line.RandomPick,
				PriorityPool:   line.PriorityPool,
			})
		}
	}
	return out
}

// lineCounter returns the per-date headcount function of a task line
func (n *normalizer) lineCounter(i int, line TaskLine) (func(time.Time) int, bool) {
	switch {
	case line.RRule != "":
		matches, err := n.occurrences(line.RRule)
		if err != nil {
			n.warn("tasks", i, "invalid rrule: %v", err)
			return nil, false
		}
		count := max(line.Count, 1)
		return func(d time.Time) int {
			if matches[dayNumber(d)] {
				return count
			}
			return 0
		}, true
	case len(line.Weekly) > 0:
		byDay := make(map[time.Weekday]int, len(line.Weekly))
		for name, c := range line.Weekly {
			wd, ok := parseWeekday(name)
			if !ok {
				n.warn("tasks", i, "unknown weekday %q", name)
				continue
			}
			byDay[wd] = c
		}
		return func(d time.Time) int { return byDay[d.Weekday()] }, true
	default:
		return func(time.Time) int { return line.PerDay }, true
	}
}

var weekdayNames = map[string]time.Weekday{
	"mon": time.Monday, "monday": time.Monday, "mo": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday, "tu": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday, "we": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday, "th": time.Thursday,
	"fri": time.Friday, "friday": time.Friday, "fr": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday, "sa": time.Saturday,
	"sun": time.Sunday, "sunday": time.Sunday, "su": time.Sunday,
}

func parseWeekday(name string) (time.Weekday, bool) {
	wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
	return wd, ok
}

func (n *normalizer) people() []Person {
	out := make([]Person, 0, len(n.in.People))
	for _, doc := range n.in.People {
		out = append(out, Person{
			ID:                doc.ID,
			Name:              doc.Name,
			Areas:             doc.Areas,
			AllowedShiftCodes: doc.AllowedShiftCodes,
			WeekendOff:        doc.WeekendOff,
			NoNights:          doc.NightAllowed != nil && !*doc.NightAllowed,
			Supervisor:        doc.Supervisor,
		})
	}
	return out
}

func (n *normalizer) leaves() []LeaveRecord {
	var out []LeaveRecord
	for i, doc := range n.in.Leaves {
		date, ok := n.parseDate("leaves", i, doc.Date)
		if !ok {
			continue
		}
		if doc.PersonID == "" {
			n.warn("leaves", i, "missing personId")
			continue
		}
		record := LeaveRecord{PersonID: doc.PersonID, Date: date, Code: doc.Code, ShiftCode: doc.ShiftCode}
		// Unknown codes place no constraint
		if def, known := n.codes[NormalizeCode(doc.Code)]; known {
			record.Effect.Kind = ParseLeaveEffectKind(def.Effect)
			record.TargetReduction = def.TargetReduction
			if record.Effect.Kind == EffectForceShift {
				record.Effect.ShiftCode = doc.ShiftCode
				if record.Effect.ShiftCode == "" {
					record.Effect.ShiftCode = def.ShiftCode
				}
			}
		}
		out = append(out, record)
	}
	return out
}

func (n *normalizer) blockedDays() []DayBlock {
	var out []DayBlock
	for i, doc := range n.in.BlockedDays {
		if date, ok := n.parseDate("blockedDays", i, doc.Date); ok {
			out = append(out, DayBlock{PersonID: doc.PersonID, Date: date})
		}
	}
	return out
}

func (n *normalizer) preferences() []Preference {
	var out []Preference
	for i, doc := range n.in.Requests {
		date, ok := n.parseDate("requests", i, doc.Date)
		if !ok {
			continue
		}
		var kind PreferenceKind
		switch strings.ToLower(strings.TrimSpace(doc.Kind)) {
		case "prefer", "want", "request":
			kind = Prefer
		case "avoid", "off":
			kind = Avoid
		default:
			n.warn("requests", i, "unknown request kind %q", doc.Kind)
			continue
		}
		out = append(out, Preference{PersonID: doc.PersonID, Date: date, ShiftCode: doc.ShiftCode, Kind: kind})
	}
	return out
}

func (n *normalizer) pins() []Pin {
	var out []Pin
	for i, doc := range n.in.Pinned {
		if date, ok := n.parseDate("pinned", i, doc.Date); ok {
			out = append(out, Pin{PersonID: doc.PersonID, Date: date, Role: doc.Role, ShiftCode: doc.ShiftCode})
		}
	}
	return out
}

// history resolves worked shifts of the previous period through the shift table
func (n *normalizer) history() []HistoryEntry {
	var out []HistoryEntry
	for i, doc := range n.in.History {
		date, ok := n.parseDate("history", i, doc.Date)
		if !ok {
			continue
		}
		shift := n.shifts[NormalizeCode(doc.ShiftCode)]
		out = append(out, HistoryEntry{
			PersonID: doc.PersonID,
			Slot: Demand{
				Date:           date,
				Role:           doc.Role,
				ShiftCode:      doc.ShiftCode,
				Hours:          shift.def.Hours,
				Required:       1,
				Start:          shift.start,
				End:            shift.end,
				HasTimes:       shift.hasTimes,
				Night:          shift.def.Night,
				Long:           shift.def.Long,
				NextDayAllowed: shift.def.NextDayAllowed,
			},
		})
	}
	return out
}
