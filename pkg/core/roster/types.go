package roster

import (
	"time"
)

// DateLayout is the layout used for every date key the engine emits
const DateLayout = "2006-01-02"

// Person represents a member of staff who can be rostered
type Person struct {
	ID   string
	Name string

	// Areas are free-text area tags (e.g. "Yeşil", "Acil Servis").
	// An empty list disables area filtering for this person.
	Areas []string

	// AllowedShiftCodes restricts the shift codes this person may work.
	// An empty list allows every code.
	AllowedShiftCodes []string

	// WeekendOff excludes Saturday and Sunday slots
	WeekendOff bool

	// NoNights excludes night and long shifts. It is the inverse of the
	// night-allowed flag so that the zero value permits nights.
	NoNights bool

	// Supervisor marks people who may fill responsible/supervisor rows
	Supervisor bool
}

// Demand is one row of shift demand for a single date. Required identical
// units of the same (date, role, shift code) are expanded into unit slots
// before solving.
type Demand struct {
	Date      time.Time
	Role      string
	ShiftCode string
	Hours     float64
	Required  int

	// Start and End are minutes since midnight. End <= Start means the
	// shift crosses midnight. Only meaningful when HasTimes is true.
	Start    int
	End      int
	HasTimes bool

	Night bool
	Long  bool

	// NextDayAllowed lists the only shift codes the same person may work on
	// the following day. Empty means no restriction.
	NextDayAllowed []string

	// Responsible marks supervisor rows, which are filled first by the
	// greedy assigner and only by supervisors.
	Responsible bool

	// RandomPick makes the greedy assigner pick uniformly (seeded) among
	// eligible candidates instead of ranking them.
	RandomPick bool

	// PriorityPool lists person IDs tried before the general pool
	PriorityPool []string
}

// Slot is a single unit of demand requiring exactly one person
type Slot struct {
	Demand

	// DateKey is Date formatted with DateLayout
	DateKey string

	// Unit is the index of this unit within its demand row (0..Required-1)
	Unit int

	// Index is the position of the slot in the expanded slot list
	Index int

	day        int
	week       string
	groupKey   string
	taskKey    string
	code       string
	roleTokens []string
	nextDay    map[string]bool
}

// ShiftID identifies the demand row a slot belongs to
func (s *Slot) ShiftID() string {
	if s.Role == "" {
		return s.ShiftCode
	}
	return s.Role + "/" + s.ShiftCode
}

// NightOrLong reports whether the slot counts as a night/long shift
func (s *Slot) NightOrLong() bool {
	return s.Night || s.Long
}

// Assignment is one filled slot
type Assignment struct {
	Date      string
	PersonID  string
	Role      string
	ShiftCode string
	Hours     float64

	// Pinned marks manual assignments supplied with the request
	Pinned bool
}

// LeaveEffectKind enumerates what a leave code does to eligibility
type LeaveEffectKind int

const (
	// EffectNone places no constraint (unknown codes resolve to this)
	EffectNone LeaveEffectKind = iota
	// EffectHardBlock makes the person ineligible for the whole day
	EffectHardBlock
	// EffectSoftBlock makes the person ineligible in the strict pass only
	EffectSoftBlock
	// EffectForceShift forces the person onto a specific shift that day
	EffectForceShift
	// EffectBanFirstDayOfMonth bans placement on the 1st of the month
	EffectBanFirstDayOfMonth
)

func (k LeaveEffectKind) String() string {
	switch k {
	case EffectHardBlock:
		return "hard"
	case EffectSoftBlock:
		return "soft"
	case EffectForceShift:
		return "force"
	case EffectBanFirstDayOfMonth:
		return "ban-first-day"
	default:
		return "none"
	}
}

// ParseLeaveEffectKind maps a config name to a LeaveEffectKind.
// Unknown names resolve to EffectNone.
func ParseLeaveEffectKind(name string) LeaveEffectKind {
	switch name {
	case "hard", "hardBlock", "block":
		return EffectHardBlock
	case "soft", "softBlock":
		return EffectSoftBlock
	case "force", "forceShift":
		return EffectForceShift
	case "banFirstDay", "ban-first-day", "banFirstDayOfMonth":
		return EffectBanFirstDayOfMonth
	default:
		return EffectNone
	}
}

// LeaveEffect is the resolved effect of a leave record
type LeaveEffect struct {
	Kind LeaveEffectKind

	// ShiftCode is the forced shift for EffectForceShift. Empty forces the
	// person onto any shift that day.
	ShiftCode string
}

// LeaveRecord is a leave entry for one person on one date
type LeaveRecord struct {
	PersonID  string
	Date      time.Time
	Code      string
	ShiftCode string
	Effect    LeaveEffect

	// TargetReduction is the number of hours this leave day removes from the
	// person's monthly target
	TargetReduction float64
}

// DayBlock marks a person as unavailable for a whole date regardless of
// leave code semantics
type DayBlock struct {
	PersonID string
	Date     time.Time
}

// PreferenceKind is the direction of a request preference
type PreferenceKind int

const (
	Prefer PreferenceKind = iota + 1
	Avoid
)

// Preference is a person's request to work (or avoid) a date/shift.
// An empty ShiftCode applies to every shift on that date.
type Preference struct {
	PersonID  string
	Date      time.Time
	ShiftCode string
	Kind      PreferenceKind
}

// Pin is a manual assignment placed before solving. It consumes one unit of
// the matching demand row.
type Pin struct {
	PersonID  string
	Date      time.Time
	Role      string
	ShiftCode string
}

// HistoryEntry is a shift worked before the solved period. History feeds rest,
// consecutive-day, weekly and supervisor-usage rules but not monthly totals.
type HistoryEntry struct {
	PersonID string
	Slot     Demand
}

// Issue records unmet demand
type Issue struct {
	Date    string
	ShiftID string
	Missing int
	Reason  string
}

// Override records a placement only made possible by relaxing a soft constraint
type Override struct {
	Date      string
	PersonID  string
	ShiftCode string
	Role      string
	Reason    string
}

// Request is the canonical, already-normalized input of a solve
type Request struct {
	Year  int
	Month time.Month

	// Days are the dates of the solved period in ascending order
	Days []time.Time

	Demand      []Demand
	People      []Person
	Leaves      []LeaveRecord
	BlockedDays []DayBlock
	Preferences []Preference
	Pins        []Pin
	History     []HistoryEntry
	Holidays    []time.Time

	Rules Rules
}
