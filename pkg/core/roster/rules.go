package roster

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrNoDays is returned when a request has no days to roster
	ErrNoDays = errors.New("request has no days")

	// ErrInvalidRules is returned when the rule configuration fails validation
	ErrInvalidRules = errors.New("invalid rule configuration")
)

var validate = validator.New()

// Weights are the soft fairness weights used by the scorer
type Weights struct {
	// HourBalance pulls under-worked people toward selection
	HourBalance float64 `validate:"min=0"`

	// WeekdayBalance discourages giving the same person the same weekday
	WeekdayBalance float64 `validate:"min=0"`

	// PairPenalty discourages repeatedly pairing the same two people
	PairPenalty float64 `validate:"min=0"`

	// RequestBonus is subtracted for preferred and added for avoided shifts
	RequestBonus float64 `validate:"min=0"`

	// Jitter bounds the seeded tie-break noise added to each score
	Jitter float64 `validate:"min=0"`
}

// GreenAreaQuota caps how many people may work a given shift code per day.
// A zero limit leaves that side of the week uncapped.
type GreenAreaQuota struct {
	ShiftCode    string `validate:"required"`
	WeekdayLimit int    `validate:"min=0"`
	WeekendLimit int    `validate:"min=0"`
}

// SequencePenalty discourages working Avoid the day after After
type SequencePenalty struct {
	After string   `validate:"required"`
	Avoid []string `validate:"required,min=1"`
}

// Rules is the duty rule configuration: hard toggles with their limits,
// placement-time settings and soft weights. Numeric limits of zero disable
// the corresponding rule.
type Rules struct {
	OneShiftPerDay        bool
	LeaveBlock            bool
	NightThenDayOff       bool
	DistinctTasksSameHour bool

	MaxConsecutiveDays int     `validate:"min=0"`
	MinRestHours       float64 `validate:"min=0"`
	MaxShiftsPerWeek   int     `validate:"min=0"`
	MaxTaskPerPerson   int     `validate:"min=0"`
	WeeklyHourLimit    float64 `validate:"min=0"`

	// Placement-time settings
	WeekendBannedCodes   []string
	PostNightRestHours   float64           `validate:"min=0"`
	MaxConsecutiveNights int               `validate:"min=0"`
	GreenArea            *GreenAreaQuota   `validate:"omitempty"`
	SequencePenalties    []SequencePenalty `validate:"dive"`

	// HoursPerWorkday is the per-workday share of the monthly target
	HoursPerWorkday float64 `validate:"min=0"`

	Weights Weights
}

// DefaultRules returns the rule set used when no configuration is supplied
func DefaultRules() Rules {
	return Rules{
		OneShiftPerDay:        true,
		LeaveBlock:            true,
		NightThenDayOff:       true,
		DistinctTasksSameHour: true,
		MaxConsecutiveDays:    6,
		MinRestHours:          11,
		MaxShiftsPerWeek:      6,
		WeekendBannedCodes:    []string{"M4"},
		PostNightRestHours:    24,
		MaxConsecutiveNights:  3,
		HoursPerWorkday:       8,
		Weights: Weights{
			HourBalance:    1,
			WeekdayBalance: 2,
			PairPenalty:    1,
			RequestBonus:   20,
			Jitter:         0.01,
		},
	}
}

// Validate checks the rule configuration
func (r Rules) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRules, err)
	}
	return nil
}
