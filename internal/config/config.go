package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/duty-roster/pkg/core/roster"
)

const configFileName = "roster_config.yaml"

// Weights are the fairness weights of the scorer
type Weights struct {
	HourBalance    float64 `yaml:"hourBalance" validate:"min=0"`
	WeekdayBalance float64 `yaml:"weekdayBalance" validate:"min=0"`
	PairPenalty    float64 `yaml:"pairPenalty" validate:"min=0"`
	RequestBonus   float64 `yaml:"requestBonus" validate:"min=0"`
	Jitter         float64 `yaml:"jitter" validate:"min=0"`
}

// GreenArea caps how many people may work ShiftCode per day
type GreenArea struct {
	ShiftCode    string `yaml:"shiftCode" validate:"required"`
	WeekdayLimit int    `yaml:"weekdayLimit" validate:"min=0"`
	WeekendLimit int    `yaml:"weekendLimit" validate:"min=0"`
}

// SequencePenalty discourages working one of Avoid the day after After
type SequencePenalty struct {
	After string   `yaml:"after" validate:"required"`
	Avoid []string `yaml:"avoid" validate:"required,min=1"`
}

// Rules is the duty rule section. Numeric limits of zero disable the rule.
type Rules struct {
	OneShiftPerDay        bool `yaml:"oneShiftPerDay"`
	LeaveBlock            bool `yaml:"leaveBlock"`
	NightThenDayOff       bool `yaml:"nightThenDayOff"`
	DistinctTasksSameHour bool `yaml:"distinctTasksSameHour"`

	MaxConsecutiveDays int     `yaml:"maxConsecutiveDays" validate:"min=0"`
	MinRestHours       float64 `yaml:"minRestHours" validate:"min=0"`
	MaxShiftsPerWeek   int     `yaml:"maxShiftsPerWeek" validate:"min=0"`
	MaxTaskPerPerson   int     `yaml:"maxTaskPerPerson" validate:"min=0"`
	WeeklyHourLimit    float64 `yaml:"weeklyHourLimit" validate:"min=0"`

	WeekendBannedCodes   []string          `yaml:"weekendBannedCodes"`
	PostNightRestHours   float64           `yaml:"postNightRestHours" validate:"min=0"`
	MaxConsecutiveNights int               `yaml:"maxConsecutiveNights" validate:"min=0"`
	GreenArea            *GreenArea        `yaml:"greenArea,omitempty" validate:"omitempty"`
	SequencePenalties    []SequencePenalty `yaml:"sequencePenalties,omitempty" validate:"dive"`
	HoursPerWorkday      float64           `yaml:"hoursPerWorkday" validate:"min=0"`

	Weights Weights `yaml:"weights"`
}

// Solver bounds the backtracking search
type Solver struct {
	MaxNodes         int           `yaml:"maxNodes" validate:"min=0"`
	Timeout          time.Duration `yaml:"timeout" validate:"min=0"`
	FallbackToGreedy bool          `yaml:"fallbackToGreedy"`
	Seed             uint64        `yaml:"seed,omitempty"`
}

// Config represents the application configuration
type Config struct {
	DatabaseURL string                         `yaml:"databaseURL,omitempty"`
	MetricsFile string                         `yaml:"metricsFile,omitempty"`
	Rules       Rules                          `yaml:"rules"`
	Shifts      []roster.ShiftDef              `yaml:"shifts,omitempty" validate:"dive"`
	LeaveCodes  map[string]roster.LeaveCodeDef `yaml:"leaveCodes,omitempty" validate:"dive"`
	Closures    []string                       `yaml:"closures,omitempty"`
	Solver      Solver                         `yaml:"solver"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Default returns the configuration used for any key a config file omits
func Default() *Config {
	r := roster.DefaultRules()
	cfg := &Config{
		Rules: Rules{
			OneShiftPerDay:        r.OneShiftPerDay,
			LeaveBlock:            r.LeaveBlock,
			NightThenDayOff:       r.NightThenDayOff,
			DistinctTasksSameHour: r.DistinctTasksSameHour,
			MaxConsecutiveDays:    r.MaxConsecutiveDays,
			MinRestHours:          r.MinRestHours,
			MaxShiftsPerWeek:      r.MaxShiftsPerWeek,
			MaxTaskPerPerson:      r.MaxTaskPerPerson,
			WeeklyHourLimit:       r.WeeklyHourLimit,
			WeekendBannedCodes:    r.WeekendBannedCodes,
			PostNightRestHours:    r.PostNightRestHours,
			MaxConsecutiveNights:  r.MaxConsecutiveNights,
			HoursPerWorkday:       r.HoursPerWorkday,
			Weights: Weights{
				HourBalance:    r.Weights.HourBalance,
				WeekdayBalance: r.Weights.WeekdayBalance,
				PairPenalty:    r.Weights.PairPenalty,
				RequestBonus:   r.Weights.RequestBonus,
				Jitter:         r.Weights.Jitter,
			},
		},
		LeaveCodes: roster.DefaultLeaveCodes(),
		Solver: Solver{
			MaxNodes: 2_000_000,
			Timeout:  time.Minute,
		},
	}
	return cfg
}

// Load loads and validates roster_config.yaml from the current directory or
// the user's home directory
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads roster_config.<env>.yaml when it exists and falls back
// to roster_config.yaml. Variables from .env.<env> and .env, or already set
// in the environment, override the file.
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		return nil, err
	}

	if _, err := LoadEnvFiles(envFiles(env)); err != nil {
		return nil, err
	}
	if err := ApplyOverrides(cfg); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromPath loads and validates the configuration from a specific path.
// Keys missing from the file keep their Default values.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	for i, closure := range cfg.Closures {
		if _, err := rrule.StrToRRule(closure); err != nil {
			return fmt.Errorf("invalid rrule in closures[%d]: %w", i, err)
		}
	}

	for code, def := range cfg.LeaveCodes {
		if roster.ParseLeaveEffectKind(def.Effect) == roster.EffectNone && def.Effect != "" && def.Effect != "none" {
			return fmt.Errorf("leave code %s has unknown effect %q", code, def.Effect)
		}
	}

	for i, shift := range cfg.Shifts {
		if shift.Start == "" && shift.End == "" {
			continue
		}
		if _, err := roster.ParseClock(shift.Start); err != nil {
			return fmt.Errorf("invalid start in shifts[%d]: %w", i, err)
		}
		if _, err := roster.ParseClock(shift.End); err != nil {
			return fmt.Errorf("invalid end in shifts[%d]: %w", i, err)
		}
	}

	return nil
}

// ToRules converts the rule section into the engine's rule set
func (c *Config) ToRules() roster.Rules {
	r := c.Rules
	rules := roster.Rules{
		OneShiftPerDay:        r.OneShiftPerDay,
		LeaveBlock:            r.LeaveBlock,
		NightThenDayOff:       r.NightThenDayOff,
		DistinctTasksSameHour: r.DistinctTasksSameHour,
		MaxConsecutiveDays:    r.MaxConsecutiveDays,
		MinRestHours:          r.MinRestHours,
		MaxShiftsPerWeek:      r.MaxShiftsPerWeek,
		MaxTaskPerPerson:      r.MaxTaskPerPerson,
		WeeklyHourLimit:       r.WeeklyHourLimit,
		WeekendBannedCodes:    r.WeekendBannedCodes,
		PostNightRestHours:    r.PostNightRestHours,
		MaxConsecutiveNights:  r.MaxConsecutiveNights,
		HoursPerWorkday:       r.HoursPerWorkday,
		Weights: roster.Weights{
			HourBalance:    r.Weights.HourBalance,
			WeekdayBalance: r.Weights.WeekdayBalance,
			PairPenalty:    r.Weights.PairPenalty,
			RequestBonus:   r.Weights.RequestBonus,
			Jitter:         r.Weights.Jitter,
		},
	}
	if r.GreenArea != nil {
		rules.GreenArea = &roster.GreenAreaQuota{
			ShiftCode:    r.GreenArea.ShiftCode,
			WeekdayLimit: r.GreenArea.WeekdayLimit,
			WeekendLimit: r.GreenArea.WeekendLimit,
		}
	}
	for _, sp := range r.SequencePenalties {
		rules.SequencePenalties = append(rules.SequencePenalties, roster.SequencePenalty{After: sp.After, Avoid: sp.Avoid})
	}
	return rules
}

// ToCatalog returns the site-wide catalog input documents are resolved against
func (c *Config) ToCatalog() roster.Catalog {
	return roster.Catalog{
		Shifts:     c.Shifts,
		LeaveCodes: c.LeaveCodes,
		Closures:   c.Closures,
		Rules:      c.ToRules(),
	}
}

// ToSolveOptions returns the solver options; the timeout is applied by the caller
func (c *Config) ToSolveOptions() roster.SolveOptions {
	return roster.SolveOptions{
		MaxNodes:         c.Solver.MaxNodes,
		Seed:             c.Solver.Seed,
		FallbackToGreedy: c.Solver.FallbackToGreedy,
	}
}

// findConfigFile searches for the env-specific then the shared config file in
// the current directory and then the home directory
func findConfigFile(env string) (string, error) {
	names := []string{configFileName}
	if env != "" {
		names = []string{fmt.Sprintf("roster_config.%s.yaml", env), configFileName}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	for _, dir := range []string{".", homeDir} {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
