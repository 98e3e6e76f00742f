package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Overrides are settings read from the process environment. They take
// precedence over the config file so secrets can stay out of it.
type Overrides struct {
	DatabaseURL   string        `env:"ROSTER_DATABASE_URL"`
	MetricsFile   string        `env:"ROSTER_METRICS_FILE"`
	SolverTimeout time.Duration `env:"ROSTER_SOLVER_TIMEOUT"`
	SolverSeed    uint64        `env:"ROSTER_SEED"`
}

// envFiles returns the dotenv files consulted for env, most specific first.
// godotenv never replaces a variable that is already set, so the first file
// to define a key wins.
func envFiles(env string) []string {
	if env == "" {
		return []string{".env"}
	}
	return []string{".env." + env, ".env"}
}

// LoadEnvFiles loads the dotenv files that exist and returns how many were read
func LoadEnvFiles(files []string) (int, error) {
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return 0, fmt.Errorf("failed to load env files: %w", err)
	}
	return len(existing), nil
}

// ApplyOverrides parses the environment and copies every set value onto cfg
func ApplyOverrides(cfg *Config) error {
	var o Overrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}

	if o.DatabaseURL != "" {
		cfg.DatabaseURL = o.DatabaseURL
	}
	if o.MetricsFile != "" {
		cfg.MetricsFile = o.MetricsFile
	}
	if o.SolverTimeout != 0 {
		cfg.Solver.Timeout = o.SolverTimeout
	}
	if o.SolverSeed != 0 {
		cfg.Solver.Seed = o.SolverSeed
	}
	return nil
}
