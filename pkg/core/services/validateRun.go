package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/duty-roster/internal/config"
	"github.com/jakechorley/duty-roster/pkg/core/roster"
	"github.com/jakechorley/duty-roster/pkg/db"
)

// ValidateRun re-checks a stored run against an input document, which may
// have changed since the run was produced (new leave, edited demand)
func ValidateRun(
	ctx context.Context,
	store db.RunStore,
	cfg *config.Config,
	logger *zap.Logger,
	in *roster.Input,
	runID string,
) ([]roster.Violation, error) {
	req, warnings, err := roster.NormalizeInput(in, cfg.ToCatalog())
	if err != nil {
		return nil, fmt.Errorf("failed to normalize roster input: %w", err)
	}
	for _, w := range warnings {
		logger.Warn("Input entry skipped", zap.String("warning", w.String()))
	}

	rows, err := store.GetAssignments(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assignments of run %s: %w", runID, err)
	}
	logger.Debug("Validating run", zap.String("run_id", runID), zap.Int("assignments", len(rows)))

	violations, err := roster.Validate(req, db.Assignments(rows))
	if err != nil {
		return nil, fmt.Errorf("failed to validate run: %w", err)
	}

	logger.Info("Run validated", zap.String("run_id", runID), zap.Int("violations", len(violations)))
	return violations, nil
}
