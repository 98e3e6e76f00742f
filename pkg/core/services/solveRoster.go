package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/duty-roster/internal/config"
	"github.com/jakechorley/duty-roster/pkg/core/roster"
	"github.com/jakechorley/duty-roster/pkg/db"
	"github.com/jakechorley/duty-roster/pkg/metrics"
)

// SolveRosterStore defines the database operations needed for rostering a month
type SolveRosterStore interface {
	GetSolveRuns(ctx context.Context) ([]db.SolveRun, error)
	GetAssignments(ctx context.Context, runID string) ([]db.AssignmentRow, error)
	InsertSolveRun(ctx context.Context, run *db.SolveRun, records db.RunRecords) error
}

// SolveRosterOptions selects how a month is rostered
type SolveRosterOptions struct {
	// Strategy is StrategyBacktracking (default) or StrategyGreedy
	Strategy roster.Strategy

	// DryRun skips saving the run
	DryRun bool

	// ForceCommit saves runs that left demand unmet
	ForceCommit bool

	// CarryHistory loads the latest complete run of the previous month as history
	CarryHistory bool

	// Seed overrides the configured seed when non-zero
	Seed uint64
}

// SolveRosterResult contains the run results
type SolveRosterResult struct {
	RunID         string
	Month         string
	Outcome       *roster.Outcome
	Violations    []roster.Violation
	InputWarnings []roster.InputWarning
	HistoryRunID  string
	Saved         bool
}

// SolveRoster rosters the month of the input document.
// store may be nil, in which case no history is carried and nothing is saved.
func SolveRoster(
	ctx context.Context,
	store SolveRosterStore,
	recorder metrics.Recorder,
	cfg *config.Config,
	logger *zap.Logger,
	in *roster.Input,
	opts SolveRosterOptions,
) (*SolveRosterResult, error) {
	if opts.Strategy == "" {
		opts.Strategy = roster.StrategyBacktracking
	}
	if recorder == nil {
		recorder = metrics.NewNop()
	}

	logger.Debug("Starting solveRoster",
		zap.String("month", in.Month),
		zap.String("strategy", string(opts.Strategy)),
		zap.Bool("dry_run", opts.DryRun),
		zap.Bool("force_commit", opts.ForceCommit))

	result := &SolveRosterResult{Month: in.Month}
	doc := *in

	// Step 1: carry in the previous month
	if opts.CarryHistory && store != nil {
		historyRunID, history, err := previousMonthHistory(ctx, store, logger, in.Month)
		if err != nil {
			return nil, err
		}
		if historyRunID != "" {
			result.HistoryRunID = historyRunID
			doc.History = append(history, in.History...)
		}
	}

	// Step 2: normalize the input document
	req, warnings, err := roster.NormalizeInput(&doc, cfg.ToCatalog())
	if err != nil {
		return nil, fmt.Errorf("failed to normalize roster input: %w", err)
	}
	result.InputWarnings = warnings
	recordInputWarnings(recorder, logger, warnings)

	logger.Info("Roster input loaded",
		zap.String("month", in.Month),
		zap.Int("days", len(req.Days)),
		zap.Int("demand_rows", len(req.Demand)),
		zap.Int("people", len(req.People)),
		zap.Int("history", len(req.History)))

	// Step 3: run the selected strategy
	solveOpts := cfg.ToSolveOptions()
	if opts.Seed != 0 {
		solveOpts.Seed = opts.Seed
	}

	started := time.Now()
	out, err := run(ctx, cfg, req, solveOpts, opts.Strategy)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(started)
	result.Outcome = out

	logger.Info("Roster run finished",
		zap.String("status", string(out.Status)),
		zap.String("strategy", string(out.Strategy)),
		zap.Int("assignments", len(out.Assignments)),
		zap.Int("issues", len(out.Issues)),
		zap.Int("overrides", len(out.Overrides)),
		zap.Int("nodes", out.Nodes),
		zap.Uint64("seed", out.Seed),
		zap.Float64("hours_spread", out.HoursSpread()),
		zap.Duration("elapsed", elapsed))

	for _, w := range out.Warnings {
		logger.Warn("Request entry skipped", zap.String("warning", w))
	}
	for _, is := range out.Issues {
		logger.Debug("Unmet demand",
			zap.String("date", is.Date),
			zap.String("shift", is.ShiftID),
			zap.Int("missing", is.Missing),
			zap.String("reason", is.Reason))
	}

	// Step 4: re-check the finished roster
	result.Violations, err = roster.Validate(req, out.Assignments)
	if err != nil {
		return nil, fmt.Errorf("failed to validate roster: %w", err)
	}
	for _, v := range result.Violations {
		logger.Warn("Roster violates a hard rule",
			zap.String("date", v.Assignment.Date),
			zap.String("person", v.Assignment.PersonID),
			zap.String("shift", v.Assignment.ShiftCode),
			zap.String("rule", string(v.Rule)))
	}

	missing := 0
	for _, is := range out.Issues {
		missing += is.Missing
	}
	recorder.RecordRun(string(out.Strategy), string(out.Status), elapsed, out.Nodes)
	recorder.RecordResult(string(out.Strategy), len(out.Assignments), missing, len(out.Overrides))
	recorder.SetHoursSpread(in.Month, out.HoursSpread())

	// Step 5: save
	if opts.DryRun || store == nil {
		logger.Info("Dry run, roster not saved")
		return result, nil
	}
	if !out.OK() && !opts.ForceCommit {
		logger.Warn("Roster incomplete, not saved", zap.String("status", string(out.Status)))
		return result, nil
	}

	solveRun := db.NewSolveRun(in.Month, out, time.Now().UTC())
	if err := store.InsertSolveRun(ctx, solveRun, db.NewRunRecords(solveRun.ID, out)); err != nil {
		return nil, fmt.Errorf("failed to save roster: %w", err)
	}
	result.RunID = solveRun.ID
	result.Saved = true
	logger.Info("Roster saved", zap.String("run_id", solveRun.ID))

	return result, nil
}

func run(ctx context.Context, cfg *config.Config, req *roster.Request, opts roster.SolveOptions, strategy roster.Strategy) (*roster.Outcome, error) {
	switch strategy {
	case roster.StrategyGreedy:
		out, err := roster.Draft(req, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to draft roster: %w", err)
		}
		return out, nil
	case roster.StrategyBacktracking:
		if cfg.Solver.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.Solver.Timeout)
			defer cancel()
		}
		out, err := roster.Solve(ctx, req, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to solve roster: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", strategy)
	}
}

// previousMonthHistory returns the latest complete run of the month before
// month and its assignments as history entries
func previousMonthHistory(ctx context.Context, store SolveRosterStore, logger *zap.Logger, month string) (string, []roster.ShiftDoc, error) {
	first, err := time.Parse(roster.MonthLayout, month)
	if err != nil {
		return "", nil, fmt.Errorf("invalid month %q: %w", month, err)
	}
	prevMonth := first.AddDate(0, -1, 0).Format(roster.MonthLayout)

	logger.Debug("Fetching solve runs")
	runs, err := store.GetSolveRuns(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("failed to fetch solve runs: %w", err)
	}

	prev, ok := db.LatestRun(runs, prevMonth, true)
	if !ok {
		logger.Info("No complete run for previous month, starting without history", zap.String("month", prevMonth))
		return "", nil, nil
	}

	rows, err := store.GetAssignments(ctx, prev.ID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to fetch assignments of run %s: %w", prev.ID, err)
	}
	logger.Info("Carrying history from previous month",
		zap.String("month", prevMonth),
		zap.String("run_id", prev.ID),
		zap.Int("assignments", len(rows)))

	return prev.ID, db.HistoryDocs(rows), nil
}

func recordInputWarnings(recorder metrics.Recorder, logger *zap.Logger, warnings []roster.InputWarning) {
	bySection := make(map[string]int)
	for _, w := range warnings {
		bySection[w.Section]++
		logger.Warn("Input entry skipped", zap.String("warning", w.String()))
	}
	for section, n := range bySection {
		recorder.RecordInputWarnings(section, n)
	}
}
