package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/duty-roster/pkg/core/roster"
	"github.com/jakechorley/duty-roster/pkg/core/services"
)

// SolveCmd creates the solve command
func SolveCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve <input_file>",
		Short: "Solve a month's roster with the backtracking search",
		Long:  "Fill every demanded slot of the input month, or report the slot that could not be filled",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoster(cmd, app, args[0], roster.StrategyBacktracking)
		},
	}
	addRosterFlags(cmd)
	return cmd
}

// DraftCmd creates the draft command
func DraftCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft <input_file>",
		Short: "Draft a month's roster greedily",
		Long:  "Fill the input month in one pass, leaving unmet demand as issues",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoster(cmd, app, args[0], roster.StrategyGreedy)
		},
	}
	addRosterFlags(cmd)
	return cmd
}

func addRosterFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("dry-run", false, "Run without saving to the database")
	cmd.Flags().Bool("force-commit", false, "Save the run even when demand is left unmet")
	cmd.Flags().Bool("no-history", false, "Do not carry in the previous month's stored run")
	cmd.Flags().Uint64("seed", 0, "Seed for tie-breaking (default: solver.seed or year*100+month)")
}

func runRoster(cmd *cobra.Command, app *AppContext, path string, strategy roster.Strategy) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	forceCommit, _ := cmd.Flags().GetBool("force-commit")
	noHistory, _ := cmd.Flags().GetBool("no-history")
	seed, _ := cmd.Flags().GetUint64("seed")

	app.Logger.Debug(cmd.Name()+" command",
		zap.String("input", path),
		zap.Bool("dry_run", dryRun),
		zap.Bool("force_commit", forceCommit),
		zap.Bool("no_history", noHistory),
		zap.Uint64("seed", seed))

	in, err := services.LoadInput(path)
	if err != nil {
		return err
	}

	// A nil interface keeps the service from touching storage
	var store services.SolveRosterStore
	if app.Database != nil {
		store = app.Database
	}

	result, err := services.SolveRoster(app.Ctx, store, app.Recorder, app.Cfg, app.Logger, in, services.SolveRosterOptions{
		Strategy:     strategy,
		DryRun:       dryRun,
		ForceCommit:  forceCommit,
		CarryHistory: !noHistory,
		Seed:         seed,
	})
	if err != nil {
		return fmt.Errorf("%s failed: %w", cmd.Name(), err)
	}

	out := result.Outcome

	// Display header
	fmt.Printf("\n🗓  Roster for %s\n\n", result.Month)
	fmt.Printf("Strategy:    %s\n", out.Strategy)
	fmt.Printf("Status:      %s%s%s\n", statusColor(string(out.Status)), out.Status, colorReset)
	fmt.Printf("Seed:        %d\n", out.Seed)
	if out.Strategy == roster.StrategyBacktracking {
		fmt.Printf("Nodes:       %d\n", out.Nodes)
	}
	fmt.Printf("Spread:      %.1f hours\n", out.HoursSpread())
	if result.HistoryRunID != "" {
		fmt.Printf("History:     run %s\n", result.HistoryRunID)
	}
	switch {
	case result.Saved && !out.OK():
		fmt.Printf("Saved:       ⚠️  FORCED as run %s\n", result.RunID)
	case result.Saved:
		fmt.Printf("Saved:       ✅ run %s\n", result.RunID)
	case dryRun:
		fmt.Printf("Saved:       🧪 DRY RUN (not saved)\n")
	case app.Database == nil:
		fmt.Printf("Saved:       no database configured\n")
	default:
		fmt.Printf("Saved:       ❌ incomplete (use --force-commit to save)\n")
	}
	fmt.Println()

	printRoster(out.Assignments)
	printHours(out.Hours)
	printIssues(out.Issues)
	printOverrides(out.Overrides)
	printViolations(result.Violations)

	inputWarnings := make([]string, 0, len(result.InputWarnings))
	for _, w := range result.InputWarnings {
		inputWarnings = append(inputWarnings, w.String())
	}
	printWarnings("Skipped input entries", inputWarnings)
	printWarnings("Skipped requests", out.Warnings)

	return nil
}
