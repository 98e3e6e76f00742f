package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/duty-roster/pkg/core/services"
)

// ValidateCmd creates the validate command
func ValidateCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <input_file> <run_id>",
		Short: "Re-check a stored run against an input document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, runID := args[0], args[1]
			app.Logger.Debug("validate command", zap.String("input", path), zap.String("run_id", runID))

			database, err := app.requireDatabase("validate")
			if err != nil {
				return err
			}

			in, err := services.LoadInput(path)
			if err != nil {
				return err
			}

			violations, err := services.ValidateRun(app.Ctx, database, app.Cfg, app.Logger, in, runID)
			if err != nil {
				return err
			}

			fmt.Printf("\nRun %s against %s\n\n", runID, path)
			printViolations(violations)
			if len(violations) > 0 {
				return fmt.Errorf("run %s breaks %d hard rule(s)", runID, len(violations))
			}
			return nil
		},
	}
}
