package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/duty-roster/pkg/core/roster"
	"github.com/jakechorley/duty-roster/pkg/core/services"
	"github.com/jakechorley/duty-roster/pkg/db"
)

// ListRunsCmd creates the listRuns command
func ListRunsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listRuns",
		Short: "List stored roster runs, or show one run in full",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			month, _ := cmd.Flags().GetString("month")
			runID, _ := cmd.Flags().GetString("run")

			app.Logger.Debug("listRuns command", zap.String("month", month), zap.String("run_id", runID))

			database, err := app.requireDatabase("listRuns")
			if err != nil {
				return err
			}

			if runID != "" {
				details, err := services.GetRunDetails(app.Ctx, database, app.Logger, runID)
				if err != nil {
					return err
				}
				printRunDetails(details)
				return nil
			}

			runs, err := services.ListRuns(app.Ctx, database, app.Logger, month)
			if err != nil {
				return err
			}
			printRuns(runs)
			return nil
		},
	}

	cmd.Flags().String("month", "", "Only list runs of this month (YYYY-MM)")
	cmd.Flags().String("run", "", "Show the assignments, issues and overrides of one run")

	return cmd
}

func printRuns(runs []db.SolveRun) {
	if len(runs) == 0 {
		fmt.Println("\nNo runs stored.")
		return
	}

	fmt.Printf("\n%s%-38s %-8s %-13s %-16s %8s %7s  %s%s\n",
		colorBold, "Run ID", "Month", "Strategy", "Status", "Nodes", "Spread", "Created", colorReset)
	fmt.Println(strings.Repeat("-", 120))
	for _, r := range runs {
		fmt.Printf("%-38s %-8s %-13s %s%-16s%s %8d %7.1f  %s\n",
			r.ID, r.Month, r.Strategy,
			statusColor(r.Status), r.Status, colorReset,
			r.Nodes, r.HoursSpread, r.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	fmt.Printf("\nTotal: %d run(s)\n\n", len(runs))
}

func printRunDetails(details *services.RunDetails) {
	r := details.Run
	fmt.Printf("\nRun %s\n\n", r.ID)
	fmt.Printf("Month:       %s\n", r.Month)
	fmt.Printf("Strategy:    %s\n", r.Strategy)
	fmt.Printf("Status:      %s%s%s\n", statusColor(r.Status), r.Status, colorReset)
	fmt.Printf("Seed:        %d\n", r.Seed)
	fmt.Printf("Created:     %s\n\n", r.CreatedAt.Local().Format("2006-01-02 15:04:05"))

	printRoster(db.Assignments(details.Assignments))

	issues := make([]roster.Issue, 0, len(details.Issues))
	for _, is := range details.Issues {
		issues = append(issues, roster.Issue{Date: is.Date, ShiftID: is.ShiftID, Missing: is.Missing, Reason: is.Reason})
	}
	printIssues(issues)

	overrides := make([]roster.Override, 0, len(details.Overrides))
	for _, o := range details.Overrides {
		overrides = append(overrides, roster.Override{
			Date: o.Date, PersonID: o.PersonID, Role: o.Role, ShiftCode: o.ShiftCode, Reason: o.Reason,
		})
	}
	printOverrides(overrides)
	printWarnings("Skipped requests", r.Warnings)
}
