package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// MigrateCmd creates the migrate command
func MigrateCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Migrator == nil {
				return fmt.Errorf("migrate needs a database: set databaseURL in the config")
			}

			applied, err := app.Migrator.RunMigrations(app.Ctx)
			if err != nil {
				return err
			}

			if len(applied) == 0 {
				fmt.Println("\nDatabase is up to date.")
				return nil
			}
			fmt.Printf("\n✓ Applied %d migration(s):\n", len(applied))
			for _, name := range applied {
				fmt.Printf("  • %s\n", name)
			}
			fmt.Println()
			return nil
		},
	}
}
