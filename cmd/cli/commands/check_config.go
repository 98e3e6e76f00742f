package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// CheckConfigCmd creates the checkConfig command
func CheckConfigCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "checkConfig",
		Short: "Print the effective configuration after defaults are applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *app.Cfg
			if cfg.DatabaseURL != "" {
				cfg.DatabaseURL = "<redacted>"
			}

			out, err := yaml.Marshal(&cfg)
			if err != nil {
				return fmt.Errorf("failed to render config: %w", err)
			}

			fmt.Printf("\n%s✓ Configuration is valid%s\n\n", colorGreen, colorReset)
			fmt.Println(string(out))

			codes := make([]string, 0, len(cfg.LeaveCodes))
			for code := range cfg.LeaveCodes {
				codes = append(codes, code)
			}
			sort.Strings(codes)
			fmt.Printf("Shift definitions: %d\n", len(cfg.Shifts))
			fmt.Printf("Leave codes:       %v\n", codes)
			fmt.Printf("Closures:          %d\n", len(cfg.Closures))
			fmt.Printf("Database:          %t\n\n", app.Database != nil)
			return nil
		},
	}
}
