// =============================================================================
// DCIR Bar Rewriter - Validate Command
// =============================================================================
//
// This file defines the 'validate' command. It loads the configuration and
// the bar list, reports any problem and prints the resolved settings. Nothing
// is processed.
//
// COMMAND USAGE:
//   rewriter validate [--config path]
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// validateCmd represents the 'validate' command.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration without processing",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		targets, err := cfg.Targets()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Configuration is valid.")
		fmt.Fprintf(out, "  Input dir:          %s\n", cfg.InputDir)
		fmt.Fprintf(out, "  Output dir:         %s\n", cfg.OutputDir)
		fmt.Fprintf(out, "  Input archive:      %s\n", cfg.InputArchiveDir)
		fmt.Fprintf(out, "  Output archive:     %s\n", cfg.OutputArchiveDir)
		fmt.Fprintf(out, "  Reports dir:        %s\n", cfg.ReportsDir)
		fmt.Fprintf(out, "  File patterns:      %v\n", cfg.FilePatterns)
		fmt.Fprintf(out, "  Encoding:           %s\n", cfg.Encoding)
		fmt.Fprintf(out, "  Output name format: %s\n", cfg.OutputNameFormat)
		fmt.Fprintf(out, "  Max concurrency:    %d\n", cfg.MaxConcurrency)
		fmt.Fprintf(out, "  Bar numbers (%d):   %s\n", targets.Len(), targets)
		if cfg.BarListFile != "" {
			fmt.Fprintf(out, "  Bar list file:      %s\n", cfg.BarListFile)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
