// =============================================================================
// DCIR Bar Rewriter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All other commands
// are attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (rewriter)
//   ├── processCmd  (rewriter process)
//   ├── rewriteCmd  (rewriter rewrite)
//   ├── watchCmd    (rewriter watch)
//   ├── validateCmd (rewriter validate)
//   └── versionCmd  (rewriter version)
//
// The root command owns the global flags (--config, --verbose), loads the
// configuration and builds the zap logger shared by the subcommands.
//
// =============================================================================

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ginjaninja78/DCIR-bar-rewriter/internal/barlist"
	"github.com/ginjaninja78/DCIR-bar-rewriter/internal/config"
	"github.com/ginjaninja78/DCIR-bar-rewriter/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// verbose enables debug logging.
var verbose bool

// logger is built by loadConfig and synced after every command.
var logger = zap.NewNop()

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "rewriter",
	Short: "DCIR Bar Rewriter - Recompute blank bar fields in DCIR record files",
	Long: `DCIR Bar Rewriter scans fixed-width DCIR record files and, for every 'T'
record whose bar number is in the configured bar list, fills the blank
fields at columns 18-23 and 30-35 with the neighbouring values divided by 50.

Everything else in the file, including the preamble, the header block and
every line after the 99999 terminator, is copied unchanged.

Example Usage:
  rewriter process                         # Rewrite every file in the input directory
  rewriter process --bars 100,200          # Override the configured bar list
  rewriter rewrite frame.txt out.txt       # Rewrite a single file
  rewriter rewrite < frame.txt > out.txt   # Rewrite stdin to stdout
  rewriter watch                           # Rewrite files as they arrive`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main(). Interrupts
// cancel the command context so batch and watch runs stop cleanly.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// loadConfig loads the configuration and initializes the logger. When the
// default config file does not exist the built-in defaults are used; a
// missing file named explicitly with --config is an error.
func loadConfig(cmd *cobra.Command) (*config.MainConfig, error) {
	cfg, err := config.LoadMainConfig(cfgFile)
	usedDefaults := false
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) || cmd.Flags().Changed("config") {
			return nil, fmt.Errorf("failed to load main config: %w", err)
		}
		cfg = config.Default()
		usedDefaults = true
	}

	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}

	logger, err = logging.New(logging.Options{
		Level:   level,
		Verbose: verbose,
		File:    cfg.LogFile,
	})
	if err != nil {
		return nil, err
	}

	if usedDefaults {
		logger.Debug("Config file not found, using defaults", zap.String("config", cfgFile))
	}

	return cfg, nil
}

// resolveTargets returns the bar list from the --bars flag when it was given,
// otherwise the configured one.
func resolveTargets(cmd *cobra.Command, cfg *config.MainConfig, bars string) (barlist.Set, error) {
	if cmd.Flags().Changed("bars") {
		set, err := barlist.Parse(bars)
		if err != nil {
			return nil, fmt.Errorf("invalid --bars: %w", err)
		}
		return set, nil
	}
	return cfg.Targets()
}
