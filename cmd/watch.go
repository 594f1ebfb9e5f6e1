// =============================================================================
// DCIR Bar Rewriter - Watch Command
// =============================================================================
//
// This file defines the 'watch' command. It keeps running and rewrites every
// file that lands in the input directory, once the file has stopped changing.
//
// COMMAND USAGE:
//   rewriter watch [flags]
//
// FLAGS:
//   --bars        : Comma-separated bar numbers overriding the configuration
//   --debounce    : How long a file must stay unchanged before processing
//
// Stop the watcher with Ctrl+C.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/ginjaninja78/DCIR-bar-rewriter/internal/converter"
	"github.com/ginjaninja78/DCIR-bar-rewriter/internal/watcher"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// watchBars overrides the configured bar list.
var watchBars string

// debounce is the quiet period of the watcher.
var debounce time.Duration

// watchCmd represents the 'watch' command.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rewrite files as they arrive in the input directory",
	Long: `The watch command monitors the input directory and rewrites each new
file matching the configured patterns. Files are handled the same way as by
'process': output, change report and archiving all follow the configuration.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch(cmd)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(
		&watchBars,
		"bars",
		"",
		"Comma-separated bar numbers (overrides bar_numbers and bar_list_file)",
	)

	watchCmd.Flags().DurationVar(
		&debounce,
		"debounce",
		watcher.DefaultDebounce,
		"How long a file must stay unchanged before it is processed",
	)
}

func runWatch(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	targets, err := resolveTargets(cmd, cfg, watchBars)
	if err != nil {
		return err
	}

	if err := converter.NewFileManager(cfg).EnsureDirectories(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Watching %s for %v (bars %s). Press Ctrl+C to stop.\n",
		cfg.InputDir, cfg.FilePatterns, targets)

	w := watcher.New(cfg.InputDir, cfg.FilePatterns, func(ctx context.Context, path string) {
		result := converter.New(path, cfg, targets, logger).Run(ctx)
		name := filepath.Base(path)
		if !result.Success {
			logger.Error("Failed to process file", zap.String("file", path), zap.Error(result.Error))
			fmt.Fprintf(out, "  ✗ %s: %v\n", name, result.Error)
			return
		}
		fmt.Fprintf(out, "  ✓ %s -> %s (%d field(s) rewritten)\n",
			name, result.OutputFile, result.Stats.FieldsRewritten)
	}, logger)
	w.Debounce = debounce

	return w.Run(cmd.Context())
}
