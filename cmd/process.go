// =============================================================================
// DCIR Bar Rewriter - Process Command
// =============================================================================
//
// This file defines the 'process' command, the batch entry point. It rewrites
// every DCIR file found in the input directory.
//
// COMMAND USAGE:
//   rewriter process [flags]
//
// FLAGS:
//   --dry-run     : Run the rewrite and print statistics without writing files
//   --single      : Process only a single file (specify with --file)
//   --file        : Path to a specific file to process (used with --single)
//   --bars        : Comma-separated bar numbers overriding the configuration
//
// PROCESSING PIPELINE:
//   1. Load the configuration and the bar list
//   2. Prepare the directories and prune old archives
//   3. Discover input files
//   4. Rewrite each file (concurrently, see converter.RunBatch)
//   5. Print the summary and write the run logs
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/ginjaninja78/DCIR-bar-rewriter/internal/converter"
	"github.com/ginjaninja78/DCIR-bar-rewriter/pkg/utils"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// dryRun runs the rewrite without writing output files.
var dryRun bool

// singleFile indicates whether to process only a single file.
var singleFile bool

// filePath is the path to a specific file to process (used with --single).
var filePath string

// processBars overrides the configured bar list.
var processBars string

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

// processCmd represents the 'process' command.
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Rewrite the DCIR files in the input directory",
	Long: `The process command scans the input directory for files matching the
configured patterns and rewrites the targeted bar records of each one.

Files are processed concurrently, up to max_concurrency at a time.

On successful processing:
  - The rewritten file is placed in the output directory
  - An XLSX change report is written to the reports directory
  - The original file is moved to the input archive

On error:
  - An error log is created in the output directory
  - The original file remains in the input directory
  - Other files are still processed unless continue_on_error is false`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(cmd)
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Run the rewrite without writing output files",
	)

	processCmd.Flags().BoolVar(
		&singleFile,
		"single",
		false,
		"Process only a single file (use with --file)",
	)

	processCmd.Flags().StringVar(
		&filePath,
		"file",
		"",
		"Path to a specific file to process (used with --single)",
	)

	processCmd.Flags().StringVar(
		&processBars,
		"bars",
		"",
		"Comma-separated bar numbers (overrides bar_numbers and bar_list_file)",
	)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runProcess orchestrates a batch run.
func runProcess(cmd *cobra.Command) error {
	startTime := time.Now()
	out := cmd.OutOrStdout()

	// =========================================================================
	// STEP 1: LOAD CONFIGURATION
	// =========================================================================

	fmt.Fprintln(out, "=== DCIR Bar Rewriter ===")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	targets, err := resolveTargets(cmd, cfg, processBars)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Bar numbers: %s\n", targets)
	if targets.Len() == 0 {
		logger.Warn("Bar list is empty, files will be copied unchanged")
	}

	// =========================================================================
	// STEP 2: PREPARE DIRECTORIES
	// =========================================================================

	fm := converter.NewFileManager(cfg)
	if err := fm.EnsureDirectories(); err != nil {
		return err
	}

	if cfg.ArchiveRetentionDays > 0 {
		maxAge := time.Duration(cfg.ArchiveRetentionDays) * 24 * time.Hour
		for _, dir := range []string{cfg.InputArchiveDir, cfg.OutputArchiveDir} {
			removed, err := utils.CleanOldArchives(dir, maxAge)
			if err != nil {
				logger.Warn("Failed to clean archive", zap.String("dir", dir), zap.Error(err))
				continue
			}
			if removed > 0 {
				logger.Info("Removed old archive files", zap.String("dir", dir), zap.Int("count", removed))
			}
		}
	}

	// =========================================================================
	// STEP 3: DISCOVER INPUT FILES
	// =========================================================================

	var inputFiles []string
	if singleFile {
		if filePath == "" {
			return fmt.Errorf("--single requires --file")
		}
		inputFiles = []string{filePath}
	} else {
		inputFiles, err = fm.DiscoverInputFiles(cfg.FilePatterns)
		if err != nil {
			return fmt.Errorf("failed to discover input files: %w", err)
		}
	}

	if len(inputFiles) == 0 {
		fmt.Fprintln(out, "No input files found.")
		return nil
	}

	fmt.Fprintf(out, "Found %d file(s) to process\n", len(inputFiles))

	// =========================================================================
	// STEP 4: PROCESS FILES
	// =========================================================================

	results, batchErr := converter.RunBatch(cmd.Context(), inputFiles, cfg, targets, logger, dryRun)

	// =========================================================================
	// STEP 5: SUMMARY
	// =========================================================================

	summary := utils.ProcessingSummary{
		RunID:      uuid.New().String(),
		StartTime:  startTime,
		BarNumbers: targets.String(),
		TotalFiles: len(inputFiles),
	}
	var errorEntries []utils.ErrorLogEntry

	for _, result := range results {
		name := filepath.Base(result.FilePath)
		if !result.Success {
			if result.Error == nil {
				continue
			}
			summary.FailedFiles++
			summary.FailedFilesList = append(summary.FailedFilesList, utils.FailedFileInfo{
				InputFile:    result.FilePath,
				ErrorMessage: result.Error.Error(),
			})
			errorEntries = append(errorEntries, utils.ErrorLogEntry{
				Timestamp:    time.Now(),
				FileName:     name,
				ErrorType:    "ProcessingError",
				ErrorMessage: result.Error.Error(),
			})
			fmt.Fprintf(out, "  ✗ %s: %v\n", name, result.Error)
			continue
		}

		stats := result.Stats
		summary.SuccessfulFiles++
		summary.TotalLines += stats.Lines
		summary.MatchedLines += stats.MatchedLines
		summary.FieldsRewritten += stats.FieldsRewritten
		summary.ParseFailures += stats.ParseFailures
		summary.ProcessedFiles = append(summary.ProcessedFiles, utils.ProcessedFileInfo{
			InputFile:       result.FilePath,
			OutputFile:      result.OutputFile,
			ReportFile:      result.ReportFile,
			Lines:           stats.Lines,
			MatchedLines:    stats.MatchedLines,
			FieldsRewritten: stats.FieldsRewritten,
			ProcessTime:     stats.ProcessingTime,
		})

		target := result.OutputFile
		if dryRun {
			target = "(dry run)"
		}
		fmt.Fprintf(out, "  ✓ %s -> %s (%d field(s) rewritten)\n", name, target, stats.FieldsRewritten)
	}
	summary.EndTime = time.Now()

	fmt.Fprintln(out, "\n=== Processing Complete ===")
	fmt.Fprintf(out, "Run ID:           %s\n", summary.RunID)
	fmt.Fprintf(out, "Total files:      %d\n", summary.TotalFiles)
	fmt.Fprintf(out, "Successful:       %d\n", summary.SuccessfulFiles)
	fmt.Fprintf(out, "Errors:           %d\n", summary.FailedFiles)
	fmt.Fprintf(out, "Fields rewritten: %d\n", summary.FieldsRewritten)
	fmt.Fprintf(out, "Time elapsed:     %s\n", summary.EndTime.Sub(startTime))

	if !dryRun {
		if path, err := utils.WriteSummaryLog(summary, cfg.OutputDir); err != nil {
			logger.Warn("Failed to write summary log", zap.Error(err))
		} else {
			logger.Info("Wrote summary log", zap.String("path", path))
		}

		if path, err := utils.WriteErrorLog(errorEntries, cfg.OutputDir); err != nil {
			logger.Warn("Failed to write error log", zap.Error(err))
		} else if path != "" {
			fmt.Fprintf(out, "\nErrors have been logged to %s\n", path)
		}
	}

	return batchErr
}
