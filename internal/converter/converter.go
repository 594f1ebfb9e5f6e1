// =============================================================================
// DCIR Bar Rewriter - Converter Module
// =============================================================================
//
// This module orchestrates the rewrite of a single DCIR file, from reading the
// raw bytes to archiving the processed input.
//
// CONVERSION PIPELINE:
//   1. Read the input file
//   2. Decode it with the configured encoding
//   3. Rewrite the targeted bar fields (dcir.Process)
//   4. Encode and write the output file
//   5. Write the XLSX change report
//   6. Archive the processed files
//
// CONCURRENCY:
//   Each file is processed in its own goroutine (see RunBatch). A Converter
//   shares nothing with other converters except the read-only config and
//   bar list.
//
// =============================================================================

package converter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ginjaninja78/DCIR-bar-rewriter/internal/config"
	"github.com/ginjaninja78/DCIR-bar-rewriter/internal/dcir"
	"github.com/ginjaninja78/DCIR-bar-rewriter/internal/logging"
	"github.com/ginjaninja78/DCIR-bar-rewriter/internal/report"
	"github.com/ginjaninja78/DCIR-bar-rewriter/pkg/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrDuplicateOutput is returned for a batch file whose output name is already
// taken by an earlier file of the same batch.
var ErrDuplicateOutput = errors.New("output name already used in this batch")

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of processing a single file.
type Result struct {
	// FilePath is the path to the input file that was processed.
	FilePath string

	// OutputFile is the path to the rewritten file.
	// This is empty if processing failed or was a dry run.
	OutputFile string

	// ReportFile is the path to the XLSX change report, if one was written.
	ReportFile string

	// Success indicates whether the processing was successful.
	Success bool

	// Error contains the error if processing failed.
	Error error

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	dcir.Stats

	// ProcessingTime is the time taken to process the file.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter handles the rewrite of a single DCIR file.
type Converter struct {
	inputPath string
	cfg       *config.MainConfig
	targets   dcir.Matcher
	files     *utils.FileManager
	logger    *zap.Logger

	// outputName is fixed by RunBatch; empty means generate on write.
	outputName string

	// DryRun runs the transformation without writing anything.
	DryRun bool
}

// New creates a new Converter instance.
//
// PARAMETERS:
//   - inputPath: The path to the input file.
//   - cfg: The main application configuration.
//   - targets: The bar numbers to rewrite.
//   - logger: The logger; nil disables logging.
func New(inputPath string, cfg *config.MainConfig, targets dcir.Matcher, logger *zap.Logger) *Converter {
	return &Converter{
		inputPath: inputPath,
		cfg:       cfg,
		targets:   targets,
		files:     NewFileManager(cfg),
		logger:    logging.OrNop(logger),
	}
}

// NewFileManager builds the file manager for the directories of cfg.
func NewFileManager(cfg *config.MainConfig) *utils.FileManager {
	fm := utils.NewFileManager(cfg.InputDir, cfg.OutputDir, cfg.InputArchiveDir, cfg.OutputArchiveDir, cfg.ReportsDir)
	fm.UseTimestampSubdirs = cfg.TimestampSubdirs
	fm.ArchiveOnSuccess = cfg.ShouldArchive()
	return fm
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the pipeline for the file. It never panics on malformed
// content; every failure is reported in Result.Error.
func (c *Converter) Run(ctx context.Context) Result {
	startTime := time.Now()
	result := Result{FilePath: c.inputPath}
	log := c.logger.With(zap.String("file", c.inputPath))

	if err := ctx.Err(); err != nil {
		result.Error = err
		return result
	}

	log.Info("Processing file")

	// =========================================================================
	// STEP 1-2: READ AND DECODE
	// =========================================================================

	data, err := os.ReadFile(c.inputPath)
	if err != nil {
		result.Error = fmt.Errorf("failed to read input: %w", err)
		return result
	}

	text, err := Decode(data, c.cfg.Encoding)
	if err != nil {
		result.Error = fmt.Errorf("failed to decode input: %w", err)
		return result
	}

	// =========================================================================
	// STEP 3: REWRITE
	// =========================================================================

	output, rep := dcir.Process(text, c.targets)
	result.Stats.Stats = rep.Stats

	log.Debug("Rewrote file",
		zap.Int("lines", rep.Stats.Lines),
		zap.Int("data_lines", rep.Stats.DataLines),
		zap.Int("matched_lines", rep.Stats.MatchedLines),
		zap.Int("fields_rewritten", rep.Stats.FieldsRewritten),
		zap.Int("parse_failures", rep.Stats.ParseFailures))

	if !rep.Stats.HeaderFound {
		log.Warn("No DCIR header found, file passed through unchanged")
	}
	if rep.Stats.ParseFailures > 0 {
		log.Warn("Some source fields were not numeric and were left as is",
			zap.Int("parse_failures", rep.Stats.ParseFailures))
	}

	if c.DryRun {
		result.Success = true
		result.Stats.ProcessingTime = time.Since(startTime)
		return result
	}

	if err := ctx.Err(); err != nil {
		result.Error = err
		return result
	}

	// =========================================================================
	// STEP 4: WRITE OUTPUT FILE
	// =========================================================================

	encoded, err := Encode(output, c.cfg.Encoding)
	if err != nil {
		result.Error = fmt.Errorf("failed to encode output: %w", err)
		return result
	}

	outputPath, err := c.writeOutput(encoded)
	if err != nil {
		result.Error = fmt.Errorf("failed to write output: %w", err)
		return result
	}
	result.OutputFile = outputPath
	log.Info("Wrote output", zap.String("output", outputPath))

	// =========================================================================
	// STEP 5: CHANGE REPORT
	// =========================================================================

	if c.cfg.ShouldWriteReport() {
		reportPath := filepath.Join(c.cfg.ReportsDir, utils.TrimExt(outputPath)+"_changes.xlsx")
		if err := report.WriteChanges(reportPath, c.inputPath, rep); err != nil {
			// The rewritten file is already in place; a missing report is not fatal.
			log.Warn("Failed to write change report", zap.Error(err))
		} else {
			result.ReportFile = reportPath
		}
	}

	// =========================================================================
	// STEP 6: ARCHIVE FILES
	// =========================================================================

	if err := c.archiveFiles(outputPath); err != nil {
		log.Warn("Failed to archive files", zap.Error(err))
	}

	result.Success = true
	result.Stats.ProcessingTime = time.Since(startTime)

	return result
}

// writeOutput writes the rewritten content to the output directory under the
// name generated from output_name_format.
func (c *Converter) writeOutput(content []byte) (string, error) {
	outputPath := filepath.Join(c.cfg.OutputDir, c.outputFileName())

	if err := os.MkdirAll(c.cfg.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(outputPath, content, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return outputPath, nil
}

// outputFileName returns the name the output will be written under.
func (c *Converter) outputFileName() string {
	if c.outputName != "" {
		return c.outputName
	}
	return utils.GenerateOutputFileName(c.cfg.OutputNameFormat, map[string]string{
		"original": utils.TrimExt(c.inputPath),
	})
}

// archiveFiles moves the input to the input archive and copies the output to
// the output archive.
func (c *Converter) archiveFiles(outputPath string) error {
	if !c.files.ArchiveOnSuccess {
		return nil
	}
	if _, err := c.files.ArchiveInputFile(c.inputPath); err != nil {
		return fmt.Errorf("failed to archive input file: %w", err)
	}
	if _, err := c.files.ArchiveOutputFile(outputPath); err != nil {
		return fmt.Errorf("failed to archive output file: %w", err)
	}
	return nil
}

// =============================================================================
// BATCH PROCESSING
// =============================================================================

// RunBatch processes files concurrently, at most cfg.MaxConcurrency at a time.
//
// RETURNS:
//   - One Result per file, in the order of files.
//   - The first failure when continue_on_error is false. The remaining files
//     are then skipped with a context error in their Result.
//
// A file whose output name was already claimed by an earlier file fails with
// ErrDuplicateOutput and is left in place.
func RunBatch(ctx context.Context, files []string, cfg *config.MainConfig, targets dcir.Matcher, logger *zap.Logger, dryRun bool) ([]Result, error) {
	results := make([]Result, len(files))

	g, gctx := errgroup.WithContext(ctx)
	if cfg.MaxConcurrency > 0 {
		g.SetLimit(cfg.MaxConcurrency)
	}

	// Output names are fixed up front. A name belongs to the first file that
	// claims it (frame.dat and frame.txt both map to frame_processed.txt).
	claimed := make(map[string]string, len(files))

	for i, file := range files {
		conv := New(file, cfg, targets, logger)
		conv.DryRun = dryRun
		conv.outputName = conv.outputFileName()

		if first, taken := claimed[conv.outputName]; taken {
			g.Go(func() error {
				results[i] = Result{
					FilePath: file,
					Error:    fmt.Errorf("%w: %s is also written for %s", ErrDuplicateOutput, conv.outputName, filepath.Base(first)),
				}
				if !cfg.ShouldContinueOnError() {
					return fmt.Errorf("%s: %w", filepath.Base(file), results[i].Error)
				}
				return nil
			})
			continue
		}
		claimed[conv.outputName] = file

		g.Go(func() error {
			results[i] = conv.Run(gctx)

			if !results[i].Success && !cfg.ShouldContinueOnError() {
				return fmt.Errorf("%s: %w", filepath.Base(file), results[i].Error)
			}
			return nil
		})
	}

	return results, g.Wait()
}

// =============================================================================
// STREAM PROCESSING
// =============================================================================

// RewriteStream rewrites one document read from r and writes it to w. It is
// the single-file path used when no directory layout is involved.
func RewriteStream(r io.Reader, w io.Writer, encoding string, targets dcir.Matcher) (*dcir.Report, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	text, err := Decode(data, encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to decode input: %w", err)
	}

	output, rep := dcir.Process(text, targets)

	encoded, err := Encode(output, encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to encode output: %w", err)
	}
	if _, err := w.Write(encoded); err != nil {
		return nil, fmt.Errorf("failed to write output: %w", err)
	}

	return rep, nil
}
