// =============================================================================
// DCIR Bar Rewriter - Configuration Module
// =============================================================================
//
// This module loads the main application configuration (config.yaml). It
// holds the directory layout of the batch pipeline, logging settings, the
// input encoding and the bar list the transformer targets.
//
// EXAMPLE config.yaml:
//
//   input_dir: ./input
//   output_dir: ./output
//   bar_numbers: "100,200,300"
//   bar_list_file: ./bars.xlsx
//   encoding: UTF-8
//   max_concurrency: 4
//
// Every key is optional; see applyMainConfigDefaults for the defaults.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ginjaninja78/DCIR-bar-rewriter/internal/barlist"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Supported input encodings.
const (
	EncodingUTF8        = "UTF-8"
	EncodingISO88591    = "ISO-8859-1"
	EncodingWindows1252 = "Windows-1252"
)

// DefaultBarNumbers is the bar list used when none is configured.
const DefaultBarNumbers = "100,200,300"

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// InputDir is scanned for DCIR files to process.
	// Default: "./input"
	InputDir string `yaml:"input_dir"`

	// OutputDir receives the rewritten files and the run logs.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// InputArchiveDir receives input files after successful processing.
	// Default: "./input_archive"
	InputArchiveDir string `yaml:"input_archive_dir"`

	// OutputArchiveDir receives a copy of every rewritten file.
	// Default: "./output_archive"
	OutputArchiveDir string `yaml:"output_archive_dir"`

	// ReportsDir receives the XLSX change reports.
	// Default: "./reports"
	ReportsDir string `yaml:"reports_dir"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogFile is an additional log destination. Empty logs to stderr only.
	LogFile string `yaml:"log_file"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// =========================================================================
	// INPUT / OUTPUT SETTINGS
	// =========================================================================

	// FilePatterns are glob patterns selecting input files in InputDir.
	// Default: ["*.txt"]
	FilePatterns []string `yaml:"file_patterns"`

	// Encoding is the character encoding of the input files. Output files are
	// written in the same encoding.
	// Valid values: "UTF-8", "ISO-8859-1", "Windows-1252"
	// Default: "UTF-8"
	Encoding string `yaml:"encoding"`

	// OutputNameFormat defines output file names.
	// Placeholders:
	//   {original}  - Input file name without extension
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {date}      - Current date (YYYYMMDD)
	//   {time}      - Current time (HHMMSS)
	// Default: "{original}_processed.txt"
	OutputNameFormat string `yaml:"output_name_format"`

	// ChangeReport writes an XLSX report of every rewritten field.
	// Default: true
	ChangeReport *bool `yaml:"change_report"`

	// =========================================================================
	// BAR LIST SETTINGS
	// =========================================================================

	// BarNumbers is a comma-separated list of bar numbers to rewrite.
	// Default: "100,200,300"
	BarNumbers string `yaml:"bar_numbers"`

	// BarListFile is an optional XLSX workbook with more bar numbers. Its
	// numbers are merged with BarNumbers.
	BarListFile string `yaml:"bar_list_file"`

	// BarListSheet is the sheet of BarListFile. Empty means the first sheet.
	BarListSheet string `yaml:"bar_list_sheet"`

	// BarListColumn is the column letter of BarListFile.
	// Default: "A"
	BarListColumn string `yaml:"bar_list_column"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// MaxConcurrency is the maximum number of files processed at once.
	// Set to 1 for sequential processing.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency"`

	// ContinueOnError keeps processing other files when one fails.
	// Default: true
	ContinueOnError *bool `yaml:"continue_on_error"`

	// ArchiveOnSuccess moves processed inputs to InputArchiveDir.
	// Default: true
	ArchiveOnSuccess *bool `yaml:"archive_on_success"`

	// TimestampSubdirs archives into YYYY/MM/DD subdirectories.
	TimestampSubdirs bool `yaml:"timestamp_subdirs"`

	// ArchiveRetentionDays removes archived files older than this many days
	// at the start of a batch run. 0 keeps everything.
	ArchiveRetentionDays int `yaml:"archive_retention_days"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// LoadMainConfig loads the main configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the main configuration file.
//
// RETURNS:
//   - A pointer to the MainConfig struct with defaults applied.
//   - An error if the file cannot be read, parsed or validated. A missing
//     file is reported with an error wrapping os.ErrNotExist.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config MainConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyMainConfigDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns a configuration with every default applied.
func Default() *MainConfig {
	var config MainConfig
	applyMainConfigDefaults(&config)
	return &config
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.InputDir == "" {
		config.InputDir = "./input"
	}
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.InputArchiveDir == "" {
		config.InputArchiveDir = "./input_archive"
	}
	if config.OutputArchiveDir == "" {
		config.OutputArchiveDir = "./output_archive"
	}
	if config.ReportsDir == "" {
		config.ReportsDir = "./reports"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if len(config.FilePatterns) == 0 {
		config.FilePatterns = []string{"*.txt"}
	}
	if config.Encoding == "" {
		config.Encoding = EncodingUTF8
	}
	if config.OutputNameFormat == "" {
		config.OutputNameFormat = "{original}_processed.txt"
	}
	if config.ChangeReport == nil {
		config.ChangeReport = boolPtr(true)
	}
	if strings.TrimSpace(config.BarNumbers) == "" && config.BarListFile == "" {
		config.BarNumbers = DefaultBarNumbers
	}
	if config.BarListColumn == "" {
		config.BarListColumn = "A"
	}
	if config.MaxConcurrency == 0 {
		config.MaxConcurrency = 4
	}
	if config.ContinueOnError == nil {
		config.ContinueOnError = boolPtr(true)
	}
	if config.ArchiveOnSuccess == nil {
		config.ArchiveOnSuccess = boolPtr(true)
	}
}

// Validate checks the values of the configuration. It does not touch the
// file system.
func (c *MainConfig) Validate() error {
	var errs []error

	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	if _, err := NormalizeEncoding(c.Encoding); err != nil {
		errs = append(errs, err)
	}
	if c.MaxConcurrency < 0 {
		errs = append(errs, fmt.Errorf("max_concurrency must not be negative, got %d", c.MaxConcurrency))
	}
	if c.ArchiveRetentionDays < 0 {
		errs = append(errs, fmt.Errorf("archive_retention_days must not be negative, got %d", c.ArchiveRetentionDays))
	}
	if _, err := barlist.Parse(c.BarNumbers); err != nil {
		errs = append(errs, fmt.Errorf("bar_numbers: %w", err))
	}

	return errors.Join(errs...)
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Level returns the parsed log level.
func (c *MainConfig) Level() (zapcore.Level, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

// Targets resolves the configured bar list, merging BarNumbers and the
// workbook in BarListFile.
func (c *MainConfig) Targets() (barlist.Set, error) {
	set, err := barlist.Parse(c.BarNumbers)
	if err != nil {
		return nil, fmt.Errorf("bar_numbers: %w", err)
	}

	if c.BarListFile == "" {
		return set, nil
	}

	fromFile, err := barlist.LoadXLSX(c.BarListFile, c.BarListSheet, c.BarListColumn)
	if err != nil {
		return nil, fmt.Errorf("bar_list_file: %w", err)
	}

	return barlist.Merge(set, fromFile), nil
}

// ShouldContinueOnError reports the effective continue_on_error setting.
func (c *MainConfig) ShouldContinueOnError() bool {
	return c.ContinueOnError == nil || *c.ContinueOnError
}

// ShouldArchive reports the effective archive_on_success setting.
func (c *MainConfig) ShouldArchive() bool {
	return c.ArchiveOnSuccess == nil || *c.ArchiveOnSuccess
}

// ShouldWriteReport reports the effective change_report setting.
func (c *MainConfig) ShouldWriteReport() bool {
	return c.ChangeReport == nil || *c.ChangeReport
}

// NormalizeEncoding maps the accepted spellings of an encoding name to one of
// the Encoding constants.
func NormalizeEncoding(name string) (string, error) {
	switch strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(name), "_", "-")) {
	case "", "UTF-8", "UTF8":
		return EncodingUTF8, nil
	case "ISO-8859-1", "LATIN1", "LATIN-1":
		return EncodingISO88591, nil
	case "WINDOWS-1252", "CP1252":
		return EncodingWindows1252, nil
	}
	return "", fmt.Errorf("unsupported encoding %q", name)
}

func boolPtr(b bool) *bool {
	return &b
}
