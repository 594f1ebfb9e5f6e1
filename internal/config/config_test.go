package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ginjaninja78/DCIR-bar-rewriter/internal/barlist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap/zapcore"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadMainConfig_Defaults(t *testing.T) {
	cfg, err := LoadMainConfig(writeConfig(t, "{}\n"))
	require.NoError(t, err)

	assert.Equal(t, "./input", cfg.InputDir)
	assert.Equal(t, "./output", cfg.OutputDir)
	assert.Equal(t, "./reports", cfg.ReportsDir)
	assert.Equal(t, []string{"*.txt"}, cfg.FilePatterns)
	assert.Equal(t, EncodingUTF8, cfg.Encoding)
	assert.Equal(t, "{original}_processed.txt", cfg.OutputNameFormat)
	assert.Equal(t, DefaultBarNumbers, cfg.BarNumbers)
	assert.Equal(t, 4, cfg.MaxConcurrency)
	assert.True(t, cfg.ShouldContinueOnError())
	assert.True(t, cfg.ShouldArchive())
	assert.True(t, cfg.ShouldWriteReport())

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, level)
}

func TestLoadMainConfig_Values(t *testing.T) {
	cfg, err := LoadMainConfig(writeConfig(t, `
input_dir: in
output_dir: out
log_level: debug
encoding: latin1
bar_numbers: "7, 8"
max_concurrency: 1
continue_on_error: false
archive_on_success: false
change_report: false
file_patterns: ["*.dat", "*.txt"]
`))
	require.NoError(t, err)

	assert.Equal(t, "in", cfg.InputDir)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, "latin1", cfg.Encoding)
	assert.Equal(t, 1, cfg.MaxConcurrency)
	assert.False(t, cfg.ShouldContinueOnError())
	assert.False(t, cfg.ShouldArchive())
	assert.False(t, cfg.ShouldWriteReport())
	assert.Equal(t, []string{"*.dat", "*.txt"}, cfg.FilePatterns)

	targets, err := cfg.Targets()
	require.NoError(t, err)
	assert.Equal(t, []int{7, 8}, targets.Sorted())
}

func TestLoadMainConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"log level", "log_level: loud\n", "log_level"},
		{"encoding", "encoding: EBCDIC\n", "unsupported encoding"},
		{"concurrency", "max_concurrency: -2\n", "max_concurrency"},
		{"bars", "bar_numbers: \"1,x\"\n", "bar_numbers"},
		{"yaml", "input_dir: [\n", "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadMainConfig(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadMainConfig_Missing(t *testing.T) {
	_, err := LoadMainConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestTargets_MergesWorkbook(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "B1", "Bars"))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", 500))
	path := filepath.Join(t.TempDir(), "bars.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	cfg := Default()
	cfg.BarNumbers = "100"
	cfg.BarListFile = path
	cfg.BarListColumn = "B"

	targets, err := cfg.Targets()
	require.NoError(t, err)
	assert.Equal(t, barlist.NewSet(100, 500), targets)
}

func TestDefault_BarListFileOnly(t *testing.T) {
	cfg := &MainConfig{BarListFile: "bars.xlsx"}
	applyMainConfigDefaults(cfg)
	assert.Empty(t, cfg.BarNumbers)
}

func TestNormalizeEncoding(t *testing.T) {
	for in, want := range map[string]string{
		"":             EncodingUTF8,
		"utf8":         EncodingUTF8,
		"iso_8859-1":   EncodingISO88591,
		"Latin1":       EncodingISO88591,
		"windows-1252": EncodingWindows1252,
		"CP1252":       EncodingWindows1252,
	} {
		got, err := NormalizeEncoding(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := NormalizeEncoding("UTF-16")
	assert.Error(t, err)
}
