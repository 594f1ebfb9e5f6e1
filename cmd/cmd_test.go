package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dataLine = "100    7        T         500         250|"

const sample = "DCIR FILE\nHEADER 1\nHEADER 2\n" + dataLine + "\n99999\n"

const expected = "DCIR FILE\nHEADER 1\nHEADER 2\n" +
	"100    7        T10.000   5005.0000   250|\n99999"

// resetFlags restores every flag to its default so commands can be executed
// more than once in the same process.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

// writeConfig writes a config.yaml rooted in a temporary directory.
func writeConfig(t *testing.T, extra string) (root, path string) {
	t.Helper()
	root = t.TempDir()
	content := fmt.Sprintf(`input_dir: %[1]s/input
output_dir: %[1]s/output
input_archive_dir: %[1]s/input_archive
output_archive_dir: %[1]s/output_archive
reports_dir: %[1]s/reports
log_level: error
bar_numbers: "100"
%[2]s`, filepath.ToSlash(root), extra)

	path = filepath.Join(root, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return root, path
}

func TestRewriteCommand_Files(t *testing.T) {
	root, cfg := writeConfig(t, "")
	in := filepath.Join(root, "frame.txt")
	outPath := filepath.Join(root, "frame_out.txt")
	report := filepath.Join(root, "changes.xlsx")
	require.NoError(t, os.WriteFile(in, []byte(sample), 0644))

	_, err := execute(t, "", "rewrite", in, outPath, "--config", cfg, "--report", report)
	require.NoError(t, err)

	got, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, expected, string(got))
	assert.FileExists(t, report)
}

func TestRewriteCommand_InPlace(t *testing.T) {
	root, cfg := writeConfig(t, "")
	path := filepath.Join(root, "frame.txt")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0644))

	_, err := execute(t, "", "--config", cfg, "rewrite", "--bars", "100", path, path)
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, expected, string(got))
}

func TestRewriteCommand_FailedDecodeKeepsOutput(t *testing.T) {
	root, cfg := writeConfig(t, "")
	in := filepath.Join(root, "bad.txt")
	outPath := filepath.Join(root, "out.txt")
	require.NoError(t, os.WriteFile(in, []byte("DCIR\n\xff\n"), 0644))
	require.NoError(t, os.WriteFile(outPath, []byte("previous"), 0644))

	_, err := execute(t, "", "rewrite", in, outPath, "--config", cfg)
	require.Error(t, err)

	got, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(got))
}

func TestRewriteCommand_StdinStdout(t *testing.T) {
	_, cfg := writeConfig(t, "")

	out, err := execute(t, sample, "rewrite", "--config", cfg, "--bars", "7")
	require.NoError(t, err)
	assert.Equal(t, expected, out)

	out, err = execute(t, sample, "rewrite", "-", "-", "--config", cfg, "--bars", "999")
	require.NoError(t, err)
	assert.Equal(t, strings.TrimSuffix(sample, "\n"), out)
}

func TestRewriteCommand_InvalidBars(t *testing.T) {
	_, cfg := writeConfig(t, "")

	_, err := execute(t, sample, "rewrite", "--config", cfg, "--bars", "1,x")
	assert.ErrorContains(t, err, "--bars")
}

func TestProcessCommand(t *testing.T) {
	root, cfg := writeConfig(t, "")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "input"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "input", "frame.txt"), []byte(sample), 0644))

	out, err := execute(t, "", "process", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Successful:       1")
	assert.Contains(t, out, "Fields rewritten: 2")

	got, err := os.ReadFile(filepath.Join(root, "output", "frame_processed.txt"))
	require.NoError(t, err)
	assert.Equal(t, expected, string(got))
	assert.FileExists(t, filepath.Join(root, "input_archive", "frame.txt"))
	assert.FileExists(t, filepath.Join(root, "reports", "frame_processed_changes.xlsx"))
}

func TestProcessCommand_DryRun(t *testing.T) {
	root, cfg := writeConfig(t, "")
	input := filepath.Join(root, "input", "frame.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(input), 0755))
	require.NoError(t, os.WriteFile(input, []byte(sample), 0644))

	out, err := execute(t, "", "process", "--config", cfg, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "(dry run)")
	assert.FileExists(t, input)
	assert.NoFileExists(t, filepath.Join(root, "output", "frame_processed.txt"))
}

func TestProcessCommand_SingleRequiresFile(t *testing.T) {
	_, cfg := writeConfig(t, "")

	_, err := execute(t, "", "process", "--config", cfg, "--single")
	assert.ErrorContains(t, err, "--file")
}

func TestValidateCommand(t *testing.T) {
	_, cfg := writeConfig(t, "")

	out, err := execute(t, "", "validate", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid.")
	assert.Contains(t, out, "100")

	_, bad := writeConfig(t, "encoding: EBCDIC\n")
	_, err = execute(t, "", "validate", "--config", bad)
	assert.ErrorContains(t, err, "unsupported encoding")
}

func TestLoadConfig_ExplicitMissingFile(t *testing.T) {
	_, err := execute(t, "", "validate", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "DCIR Bar Rewriter")
	assert.Contains(t, out, Version)
}
