// =============================================================================
// DCIR Bar Rewriter - Change Report
// =============================================================================
//
// This module writes an XLSX workbook describing what one rewrite did, so the
// engineer who supplied the bar list can review every recomputed field.
//
// WORKBOOK LAYOUT:
//
//   Sheet "Changes"
//   | Line | Bar1 | Bar2 | Window | Source | Old    | New    |
//   |------|------|------|--------|--------|--------|--------|
//   | 12   | 100  | 7    | A      |    500 |        | 10.000 |
//
//   Sheet "Summary"
//   | Statistic | Value |
//
// =============================================================================

package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ginjaninja78/DCIR-bar-rewriter/internal/dcir"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the workbook.
const (
	ChangesSheet = "Changes"
	SummarySheet = "Summary"
)

// ChangeHeaders is the header row of the Changes sheet.
var ChangeHeaders = []interface{}{"Line", "Bar1", "Bar2", "Window", "Source", "Old", "New"}

// WriteChanges writes the change report for one processed file.
//
// PARAMETERS:
//   - path: The destination XLSX path. Its directory is created if needed.
//   - source: The input file the report describes (shown in the summary).
//   - rep: The report returned by dcir.Process.
//
// RETURNS:
//   - An error if the workbook cannot be built or saved.
func WriteChanges(path, source string, rep *dcir.Report) error {
	if rep == nil {
		rep = &dcir.Report{}
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ChangesSheet); err != nil {
		return fmt.Errorf("failed to name changes sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	// =========================================================================
	// CHANGES SHEET
	// =========================================================================

	if err := f.SetSheetRow(ChangesSheet, "A1", &ChangeHeaders); err != nil {
		return fmt.Errorf("failed to write change headers: %w", err)
	}
	if err := f.SetRowStyle(ChangesSheet, 1, 1, bold); err != nil {
		return fmt.Errorf("failed to style change headers: %w", err)
	}

	for i, c := range rep.Changes {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{c.Line, c.Bar1, c.Bar2, c.Window, c.Source, c.Old, c.New}
		if err := f.SetSheetRow(ChangesSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write change row %d: %w", i+1, err)
		}
	}

	if err := f.SetColWidth(ChangesSheet, "A", "D", 10); err != nil {
		return err
	}
	if err := f.SetColWidth(ChangesSheet, "E", "G", 12); err != nil {
		return err
	}

	// =========================================================================
	// SUMMARY SHEET
	// =========================================================================

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	s := rep.Stats
	summary := [][]interface{}{
		{"Statistic", "Value"},
		{"Source File", source},
		{"Lines", s.Lines},
		{"Header Found", s.HeaderFound},
		{"Header Line", s.HeaderLine},
		{"Data Lines", s.DataLines},
		{"T Lines", s.TypedLines},
		{"Matched Lines", s.MatchedLines},
		{"Fields Rewritten", s.FieldsRewritten},
		{"Parse Failures", s.ParseFailures},
		{"Terminator Found", s.TerminatorFound},
		{"Terminator Line", s.TerminatorLine},
	}
	for i := range summary {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &summary[i]); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
	}
	if err := f.SetRowStyle(SummarySheet, 1, 1, bold); err != nil {
		return err
	}
	if err := f.SetColWidth(SummarySheet, "A", "A", 20); err != nil {
		return err
	}
	if err := f.SetColWidth(SummarySheet, "B", "B", 40); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	return nil
}
