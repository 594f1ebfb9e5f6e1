// =============================================================================
// DCIR Bar Rewriter - Bar List
// =============================================================================
//
// This module turns user input into the set of bar numbers the transformer
// targets. Two sources are supported:
//   1. A comma-separated string ("100, 200,300") from the config file or the
//      --bars flag
//   2. One column of an XLSX workbook, for bar lists maintained in Excel
//
// Both produce a Set; sources can be combined with Merge.
//
// =============================================================================

package barlist

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrInvalidBar is returned when an entry is not an integer.
var ErrInvalidBar = errors.New("invalid bar number")

// =============================================================================
// SET
// =============================================================================

// Set is a set of bar numbers. The zero value is an empty, read-only set.
type Set map[int]struct{}

// NewSet returns a set holding ids.
func NewSet(ids ...int) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Add inserts id.
func (s Set) Add(id int) {
	s[id] = struct{}{}
}

// Contains reports whether id is in the set.
func (s Set) Contains(id int) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of bar numbers in the set.
func (s Set) Len() int {
	return len(s)
}

// Sorted returns the bar numbers in ascending order.
func (s Set) Sorted() []int {
	ids := make([]int, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// String renders the set in the same comma-separated form Parse accepts.
func (s Set) String() string {
	ids := s.Sorted()
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

// Merge returns a new set holding every bar number of sets.
func Merge(sets ...Set) Set {
	merged := make(Set)
	for _, s := range sets {
		for id := range s {
			merged[id] = struct{}{}
		}
	}
	return merged
}

// =============================================================================
// PARSING
// =============================================================================

// Parse reads a comma-separated list of integers.
//
// PARAMETERS:
//   - input: e.g. "100, 200,300". Whitespace around entries and empty
//     entries are ignored.
//
// RETURNS:
//   - The parsed set (empty for empty input).
//   - An error wrapping ErrInvalidBar if any entry is not an integer. No
//     partial set is returned in that case.
func Parse(input string) (Set, error) {
	set := make(Set)
	for _, entry := range strings.Split(input, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		id, err := strconv.Atoi(entry)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidBar, entry)
		}
		set.Add(id)
	}
	return set, nil
}

// LoadXLSX reads bar numbers from one column of a workbook.
//
// PARAMETERS:
//   - path: The path to the XLSX file.
//   - sheet: The sheet name. Empty means the first sheet.
//   - column: The column letter, e.g. "A". Empty means "A".
//
// RETURNS:
//   - The set of bar numbers found in the column.
//   - An error if the file cannot be read or a cell is not an integer.
//
// A non-numeric value in the first row is treated as a column header. Empty
// cells are skipped.
func LoadXLSX(path, sheet, column string) (Set, error) {
	if column == "" {
		column = "A"
	}
	col, err := excelize.ColumnNameToNumber(column)
	if err != nil {
		return nil, fmt.Errorf("invalid bar list column %q: %w", column, err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open bar list: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
		if sheet == "" {
			return nil, fmt.Errorf("bar list %s has no sheets", path)
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read bar list sheet %s: %w", sheet, err)
	}

	set := make(Set)
	for i, row := range rows {
		if len(row) < col {
			continue
		}
		value := strings.TrimSpace(row[col-1])
		if value == "" {
			continue
		}
		id, err := strconv.Atoi(value)
		if err != nil {
			if i == 0 {
				// Header row.
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(col, i+1)
			return nil, fmt.Errorf("%w: %q in cell %s", ErrInvalidBar, value, cell)
		}
		set.Add(id)
	}

	return set, nil
}
