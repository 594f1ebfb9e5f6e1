// =============================================================================
// DCIR Bar Rewriter - Line-Stream Transformer
// =============================================================================
//
// This module holds the only real logic of the rewriter. It walks the lines
// of one DCIR file through a small state machine and recomputes the blank
// A/B windows of the 'T' records whose bar numbers are targeted.
//
// STATES:
//   preHeader -> header (2 lines) -> data -> done
//
//   preHeader : every line is copied; the first "DCIR" line moves to header
//   header    : the next HeaderBlockLines lines are copied verbatim
//   data      : 'T' records are inspected; a "99999" line moves to done
//   done      : the terminator and every line after it are copied verbatim
//
// ERROR HANDLING:
//   Nothing in here fails. A field that does not parse is left as it is and
//   counted in Stats.ParseFailures.
//
// =============================================================================

package dcir

import "strings"

// Matcher decides which bar numbers are targeted.
type Matcher interface {
	Contains(bar int) bool
}

type state int

const (
	statePreHeader state = iota
	stateHeader
	stateData
)

// =============================================================================
// REPORT STRUCTURES
// =============================================================================

// Change describes one rewritten window.
type Change struct {
	// Line is the 1-based line number in the input.
	Line int

	// Bar1 and Bar2 are the record numbers of the line (0 when unparsable).
	Bar1 int
	Bar2 int

	// Window is the name of the rewritten field ("A" or "B").
	Window string

	// Source is the text of the window the value was derived from.
	Source string

	// Old and New are the window contents before and after the rewrite.
	Old string
	New string
}

// Stats counts what happened during one pass.
type Stats struct {
	Lines           int
	DataLines       int
	TypedLines      int
	MatchedLines    int
	FieldsRewritten int
	ParseFailures   int

	HeaderFound     bool
	HeaderLine      int
	TerminatorFound bool
	TerminatorLine  int
}

// Report is the side output of Process.
type Report struct {
	Stats   Stats
	Changes []Change
}

// =============================================================================
// TRANSFORM
// =============================================================================

// Transform rewrites text for the given targets and returns the new content.
// It is a pure function: the same input always yields the same output, and
// concurrent calls share nothing.
func Transform(text string, targets Matcher) string {
	out, _ := Process(text, targets)
	return out
}

// Process is Transform plus a report of every rewritten field.
//
// PARAMETERS:
//   - text: the full content of one file.
//   - targets: the bar numbers to rewrite; nil means none.
//
// RETURNS:
//   - The output lines joined by "\n". It has exactly as many lines as text.
//   - The report of the pass.
func Process(text string, targets Matcher) (string, *Report) {
	lines := SplitLines(text)
	rep := &Report{}
	rep.Stats.Lines = len(lines)

	output := make([]string, 0, len(lines))
	st := statePreHeader
	headerRemaining := 0

	for i, line := range lines {
		switch st {
		case statePreHeader:
			if strings.HasPrefix(line, HeaderMarker) {
				rep.Stats.HeaderFound = true
				rep.Stats.HeaderLine = i + 1
				headerRemaining = HeaderBlockLines
				st = stateHeader
			}
			output = append(output, line)
			continue

		case stateHeader:
			output = append(output, line)
			headerRemaining--
			if headerRemaining == 0 {
				st = stateData
			}
			continue
		}

		if strings.HasPrefix(line, TerminatorMarker) {
			rep.Stats.TerminatorFound = true
			rep.Stats.TerminatorLine = i + 1
			output = append(output, lines[i:]...)
			break
		}

		rep.Stats.DataLines++
		output = append(output, rewriteLine(line, i+1, targets, rep))
	}

	return JoinLines(output), rep
}

// rewriteLine handles one line of the data section. The original string is
// returned whenever nothing was written.
func rewriteLine(line string, lineNo int, targets Matcher, rep *Report) string {
	record := []rune(line)
	if len(record) < MinRecordLength || record[TypeMarkerOffset] != TypeMarker {
		return line
	}
	rep.Stats.TypedLines++

	bar1, ok1 := parseBar(Bar1Field.text(record))
	bar2, ok2 := parseBar(Bar2Field.text(record))
	if !matches(targets, bar1, ok1) && !matches(targets, bar2, ok2) {
		return line
	}
	rep.Stats.MatchedLines++

	changed := false
	for _, rw := range rewrites {
		old := rw.target.text(record)
		if !isBlank(old) {
			continue
		}

		source := rw.source.text(record)
		value, ok := parseValue(source)
		if !ok {
			rep.Stats.ParseFailures++
			continue
		}

		formatted := FormatValue(value / Divisor)
		rw.target.write(record, []rune(formatted))
		changed = true

		rep.Stats.FieldsRewritten++
		rep.Changes = append(rep.Changes, Change{
			Line:   lineNo,
			Bar1:   bar1,
			Bar2:   bar2,
			Window: rw.target.Name,
			Source: source,
			Old:    old,
			New:    formatted,
		})
	}

	if !changed {
		return line
	}
	return string(record)
}

func matches(targets Matcher, bar int, ok bool) bool {
	return ok && targets != nil && targets.Contains(bar)
}
