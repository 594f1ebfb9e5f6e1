// =============================================================================
// DCIR Bar Rewriter - Record Layout
// =============================================================================
//
// The positional layout of a DCIR record file. Every offset is a 0-based
// character position on the line; none of them are configurable.
//
//   col  0         1         2         3         4
//        0123456789012345678901234567890123456789012
//        BAR1__ BAR2_    T AAAAAACCCCCCBBBBBBDDDDDD
//
//   BAR1  (0, 6)   record number
//   BAR2  (7, 5)   record number
//   T     (16)     type marker, only 'T' lines are rewritten
//   A     (17, 6)  recomputed from C when blank
//   C     (23, 6)  source value for A
//   B     (29, 6)  recomputed from D when blank
//   D     (35, 6)  source value for B
//
// =============================================================================

package dcir

const (
	// HeaderMarker opens the header block. Only the first occurrence counts.
	HeaderMarker = "DCIR"

	// HeaderBlockLines is the number of lines after the marker line that are
	// passed through before data scanning starts.
	HeaderBlockLines = 2

	// TerminatorMarker ends data scanning for the rest of the file.
	TerminatorMarker = "99999"

	// TypeMarker selects the lines whose fields may be recomputed.
	TypeMarker = 'T'

	// TypeMarkerOffset is the position of the type marker on the line.
	TypeMarkerOffset = 16

	// MinRecordLength is the shortest line that is considered for rewriting.
	MinRecordLength = 42

	// Divisor is applied to the source value before it is written back.
	Divisor = 50.0

	// FieldWidth is the width of every rewritten window.
	FieldWidth = 6
)

// Field is a fixed offset/length window on a record line.
type Field struct {
	Name   string
	Offset int
	Length int
}

// The fields read or written by the transformer.
var (
	Bar1Field = Field{Name: "BAR1", Offset: 0, Length: 6}
	Bar2Field = Field{Name: "BAR2", Offset: 7, Length: 5}
	WindowA   = Field{Name: "A", Offset: 17, Length: FieldWidth}
	WindowC   = Field{Name: "C", Offset: 23, Length: FieldWidth}
	WindowB   = Field{Name: "B", Offset: 29, Length: FieldWidth}
	WindowD   = Field{Name: "D", Offset: 35, Length: FieldWidth}
)

// rewrite pairs a target window with the window its value is derived from.
type rewrite struct {
	target Field
	source Field
}

// rewrites are applied in this order; each one is independent of the other.
var rewrites = []rewrite{
	{target: WindowA, source: WindowC},
	{target: WindowB, source: WindowD},
}

// text returns the characters of the field on a record. The caller guarantees
// the record is at least MinRecordLength long.
func (f Field) text(record []rune) string {
	return string(record[f.Offset : f.Offset+f.Length])
}

// write copies value into the field. value must be exactly f.Length runes.
func (f Field) write(record []rune, value []rune) {
	copy(record[f.Offset:f.Offset+f.Length], value)
}
