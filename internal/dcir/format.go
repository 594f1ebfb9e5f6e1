package dcir

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// FormatValue renders v as fixed-point with six decimals and keeps only the
// first FieldWidth characters, padding with spaces when the text is shorter.
// The cut is positional, not a rounding: 246.9 becomes "246.90" and -1234.5
// becomes "-1234.".
func FormatValue(v float64) string {
	fixed := []rune(formatFixed(v))
	if len(fixed) > FieldWidth {
		fixed = fixed[:FieldWidth]
	}
	return string(fixed) + strings.Repeat(" ", FieldWidth-len(fixed))
}

func formatFixed(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// parseValue reads a source window as a float. Surrounding whitespace is
// ignored; values too large for float64 become infinities.
func parseValue(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, "xX") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return v, true
		}
		return 0, false
	}
	return v, true
}

// parseBar reads a record number. ok is false when the text is not an integer.
func parseBar(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}

// isBlank reports whether s holds nothing but whitespace.
func isBlank(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
