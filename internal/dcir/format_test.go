package dcir

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{10, "10.000"},
		{0.02, "0.0200"},
		{-2.469, "-2.469"},
		{246.9, "246.90"},
		{19999.98, "19999."},
		{-19999.98, "-19999"},
		{1234567, "123456"},
		{0.1234567, "0.1234"},
		{math.Copysign(0, -1), "-0.000"},
		{math.Inf(1), "inf   "},
		{math.Inf(-1), "-inf  "},
		{math.NaN(), "nan   "},
	}

	for _, tt := range tests {
		got := FormatValue(tt.in)
		assert.Equal(t, tt.want, got, "FormatValue(%v)", tt.in)
		assert.Len(t, got, FieldWidth)
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"   500", 500, true},
		{"500   ", 500, true},
		{" -7.5 ", -7.5, true},
		{"  1e3 ", 1000, true},
		{" 1e400", math.Inf(1), true},
		{"      ", 0, false},
		{"  abc ", 0, false},
		{" 0x1p2", 0, false},
		{"1.2.3 ", 0, false},
		{"  1_00", 0, false},
	}

	for _, tt := range tests {
		got, ok := parseValue(tt.in)
		assert.Equal(t, tt.wantOK, ok, "parseValue(%q)", tt.in)
		assert.Equal(t, tt.want, got, "parseValue(%q)", tt.in)
	}
}

func TestParseBar(t *testing.T) {
	n, ok := parseBar("  100 ")
	assert.True(t, ok)
	assert.Equal(t, 100, n)

	n, ok = parseBar("-12")
	assert.True(t, ok)
	assert.Equal(t, -12, n)

	_, ok = parseBar("      ")
	assert.False(t, ok)

	_, ok = parseBar(" 1.5  ")
	assert.False(t, ok)

	_, ok = parseBar("1_00  ")
	assert.False(t, ok)
}

func TestIsBlank(t *testing.T) {
	assert.True(t, isBlank("      "))
	assert.True(t, isBlank(" \t    "))
	assert.True(t, isBlank(""))
	assert.False(t, isBlank("   0  "))
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"single", "abc", []string{"abc"}},
		{"trailing newline", "abc\n", []string{"abc"}},
		{"crlf", "a\r\nb\r\n", []string{"a", "b"}},
		{"lone cr", "a\rb", []string{"a", "b"}},
		{"blank lines kept", "a\n\nb\n\n", []string{"a", "", "b", ""}},
		{"only newline", "\n", []string{""}},
		{"form feed stays in line", "a\fb\nc", []string{"a\fb", "c"}},
		{"unicode separators stay in line", "a\u2028b\x85c\vd", []string{"a\u2028b\x85c\vd"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitLines(tt.in))
		})
	}
}
