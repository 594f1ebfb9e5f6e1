package dcir

import "strings"

// SplitLines breaks text into lines. "\n", "\r\n" and a lone "\r" all end a
// line; the terminator is not part of the line. A trailing terminator does not
// produce an extra empty line, and empty text has no lines.
func SplitLines(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			lines = append(lines, text[start:i])
			start = i + 1
		case '\r':
			lines = append(lines, text[start:i])
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}

// JoinLines is the inverse used for output: lines joined by a single "\n" with
// no trailing newline.
func JoinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
