package converter

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/ginjaninja78/DCIR-bar-rewriter/internal/config"
	"golang.org/x/text/encoding/charmap"
)

// ErrUndecodable is returned when the input bytes are not valid text in the
// configured encoding.
var ErrUndecodable = errors.New("input is not valid text")

// Decode converts raw file content to a string.
//
// PARAMETERS:
//   - data: The raw bytes of the file.
//   - encoding: One of the encodings accepted by config.NormalizeEncoding.
//
// RETURNS:
//   - The decoded text.
//   - An error wrapping ErrUndecodable if UTF-8 input is malformed. No partial
//     text is returned.
func Decode(data []byte, encoding string) (string, error) {
	enc, err := config.NormalizeEncoding(encoding)
	if err != nil {
		return "", err
	}

	switch enc {
	case config.EncodingISO88591:
		out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrUndecodable, err)
		}
		return string(out), nil

	case config.EncodingWindows1252:
		out, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrUndecodable, err)
		}
		return string(out), nil
	}

	if offset := invalidUTF8Offset(data); offset >= 0 {
		return "", fmt.Errorf("%w: invalid UTF-8 byte 0x%02x at offset %d", ErrUndecodable, data[offset], offset)
	}
	return string(data), nil
}

// Encode converts text back to the configured encoding.
func Encode(text, encoding string) ([]byte, error) {
	enc, err := config.NormalizeEncoding(encoding)
	if err != nil {
		return nil, err
	}

	switch enc {
	case config.EncodingISO88591:
		return charmap.ISO8859_1.NewEncoder().Bytes([]byte(text))
	case config.EncodingWindows1252:
		return charmap.Windows1252.NewEncoder().Bytes([]byte(text))
	}
	return []byte(text), nil
}

// invalidUTF8Offset returns the offset of the first invalid byte, or -1.
func invalidUTF8Offset(data []byte) int {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}
