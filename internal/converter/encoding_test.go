package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	text, err := Decode([]byte("DCIR ok"), "UTF-8")
	require.NoError(t, err)
	assert.Equal(t, "DCIR ok", text)

	text, err = Decode([]byte("caf\xe9"), "latin1")
	require.NoError(t, err)
	assert.Equal(t, "café", text)

	text, err = Decode([]byte("\x80 euro"), "Windows-1252")
	require.NoError(t, err)
	assert.Equal(t, "€ euro", text)

	_, err = Decode([]byte("ok\xffno"), "")
	require.ErrorIs(t, err, ErrUndecodable)
	assert.Contains(t, err.Error(), "offset 2")

	_, err = Decode([]byte("x"), "EBCDIC")
	assert.Error(t, err)
}

func TestEncode(t *testing.T) {
	out, err := Encode("café", "ISO-8859-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("caf\xe9"), out)

	out, err = Encode("café", "UTF-8")
	require.NoError(t, err)
	assert.Equal(t, []byte("café"), out)
}
