package encoding_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zostay/go-mimeframe/message/header/encoding"
	"github.com/zostay/go-mimeframe/message/header/field"
)

// Εν αρχη ην ο Λογος in iso-8859-7.
var greekText = []byte{
	0xc5, 0xed, 0x20, 0xe1, 0xf1, 0xf7, 0xe7, 0x20, 0xe7, 0xed, 0x20, 0xef,
	0x20, 0xcb, 0xef, 0xe3, 0xef, 0xf2,
}

const unicodeText = "Εν αρχη ην ο Λογος"

func TestCharsetDecoder(t *testing.T) {
	t.Parallel()

	dec, err := encoding.CharsetDecoder("greek", greekText)
	assert.NoError(t, err)
	assert.Equal(t, unicodeText, dec)

	_, err = encoding.CharsetDecoder("no-such-charset", greekText)
	assert.Error(t, err)
}

func TestCharsetEncoder(t *testing.T) {
	t.Parallel()

	enc, err := encoding.CharsetEncoder("iso-8859-7", unicodeText)
	assert.NoError(t, err)
	assert.Equal(t, greekText, enc)
}

func TestDecodeWordsWithLoadedCharsets(t *testing.T) {
	t.Parallel()

	// =?iso-8859-7?q?...?= is not known to the default decoder
	dec, err := field.DecodeWords("=?iso-8859-7?q?=CB=EF=E3=EF=F2?=")
	assert.NoError(t, err)
	assert.Equal(t, "Λογος", dec)
}
