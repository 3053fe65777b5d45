package field_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zostay/go-mimeframe/message/header/field"
)

func TestDecodeWords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, out string
	}{
		{"plain text", "plain text"},
		{"=?utf-8?b?4pmg4pmj4pml4pmm?=", "♠♣♥♦"},
		{"=?UTF-8?Q?caf=C3=A9?= au lait", "café au lait"},
		{"=?iso-8859-1?q?na=EFve?=", "naïve"},
		{"=?utf-8?q?a?= =?utf-8?q?b?=", "ab"},
		{"x =?utf-8?q?a?= y", "x a y"},
		{"=?not an encoded word", "=?not an encoded word"},
	}

	for _, tc := range tests {
		out, err := field.DecodeWords(tc.in)
		assert.NoError(t, err, tc.in)
		assert.Equal(t, tc.out, out, tc.in)
	}

	_, err := field.DecodeWords("=?utf-8?X?abc?=")
	assert.ErrorIs(t, err, field.ErrUnsupportedEncoding)
}

func TestEncode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "plain", field.Encode("plain"))

	enc := field.Encode("♠♣♥♦")
	assert.Equal(t, "=?utf-8?b?4pmg4pmj4pml4pmm?=", enc)

	dec, err := field.DecodeWords(enc)
	assert.NoError(t, err)
	assert.Equal(t, "♠♣♥♦", dec)

	assert.True(t, field.NeedsEncoding("tab\tok\x01"))
	assert.False(t, field.NeedsEncoding("tab\tok"))
}

func TestDefaultCharsetDecoder(t *testing.T) {
	t.Parallel()

	_, err := field.DefaultCharsetDecoder("greek", []byte{0xc5})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported byte encoding")

	dec, err := field.DefaultCharsetDecoder("iso-8859-1", []byte{0x6e, 0xef})
	assert.NoError(t, err)
	assert.Equal(t, "nï", dec)

	dec, err = field.DefaultCharsetDecoder("us-ascii", []byte{0x61, 0xff})
	assert.NoError(t, err)
	assert.Equal(t, "a\uFFFD", dec)

	enc, err := field.DefaultCharsetEncoder("us-ascii", "aé")
	assert.NoError(t, err)
	assert.Equal(t, []byte{0x61, 0x1a}, enc)
}
