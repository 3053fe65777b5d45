package coding_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-mimeframe/message/coding"
)

func TestBase64Decoder(t *testing.T) {
	t.Parallel()

	for size := 1; size <= len(enc); size++ {
		c := &collector{}
		require.NoError(t, feed(t, coding.NewBase64Decoder(c), []byte(enc), size), "size %d", size)
		assert.Equal(t, dec, c.String(), "size %d", size)
		assert.Equal(t, 1, c.ends)
	}
}

func TestBase64Decoder_Tails(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
		err   bool
	}{
		{"padded one", "QQ==", "A", false},
		{"padded two", "QUI=", "AB", false},
		{"unpadded one", "QQ", "A", false},
		{"unpadded two", "QUI", "AB", false},
		{"half padded", "QQ=", "A", false},
		{"whitespace", " Q U\tJ D\r\n", "ABC", false},
		{"empty", "", "", false},
		{"dangling", "QUJDR", "", true},
		{"bad alphabet", "QU*D", "", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := &collector{}
			err := feed(t, coding.NewBase64Decoder(c), []byte(tt.input), 1)
			if tt.err {
				assert.ErrorIs(t, err, coding.ErrCorruptBase64)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.String())
		})
	}
}

func TestNewBase64Encoder(t *testing.T) {
	t.Parallel()

	c := &collector{}
	w := coding.NewBase64Encoder(c)
	n, err := w.Write([]byte(dec))
	assert.Equal(t, len(dec), n)
	assert.NoError(t, err)
	require.NoError(t, w.Close())

	assert.Equal(t, enc, c.String())
}
