package coding_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-mimeframe/message/coding"
)

func TestQuotedPrintableDecoder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "hello world", "hello world"},
		{"escapes", "caf=C3=A9 =3D equals", "café = equals"},
		{"lower hex", "=c3=a9", "é"},
		{"soft break crlf", "long=\r\nline", "longline"},
		{"soft break lf", "long=\nline", "longline"},
		{"soft break padded", "long=  \t\r\nline", "longline"},
		{"hard breaks kept", "a\r\nb", "a\r\nb"},
		{"malformed escape", "=4G and =XY", "=4G and =XY"},
		{"lone cr after equals", "a=\rb", "a=\rb"},
		{"trailing equals", "end=", "end"},
		{"trailing half escape", "end=4", "end=4"},
		{"double equals", "==41", "=A"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			for size := 1; size <= len(tt.input); size++ {
				c := &collector{}
				require.NoError(t, feed(t, coding.NewQuotedPrintableDecoder(c), []byte(tt.input), size))
				assert.Equal(t, tt.want, c.String(), "size %d", size)
				assert.Equal(t, 1, c.ends)
			}
		})
	}
}

func TestNewQuotedPrintableEncoder(t *testing.T) {
	t.Parallel()

	c := &collector{}
	w := coding.NewQuotedPrintableEncoder(c)
	_, err := w.Write([]byte("café = equals"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.Equal(t, "caf=C3=A9 =3D equals", c.String())
}
