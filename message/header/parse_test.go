package header_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-mimeframe/message/header"
	"github.com/zostay/go-mimeframe/message/header/field"
)

func TestParse(t *testing.T) {
	t.Parallel()

	h, err := header.Parse([]byte(
		"Content-Type: multipart/mixed;\r\n"+
			"\tboundary=abc\r\n"+
			"Subject:   =?utf-8?q?hi?=  \r\n"+
			"\r\n"), header.CRLF)
	require.NoError(t, err)
	assert.Equal(t, 2, h.Len())

	b, err := h.GetBoundary()
	require.NoError(t, err)
	assert.Equal(t, "abc", b)

	s, err := h.Get("subject")
	require.NoError(t, err)
	assert.Equal(t, "=?utf-8?q?hi?=", s)
}

func TestParse_DetectsBreak(t *testing.T) {
	t.Parallel()

	h, err := header.Parse([]byte("A: 1\nB: 2\n"), header.Meh)
	require.NoError(t, err)
	assert.Equal(t, header.LF, h.Break())
	assert.Equal(t, "A: 1\nB: 2\n\n", h.String())
}

func TestParse_BadStart(t *testing.T) {
	t.Parallel()

	h, err := header.Parse([]byte("junk\r\nA: 1\r\n"), header.CRLF)
	var bse *field.BadStartError
	require.ErrorAs(t, err, &bse)
	assert.Equal(t, []byte("junk\r\n"), bse.BadStart)
	require.NotNil(t, h)
	assert.Equal(t, 1, h.Len())
}

func TestParse_EmptyName(t *testing.T) {
	t.Parallel()

	_, err := header.Parse([]byte(": nameless\r\n"), header.CRLF)
	assert.ErrorIs(t, err, field.ErrEmptyName)
}
