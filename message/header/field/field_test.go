package field_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-mimeframe/message/header/field"
)

type stringer string

func (s stringer) String() string { return string(s) }

func TestNew(t *testing.T) {
	t.Parallel()

	f, err := field.New("Content-Type", "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "Content-Type", f.Name())
	assert.Equal(t, "content-type", f.Key())
	assert.Equal(t, "Content-Type: text/plain", f.String())

	_, err = field.New("", "x")
	assert.ErrorIs(t, err, field.ErrEmptyName)

	_, err = field.NewParsed("", stringer("x"))
	assert.ErrorIs(t, err, field.ErrEmptyName)
}

func TestField_RawOrParsed(t *testing.T) {
	t.Parallel()

	f, err := field.New("X-Test", "raw")
	require.NoError(t, err)
	assert.Nil(t, f.Parsed())
	assert.Equal(t, "raw", f.Body())

	f.SetParsed(stringer("parsed"))
	assert.Equal(t, stringer("parsed"), f.Parsed())
	assert.Equal(t, "parsed", f.Body())

	f.SetBody("raw again")
	assert.Nil(t, f.Parsed())
	assert.Equal(t, "raw again", f.Body())
}

func TestParseLines(t *testing.T) {
	t.Parallel()

	lb := []byte("\n")
	lines, err := field.ParseLines([]byte("a:b\n b\n b\nb:\nc:\nd:\n\teeee\n"), lb)
	assert.NoError(t, err)
	assert.Equal(t, field.Lines{
		[]byte("a:b\n b\n b\n"),
		[]byte("b:\n"),
		[]byte("c:\n"),
		[]byte("d:\n\teeee\n"),
	}, lines)

	lines, err = field.ParseLines([]byte(" start:\njunk\na:b\n"), lb)
	var badStart *field.BadStartError
	assert.ErrorAs(t, err, &badStart)
	assert.Equal(t, []byte(" start:\njunk\n"), badStart.BadStart)
	assert.Equal(t, field.Lines{[]byte("a:b\n")}, lines)
}

func TestParse(t *testing.T) {
	t.Parallel()

	f, err := field.Parse([]byte("Subject: test\r\n"))
	require.NoError(t, err)
	assert.Equal(t, "Subject", f.Name())
	assert.Equal(t, "test", f.Body())

	f, err = field.Parse([]byte("Content-Type: multipart/mixed;\r\n boundary=abc\r\n"))
	require.NoError(t, err)
	assert.Equal(t, "multipart/mixed; boundary=abc", f.Body())

	f, err = field.Parse([]byte("Subject"))
	require.NoError(t, err)
	assert.Equal(t, "Subject", f.Name())
	assert.Equal(t, "", f.Body())

	_, err = field.Parse([]byte(": nameless\r\n"))
	assert.ErrorIs(t, err, field.ErrEmptyName)
}
