package coding_test

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-mimeframe/message/coding"
)

func gzipped(t *testing.T, s string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := coding.NewGzipEncoder(&buf)
	_, err := w.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestGzipDecoder(t *testing.T) {
	t.Parallel()

	body := strings.Repeat(dec+"\n", 500)
	z := gzipped(t, body)

	for _, size := range []int{1, 7, 512, len(z)} {
		c := &collector{}
		require.NoError(t, feed(t, coding.NewGzipDecoder(c), z, size))
		assert.Equal(t, body, c.String(), "size %d", size)
		assert.Equal(t, 1, c.ends)
	}
}

func TestGzipDecoder_Concatenated(t *testing.T) {
	t.Parallel()

	z := append(gzipped(t, "first "), gzipped(t, "second")...)

	c := &collector{}
	require.NoError(t, feed(t, coding.NewGzipDecoder(c), z, 3))
	assert.Equal(t, "first second", c.String())
}

func TestGzipDecoder_Empty(t *testing.T) {
	t.Parallel()

	c := &collector{}
	require.NoError(t, feed(t, coding.NewGzipDecoder(c), nil, 1))
	assert.Equal(t, 1, c.ends)
}

func TestGzipDecoder_Truncated(t *testing.T) {
	t.Parallel()

	z := gzipped(t, dec)

	c := &collector{}
	err := feed(t, coding.NewGzipDecoder(c), z[:len(z)-4], 5)
	assert.Error(t, err)
	assert.Equal(t, 0, c.ends)
}

func TestGzipDecoder_NotGzip(t *testing.T) {
	t.Parallel()

	c := &collector{}
	err := feed(t, coding.NewGzipDecoder(c), []byte("this is not gzip data at all"), 4)
	assert.True(t, errors.Is(err, gzip.ErrHeader), "%v", err)
}

// failing is a sink that rejects everything.
type failing struct{}

var errSink = errors.New("sink failed")

func (failing) Decode(context.Context, []byte) error { return errSink }
func (failing) EndOfData(context.Context) error      { return nil }

func TestGzipDecoder_SinkError(t *testing.T) {
	t.Parallel()

	z := gzipped(t, dec)
	err := feed(t, coding.NewGzipDecoder(failing{}), z, 2)
	assert.ErrorIs(t, err, errSink)
}
