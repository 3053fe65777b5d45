package coding_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-mimeframe/message/coding"
)

func TestRegistry_Lookup(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"", "7bit", "8BIT", "Binary", "identity", "base64", "Quoted-Printable", "gzip", "x-gzip"} {
		_, found := coding.DefaultRegistry.Lookup(name)
		assert.True(t, found, name)
	}

	_, found := coding.DefaultRegistry.Lookup("br")
	assert.False(t, found)
}

func TestRegistry_RoundTrip(t *testing.T) {
	t.Parallel()

	names := []string{coding.QuotedPrintable, coding.Base64, coding.Gzip}
	original := strings.Repeat("Grüße aus Köln = schön\r\n", 40) + "\x00\x01 binary tail"

	var wire bytes.Buffer
	w, err := coding.DefaultRegistry.EncodeChain(names, &wire)
	require.NoError(t, err)
	_, err = w.Write([]byte(original))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	for _, size := range []int{1, 13, wire.Len()} {
		c := &collector{}
		d, err := coding.DefaultRegistry.Chain(names, c)
		require.NoError(t, err)
		require.NoError(t, feed(t, d, wire.Bytes(), size))
		assert.Equal(t, original, c.String(), "size %d", size)
		assert.Equal(t, 1, c.ends)
	}
}

func TestRegistry_ChainOrder(t *testing.T) {
	t.Parallel()

	// base64 applied first, then quoted-printable
	c := &collector{}
	d, err := coding.DefaultRegistry.Chain([]string{"base64", "quoted-printable"}, c)
	require.NoError(t, err)
	require.NoError(t, feed(t, d, []byte("aGk=3D"), 2))
	assert.Equal(t, "hi", c.String())
}

func TestRegistry_Unknown(t *testing.T) {
	t.Parallel()

	c := &collector{}
	d, err := coding.DefaultRegistry.Chain([]string{"br"}, c)
	require.NoError(t, err)
	require.NoError(t, feed(t, d, []byte("raw"), 1))
	assert.Equal(t, "raw", c.String())

	strict := coding.NewDefaultRegistry(coding.Strict())
	assert.True(t, strict.IsStrict())
	_, err = strict.Chain([]string{"gzip", "br"}, c)
	assert.ErrorIs(t, err, coding.ErrUnsupportedCoding)

	_, err = strict.EncodeChain([]string{"br"}, &bytes.Buffer{})
	assert.ErrorIs(t, err, coding.ErrUnsupportedCoding)
}

func TestRegistry_Register(t *testing.T) {
	t.Parallel()

	r := coding.NewRegistry(coding.Strict())
	_, err := r.Chain([]string{"base64"}, coding.Discard)
	assert.ErrorIs(t, err, coding.ErrUnsupportedCoding)

	r.Register("Base64", coding.Transcoding{
		Decoder: coding.NewBase64Decoder,
		Encoder: coding.NewBase64Encoder,
	})

	c := &collector{}
	d, err := r.Chain([]string{"BASE64"}, c)
	require.NoError(t, err)
	require.NoError(t, feed(t, d, []byte("aGk="), 1))
	assert.Equal(t, "hi", c.String())
}

func TestNewAsIsEncoder(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := coding.NewAsIsEncoder(&buf)
	_, err := w.Write([]byte("\x80\x90\r\n\t"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.Equal(t, "\x80\x90\r\n\t", buf.String())
}
