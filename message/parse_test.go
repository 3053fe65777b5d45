package message_test

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-mimeframe/message"
	"github.com/zostay/go-mimeframe/message/transfer"
	"github.com/zostay/go-mimeframe/transport"
)

// bodyOf reads the whole body of a leaf part.
func bodyOf(t *testing.T, p message.Part) string {
	t.Helper()

	r := p.GetReader()
	if r == nil {
		return ""
	}
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(b)
}

func gzipped(t *testing.T, s string) []byte {
	t.Helper()

	buf := &bytes.Buffer{}
	zw := gzip.NewWriter(buf)
	_, err := io.WriteString(zw, s)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestReceive_Identity(t *testing.T) {
	t.Parallel()

	wire := "Content-Type: text/plain\r\nContent-Length: 5\r\n\r\nhelloNEXT"

	ent, rest, err := message.Receive(context.Background(), transport.FromSlices([]byte(wire)))
	require.NoError(t, err)
	assert.Equal(t, []byte("NEXT"), rest)

	require.IsType(t, &message.Opaque{}, ent)
	assert.Equal(t, "hello", bodyOf(t, ent))
}

func TestReceive_EmptyBody(t *testing.T) {
	t.Parallel()

	wire := "Content-Length: 0\r\n\r\n"

	ent, rest, err := message.Receive(context.Background(), transport.FromSlices([]byte(wire)))
	require.NoError(t, err)
	assert.Empty(t, rest)
	assert.NotNil(t, ent.GetReader())
	assert.Equal(t, "", bodyOf(t, ent))
}

func TestReceive_ChunkedGzipWithTrailers(t *testing.T) {
	t.Parallel()

	gz := gzipped(t, "hello gzip world")
	wire := []byte("Content-Type: text/plain\r\n" +
		"Content-Encoding: gzip\r\n" +
		"Transfer-Encoding: chunked\r\n" +
		"\r\n")
	wire = append(wire, fmt.Sprintf("%x\r\n", len(gz))...)
	wire = append(wire, gz...)
	wire = append(wire, "\r\n0\r\nX-Checksum: abc\r\n\r\n"...)

	for name, src := range map[string]func() transport.Source{
		"whole":    func() transport.Source { return transport.FromSlices(wire) },
		"bytewise": func() transport.Source { return transport.Bytewise(wire) },
	} {
		src := src
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ent, rest, err := message.Receive(context.Background(), src())
			require.NoError(t, err)
			assert.Empty(t, rest)
			assert.Equal(t, "hello gzip world", bodyOf(t, ent))

			sum, err := ent.GetHeader().Get("X-Checksum")
			require.NoError(t, err)
			assert.Equal(t, "abc", sum)
		})
	}
}

func TestReceive_MissingContentLength(t *testing.T) {
	t.Parallel()

	wire := "Content-Type: text/plain\r\n\r\nhello"

	_, _, err := message.Receive(context.Background(), transport.FromSlices([]byte(wire)))
	assert.ErrorIs(t, err, transfer.ErrMissingContentLength)

	var fe *transfer.FramingError
	assert.True(t, errors.As(err, &fe))
}

func TestReceive_ShortBody(t *testing.T) {
	t.Parallel()

	wire := "Content-Length: 10\r\n\r\nhello"

	_, _, err := message.Receive(context.Background(), transport.FromSlices([]byte(wire)))
	assert.ErrorIs(t, err, transfer.ErrUnexpectedEOF)
}

func TestReceive_TruncatedHeader(t *testing.T) {
	t.Parallel()

	wire := "Content-Type: text/plain\r\nContent-Len"

	_, _, err := message.Receive(context.Background(), transport.FromSlices([]byte(wire)))
	assert.ErrorIs(t, err, message.ErrTruncatedHeader)
}

func TestReceive_LargeHeader(t *testing.T) {
	t.Parallel()

	wire := "Content-Type: text/plain\r\nContent-Length: 0\r\n\r\n"

	_, _, err := message.Receive(context.Background(),
		transport.Bytewise([]byte(wire)),
		message.WithMaxHeaderLength(10))
	assert.ErrorIs(t, err, message.ErrLargeHeader)
}

func TestReceive_Form(t *testing.T) {
	t.Parallel()

	body := "a=1&b=hello+world&a=2"
	wire := fmt.Sprintf("Content-Type: application/x-www-form-urlencoded\r\nContent-Length: %d\r\n\r\n%s",
		len(body), body)

	ent, _, err := message.Receive(context.Background(), transport.FromSlices([]byte(wire)))
	require.NoError(t, err)

	form, isForm := ent.(*message.Form)
	require.True(t, isForm)

	vs := form.Values()
	require.Len(t, vs, 3)
	assert.Equal(t, "a", vs[0].Name)
	assert.Equal(t, "1", vs[0].Value)
	assert.Equal(t, "hello world", vs[1].Value)
	assert.Equal(t, "2", vs[2].Value)

	v, ok := form.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	_, ok = form.Lookup("missing")
	assert.False(t, ok)
}

func TestReceive_BadForm(t *testing.T) {
	t.Parallel()

	body := "a=%zz"
	wire := fmt.Sprintf("Content-Type: application/x-www-form-urlencoded\r\nContent-Length: %d\r\n\r\n%s",
		len(body), body)

	_, _, err := message.Receive(context.Background(), transport.FromSlices([]byte(wire)))
	assert.ErrorIs(t, err, message.ErrBadForm)
}

func TestReceive_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := message.Receive(ctx, transport.FromReader(strings.NewReader("Content-Length: 0\r\n\r\n"), 0))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParse_ToEndOfStream(t *testing.T) {
	t.Parallel()

	msg := "Subject: hi\r\n" +
		"Content-Type: text/plain\r\n" +
		"Content-Transfer-Encoding: base64\r\n" +
		"\r\n" +
		"aGVs\r\nbG8=\r\n"

	ent, err := message.Parse(context.Background(), strings.NewReader(msg), message.WithChunkSize(3))
	require.NoError(t, err)

	subj, err := ent.GetHeader().Get("Subject")
	require.NoError(t, err)
	assert.Equal(t, "hi", subj)
	assert.Equal(t, "hello", bodyOf(t, ent))
}

func TestParse_AllHeader(t *testing.T) {
	t.Parallel()

	ent, err := message.Parse(context.Background(), strings.NewReader("Subject: only a header\r\n"))
	require.NoError(t, err)

	subj, err := ent.GetHeader().Get("Subject")
	require.NoError(t, err)
	assert.Equal(t, "only a header", subj)
	assert.Equal(t, "", bodyOf(t, ent))
}

func TestParse_LFHeaderCRLFBody(t *testing.T) {
	t.Parallel()

	msg := "Subject: mixed\n" +
		"\n" +
		"line one\r\n\r\nline two"

	ent, err := message.Parse(context.Background(), strings.NewReader(msg))
	require.NoError(t, err)

	subj, err := ent.GetHeader().Get("Subject")
	require.NoError(t, err)
	assert.Equal(t, "mixed", subj)
	assert.Equal(t, 1, ent.GetHeader().Len())
	assert.Equal(t, "line one\r\n\r\nline two", bodyOf(t, ent))
}

func TestParse_BareLF(t *testing.T) {
	t.Parallel()

	msg := "Content-Type: multipart/mixed; boundary=b\n" +
		"\n" +
		"--b\n" +
		"Content-Type: text/plain\n" +
		"\n" +
		"one\n" +
		"--b\n" +
		"\n" +
		"two\n" +
		"--b--\n"

	ent, err := message.Parse(context.Background(), strings.NewReader(msg))
	require.NoError(t, err)

	parts := ent.GetParts()
	require.Len(t, parts, 2)
	assert.Equal(t, "one", bodyOf(t, parts[0]))
	assert.Equal(t, "two", bodyOf(t, parts[1]))
}
