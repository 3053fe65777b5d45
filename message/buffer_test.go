package message_test

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-mimeframe/message"
)

const expectMultipart = "Subject: test multipart\r\n" +
	"Content-Type: multipart/alternative; boundary=testing\r\n" +
	"\r\n" +
	"--testing\r\n" +
	"Content-Type: text/html\r\n" +
	"\r\n" +
	"Test message.\r\n" +
	"--testing--\r\n"

func makePart() *message.Opaque {
	op := &message.Opaque{
		Reader: strings.NewReader("Test message."),
	}
	op.SetMediaType("text/html")
	return op
}

func makeSimple(t *testing.T) (*message.Buffer, string) {
	t.Helper()

	buf := &message.Buffer{}
	require.NoError(t, buf.Set("Subject", "test simple"))
	buf.SetMediaType("text/plain")

	_, err := fmt.Fprintln(buf, "This is a simple message.")
	require.NoError(t, err)

	return buf, "Subject: test simple\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"This is a simple message.\n"
}

func makeMultipartHeader(t *testing.T) *message.Buffer {
	t.Helper()

	buf := &message.Buffer{}
	require.NoError(t, buf.Set("Subject", "test multipart"))
	buf.SetMediaType("multipart/alternative")
	require.NoError(t, buf.SetBoundary("testing"))
	return buf
}

func makeMultipart(t *testing.T) *message.Buffer {
	t.Helper()

	buf := makeMultipartHeader(t)
	require.NoError(t, buf.Add(makePart()))
	return buf
}

func makeOpaqueMultipart(t *testing.T) *message.Buffer {
	t.Helper()

	buf := makeMultipartHeader(t)
	_, err := io.WriteString(buf, "--testing\r\n")
	require.NoError(t, err)
	_, err = makePart().WriteTo(buf)
	require.NoError(t, err)
	_, err = io.WriteString(buf, "\r\n--testing--")
	require.NoError(t, err)
	return buf
}

func TestBuffer_Add(t *testing.T) {
	t.Parallel()

	buf := makeMultipartHeader(t)
	assert.Equal(t, message.ModeUnset, buf.Mode())

	require.NoError(t, buf.Add(makePart()))
	assert.Equal(t, message.ModeMultipart, buf.Mode())

	_, err := buf.Write([]byte("x"))
	assert.ErrorIs(t, err, message.ErrPartsBuffer)
	assert.ErrorIs(t, buf.SetSingle(), message.ErrPartsBuffer)

	m, err := buf.Multipart()
	require.NoError(t, err)

	out := &bytes.Buffer{}
	n, err := m.WriteTo(out)
	require.NoError(t, err)
	assert.Equal(t, int64(len(expectMultipart)), n)
	assert.Equal(t, expectMultipart, out.String())
}

func TestBuffer_Write(t *testing.T) {
	t.Parallel()

	buf, expect := makeSimple(t)
	assert.Equal(t, message.ModeSingle, buf.Mode())

	assert.ErrorIs(t, buf.Add(makePart()), message.ErrOpaqueBuffer)
	assert.ErrorIs(t, buf.SetMultipart(2), message.ErrOpaqueBuffer)

	m := buf.Opaque()

	out := &bytes.Buffer{}
	n, err := m.WriteTo(out)
	require.NoError(t, err)
	assert.Equal(t, int64(len(expect)), n)
	assert.Equal(t, expect, out.String())
}

func TestBuffer_Write_Encodes(t *testing.T) {
	t.Parallel()

	buf := &message.Buffer{}
	buf.SetMediaType("text/plain")
	buf.SetContentTransferEncoding("base64")
	_, err := io.WriteString(buf, "hello world")
	require.NoError(t, err)

	out := &bytes.Buffer{}
	_, err = buf.Opaque().WriteTo(out)
	require.NoError(t, err)
	assert.Equal(t, "Content-Type: text/plain\r\n"+
		"Content-Transfer-Encoding: base64\r\n"+
		"\r\n"+
		"aGVsbG8gd29ybGQ=\r\n", out.String())
}

func TestBuffer_OpaqueAlreadyEncoded(t *testing.T) {
	t.Parallel()

	buf := &message.Buffer{}
	buf.SetContentTransferEncoding("base64")
	_, err := io.WriteString(buf, "aGk=")
	require.NoError(t, err)

	m := buf.OpaqueAlreadyEncoded()
	assert.True(t, m.IsEncoded())

	out := &bytes.Buffer{}
	_, err = m.WriteTo(out)
	require.NoError(t, err)
	assert.Equal(t, "Content-Transfer-Encoding: base64\r\n\r\naGk=", out.String())
}

func TestBuffer_Unset(t *testing.T) {
	t.Parallel()

	assert.PanicsWithValue(t, message.ErrModeUnset, func() {
		(&message.Buffer{}).Opaque()
	})
	assert.PanicsWithValue(t, message.ErrModeUnset, func() {
		_, _ = (&message.Buffer{}).Multipart()
	})
}

func TestBuffer_Opaque_FromSimple(t *testing.T) {
	t.Parallel()

	s, expect := makeSimple(t)
	m := s.Opaque()

	subj, err := m.Get("Subject")
	require.NoError(t, err)
	assert.Equal(t, "test simple", subj)

	mt, err := m.GetMediaType()
	require.NoError(t, err)
	assert.Equal(t, "text/plain", mt)

	assert.False(t, m.IsMultipart())
	assert.Nil(t, m.GetParts())
	assert.NotNil(t, m.GetReader())

	buf := &bytes.Buffer{}
	n, err := m.WriteTo(buf)
	require.NoError(t, err)
	assert.Equal(t, int64(len(expect)), n)
	assert.Equal(t, expect, buf.String())
}

func TestBuffer_Opaque_FromMultipart(t *testing.T) {
	t.Parallel()

	m := makeMultipart(t).Opaque()

	mt, err := m.GetMediaType()
	require.NoError(t, err)
	assert.Equal(t, "multipart/alternative", mt)

	// built from parts, but returned opaque
	assert.False(t, m.IsMultipart())
	assert.Nil(t, m.GetParts())

	buf := &bytes.Buffer{}
	n, err := m.WriteTo(buf)
	require.NoError(t, err)
	assert.Equal(t, int64(len(expectMultipart)), n)
	assert.Equal(t, expectMultipart, buf.String())
}

func TestBuffer_Opaque_GeneratesBoundary(t *testing.T) {
	t.Parallel()

	buf := &message.Buffer{}
	require.NoError(t, buf.Add(makePart()))

	m := buf.Opaque()

	mt, err := m.GetMediaType()
	require.NoError(t, err)
	assert.Equal(t, message.DefaultMultipartContentType, mt)

	boundary, err := m.GetBoundary()
	require.NoError(t, err)
	assert.NotEmpty(t, boundary)

	body, err := io.ReadAll(m.GetReader())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "--"+boundary+"\r\n"))
	assert.True(t, strings.HasSuffix(string(body), "--"+boundary+"--\r\n"))
}

func TestBuffer_Multipart_FromSimple(t *testing.T) {
	t.Parallel()

	s, _ := makeSimple(t)
	_, err := s.Multipart()
	assert.ErrorIs(t, err, message.ErrParsesAsNotMultipart)
}

func TestBuffer_Multipart_FromMultipart(t *testing.T) {
	t.Parallel()

	m, err := makeMultipart(t).Multipart()
	require.NoError(t, err)

	assert.True(t, m.IsMultipart())
	assert.Len(t, m.GetParts(), 1)
	assert.Nil(t, m.GetReader())

	buf := &bytes.Buffer{}
	n, err := m.WriteTo(buf)
	require.NoError(t, err)
	assert.Equal(t, int64(len(expectMultipart)), n)
	assert.Equal(t, expectMultipart, buf.String())
}

func TestBuffer_Multipart_FromOpaqueMultipart(t *testing.T) {
	t.Parallel()

	m, err := makeOpaqueMultipart(t).Multipart()
	require.NoError(t, err)

	subj, err := m.Get("Subject")
	require.NoError(t, err)
	assert.Equal(t, "test multipart", subj)

	assert.True(t, m.IsMultipart())
	require.Len(t, m.GetParts(), 1)

	mt, err := m.GetParts()[0].GetHeader().GetMediaType()
	require.NoError(t, err)
	assert.Equal(t, "text/html", mt)

	buf := &bytes.Buffer{}
	n, err := m.WriteTo(buf)
	require.NoError(t, err)
	assert.Equal(t, int64(len(expectMultipart)), n)
	assert.Equal(t, expectMultipart, buf.String())
}

func TestBuffer_Multipart_Truncated(t *testing.T) {
	t.Parallel()

	buf := makeMultipartHeader(t)
	_, err := io.WriteString(buf, "--testing\r\nContent-Type: text/plain\r\n\r\nno end")
	require.NoError(t, err)

	_, err = buf.Multipart()
	assert.ErrorIs(t, err, message.ErrTruncatedMultipart)
}
