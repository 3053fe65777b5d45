package transport_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-mimeframe/message/coding"
	"github.com/zostay/go-mimeframe/message/header"
	"github.com/zostay/go-mimeframe/message/transfer"
	"github.com/zostay/go-mimeframe/transport"
)

// stuck never accepts anything.
type stuck struct{}

func (stuck) Consume(context.Context, []byte) (int, error) { return 0, nil }
func (stuck) Done() bool                                   { return false }

// blockingSource never produces anything until its context ends.
type blockingSource struct{}

func (blockingSource) Next(ctx context.Context) ([]byte, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestPump_Identity(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	r := transfer.NewIdentity(5, coding.WriterSink(out))

	src := transport.FromSlices([]byte("hel"), []byte("lo wo"), []byte("rld"))
	rest, err := transport.Pump(context.Background(), src, r)
	require.NoError(t, err)

	assert.Equal(t, "hello", out.String())
	assert.Equal(t, []byte(" wo"), rest)

	next, err := src.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("rld"), next)
}

func TestPump_EmptyBody(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	r := transfer.NewIdentity(0, coding.WriterSink(out))

	rest, err := transport.Pump(context.Background(), blockingSource{}, r)
	require.NoError(t, err)
	assert.Empty(t, rest)
	assert.True(t, r.Done())
}

func TestPump_ChunkedBytewise(t *testing.T) {
	t.Parallel()

	wire := []byte("5\r\nhello\r\n6\r\n world\r\n0\r\n\r\nNEXT")

	out := &bytes.Buffer{}
	r := transfer.NewChunked(&header.Header{}, coding.WriterSink(out))

	src := transport.Bytewise(wire)
	rest, err := transport.Pump(context.Background(), src, r)
	require.NoError(t, err)
	assert.Empty(t, rest)
	assert.Equal(t, "hello world", out.String())

	next, err := src.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("N"), next)
}

func TestPump_UnexpectedEOF(t *testing.T) {
	t.Parallel()

	r := transfer.NewIdentity(10, coding.Discard)
	_, err := transport.Pump(context.Background(), transport.FromSlices([]byte("short")), r)

	var fe *transfer.FramingError
	require.True(t, errors.As(err, &fe))
	assert.ErrorIs(t, err, transfer.ErrUnexpectedEOF)
	assert.Equal(t, int64(5), fe.Offset)
}

func TestPump_Stalled(t *testing.T) {
	t.Parallel()

	_, err := transport.Pump(context.Background(), transport.FromSlices([]byte("x")), stuck{})
	assert.ErrorIs(t, err, transport.ErrStalled)
}

func TestStart(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	r := transfer.NewIdentity(3, coding.WriterSink(out))

	task := transport.Start(context.Background(), transport.FromSlices([]byte("abcd")), r)
	select {
	case <-task.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("task did not finish")
	}

	rest, err := task.Wait()
	require.NoError(t, err)
	assert.Equal(t, []byte("d"), rest)
	assert.Equal(t, "abc", out.String())
}

func TestStart_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	task := transport.Start(ctx, blockingSource{}, transfer.NewIdentity(3, coding.Discard))
	cancel()

	_, err := task.Wait()
	assert.ErrorIs(t, err, context.Canceled)
}
