package transport

import (
	"context"
	"io"
)

// DefaultBufferSize is the read size used by FromReader when no other size
// is given.
const DefaultBufferSize = 32 * 1024

// Source produces the bytes of a stream one buffer at a time.
type Source interface {
	// Next returns the next buffer. The buffer is only valid until the next
	// call to Next. At the end of the stream it returns io.EOF, possibly
	// along with a final buffer.
	Next(ctx context.Context) ([]byte, error)
}

type readerSource struct {
	r   io.Reader
	buf []byte
	err error
}

// FromReader returns a Source that reads r in pieces of up to size bytes. A
// size of zero or less means DefaultBufferSize.
func FromReader(r io.Reader, size int) Source {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &readerSource{r: r, buf: make([]byte, size)}
}

// Next reads the next buffer from the reader. An error that arrives with
// data is held back until the following call.
func (s *readerSource) Next(ctx context.Context) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for {
		n, err := s.r.Read(s.buf)
		if n > 0 {
			s.err = err
			return s.buf[:n], nil
		}
		if err != nil {
			s.err = err
			return nil, err
		}
	}
}

type sliceSource struct {
	bufs [][]byte
}

// FromSlices returns a Source that yields each of bufs in turn and then
// io.EOF. Empty slices are skipped.
func FromSlices(bufs ...[]byte) Source {
	return &sliceSource{bufs: bufs}
}

func (s *sliceSource) Next(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for len(s.bufs) > 0 {
		b := s.bufs[0]
		s.bufs = s.bufs[1:]
		if len(b) > 0 {
			return b, nil
		}
	}
	return nil, io.EOF
}

// Bytewise returns a Source that yields b one byte at a time.
func Bytewise(b []byte) Source {
	bufs := make([][]byte, len(b))
	for i := range b {
		bufs[i] = b[i : i+1]
	}
	return &sliceSource{bufs: bufs}
}

type prependSource struct {
	head []byte
	src  Source
}

// Prepend returns a Source that yields head before anything from src. This
// is how bytes read past the end of a header block are given back to the
// body.
func Prepend(head []byte, src Source) Source {
	if len(head) == 0 {
		return src
	}
	return &prependSource{head: head, src: src}
}

func (s *prependSource) Next(ctx context.Context) ([]byte, error) {
	if s.head != nil {
		b := s.head
		s.head = nil
		return b, nil
	}
	return s.src.Next(ctx)
}
