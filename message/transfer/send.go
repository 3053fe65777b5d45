package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/zostay/go-mimeframe/message/coding"
	"github.com/zostay/go-mimeframe/message/header"
)

// UnknownLength is the length to give Send when the body length is not
// known ahead of time.
const UnknownLength int64 = -1

// sendBufferSize is the largest chunk Send writes.
const sendBufferSize = 32 * 1024

type sendOptions struct {
	forceChunked bool
	trailers     func() *header.Header
}

// SendOption configures Send.
type SendOption func(*sendOptions)

// ForceChunked makes Send use the chunked transfer coding even when the
// length of a non-empty body is known.
func ForceChunked() SendOption {
	return func(o *sendOptions) {
		o.forceChunked = true
	}
}

// WithTrailers sets a function called after the last byte of a chunked
// body is written. The fields of the header it returns, if any, are sent as
// trailers.
func WithTrailers(fn func() *header.Header) SendOption {
	return func(o *sendOptions) {
		o.trailers = fn
	}
}

// Send writes h followed by body to w, framing the body so a Receiver can
// find its end.
//
// A length of 0 sends the header alone with Content-Length: 0. A known
// length sends the body as-is after setting Content-Length, unless
// ForceChunked is given. An UnknownLength (or any negative length), or a
// forced chunking, sends the body chunked after adding chunked to the end
// of Transfer-Encoding and removing any Content-Length.
//
// The header is modified to describe the framing used.
func Send(
	ctx context.Context,
	w io.Writer,
	h *header.Header,
	body io.Reader,
	length int64,
	opts ...SendOption,
) error {
	o := &sendOptions{}
	for _, opt := range opts {
		opt(o)
	}

	if length == 0 || (length > 0 && !o.forceChunked) {
		h.Delete(header.TransferEncoding)
		h.SetContentLength(length)
		if _, err := h.WriteTo(w); err != nil {
			return err
		}

		if length == 0 {
			return nil
		}

		n, err := copyContext(ctx, w, io.LimitReader(body, length))
		if err != nil {
			return err
		}
		if n < length {
			return fmt.Errorf("body ended after %d of %d bytes: %w", n, length, io.ErrUnexpectedEOF)
		}
		return nil
	}

	tes, err := h.GetTransferEncodings()
	if err != nil && !errors.Is(err, header.ErrNoSuchField) {
		return err
	}
	codings := make([]string, 0, len(tes)+1)
	for _, te := range tes {
		if te != coding.Chunked {
			codings = append(codings, te)
		}
	}
	h.Delete(header.ContentLength)
	h.SetTransferEncodings(append(codings, coding.Chunked)...)

	if _, err := h.WriteTo(w); err != nil {
		return err
	}

	cw := NewChunkedWriter(w)
	if _, err := copyContext(ctx, cw, body); err != nil {
		return err
	}

	var trailers *header.Header
	if o.trailers != nil {
		trailers = o.trailers()
	}
	return cw.CloseWithTrailers(trailers)
}

// copyContext is io.Copy with a check for cancellation between writes.
func copyContext(ctx context.Context, w io.Writer, r io.Reader) (int64, error) {
	buf := make([]byte, sendBufferSize)
	total := int64(0)
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		n, err := r.Read(buf)
		if n > 0 {
			wn, werr := w.Write(buf[:n])
			total += int64(wn)
			if werr != nil {
				return total, werr
			}
		}

		if errors.Is(err, io.EOF) {
			return total, nil
		} else if err != nil {
			return total, err
		}
	}
}

// ChunkedWriter writes each buffer given to Write as one chunk.
type ChunkedWriter struct {
	w      io.Writer
	closed bool
}

// NewChunkedWriter returns a ChunkedWriter writing to w.
func NewChunkedWriter(w io.Writer) *ChunkedWriter {
	return &ChunkedWriter{w: w}
}

// Write writes p as a single chunk. An empty p writes nothing, since a zero
// length chunk ends the body.
func (cw *ChunkedWriter) Write(p []byte) (int, error) {
	if cw.closed {
		return 0, io.ErrClosedPipe
	}
	if len(p) == 0 {
		return 0, nil
	}

	if _, err := io.WriteString(cw.w, strconv.FormatInt(int64(len(p)), 16)+"\r\n"); err != nil {
		return 0, err
	}

	n, err := cw.w.Write(p)
	if err != nil {
		return n, err
	}

	if _, err := io.WriteString(cw.w, "\r\n"); err != nil {
		return n, err
	}
	return n, nil
}

// Close writes the final zero-length chunk with no trailers.
func (cw *ChunkedWriter) Close() error {
	return cw.CloseWithTrailers(nil)
}

// CloseWithTrailers writes the final zero-length chunk, the fields of h as
// trailers, and the blank line ending the body. A nil h sends no trailers.
func (cw *ChunkedWriter) CloseWithTrailers(h *header.Header) error {
	if cw.closed {
		return nil
	}
	cw.closed = true

	if _, err := io.WriteString(cw.w, "0\r\n"); err != nil {
		return err
	}

	if h != nil {
		for _, f := range h.Fields() {
			if _, err := io.WriteString(cw.w, f.String()+"\r\n"); err != nil {
				return err
			}
		}
	}

	_, err := io.WriteString(cw.w, "\r\n")
	return err
}
