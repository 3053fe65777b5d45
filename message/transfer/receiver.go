package transfer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/zostay/go-mimeframe/message/coding"
	"github.com/zostay/go-mimeframe/message/header"
)

// Receiver takes in the framed bytes of one body.
type Receiver interface {
	// IsExpectingData returns true until the end of the body has been seen.
	IsExpectingData() bool

	// Consume hands the receiver the next bytes from the stream. It returns
	// how many of them belonged to the body. Bytes past that count belong
	// to whatever follows the body. A nil or empty p is allowed and lets a
	// body that needs no bytes finish.
	Consume(ctx context.Context, p []byte) (int, error)

	// Done returns true once the body is complete and the end of data has
	// been passed down the coding chain.
	Done() bool
}

// Codings returns the codings that were applied to a body described by the
// header, in the order they were applied, leaving out the chunked framing.
// It also reports whether the body is chunked.
//
// The order is Content-Encoding, then Content-Transfer-Encoding, then the
// Transfer-Encoding codings before chunked. A Content-Transfer-Encoding on a
// multipart body is ignored because each part carries its own.
func Codings(h *header.Header) (names []string, chunked bool, err error) {
	ces, err := h.GetContentEncodings()
	if err != nil && !errors.Is(err, header.ErrNoSuchField) {
		return nil, false, err
	}
	names = append(names, ces...)

	cte, err := h.GetContentTransferEncoding()
	if err != nil && !errors.Is(err, header.ErrNoSuchField) {
		return nil, false, err
	}
	if cte != "" {
		if ct, err := h.GetContentType(); err != nil || ct.Type() != "multipart" {
			names = append(names, cte)
		}
	}

	tes, err := h.GetTransferEncodings()
	if err != nil && !errors.Is(err, header.ErrNoSuchField) {
		return nil, false, err
	}
	if len(tes) > 0 && tes[len(tes)-1] == coding.Chunked {
		tes = tes[:len(tes)-1]
		chunked = true
	}
	names = append(names, tes...)

	return names, chunked, nil
}

// NewReceiver selects the receiver for a body described by h and builds the
// decoder chain that delivers the decoded body to sink.
//
// If the last Transfer-Encoding coding is chunked, the result is a *Chunked
// receiver, which appends any trailers to h. Otherwise the result is an
// *Identity receiver, and NewReceiver fails with a *FramingError wrapping
// ErrMissingContentLength if there is no Content-Length.
func NewReceiver(h *header.Header, sink coding.Decoder, opts ...Option) (Receiver, error) {
	o := makeOptions(opts)

	names, chunked, err := Codings(h)
	if err != nil {
		return nil, err
	}

	dec, err := o.registry.Chain(names, sink)
	if err != nil {
		return nil, err
	}

	if chunked {
		o.logger.Debug("receiving chunked body",
			slog.Any("codings", names))
		return newChunked(h, dec, o), nil
	}

	length, err := h.GetContentLength()
	switch {
	case errors.Is(err, header.ErrNoSuchField):
		return nil, &FramingError{Err: ErrMissingContentLength}
	case err != nil:
		return nil, &FramingError{Err: fmt.Errorf("%w: %w", ErrInvalidContentLength, err)}
	}

	o.logger.Debug("receiving identity body",
		slog.Int64("length", length),
		slog.Any("codings", names))
	return NewIdentity(length, dec), nil
}
