package transport

import (
	"context"
	"errors"
	"io"

	"github.com/zostay/go-mimeframe/message/transfer"
)

// ErrStalled is returned by Pump when a consumer that is not done accepts
// none of the bytes offered to it.
var ErrStalled = errors.New("consumer stopped accepting bytes")

// Consumer takes in buffers until it has everything it needs. A
// transfer.Receiver is a Consumer.
type Consumer interface {
	// Consume processes bytes from the front of p and reports how many it
	// used.
	Consume(ctx context.Context, p []byte) (int, error)

	// Done returns true once the consumer needs no more bytes.
	Done() bool
}

// Pump feeds buffers from src into c until c is done. It returns a copy of
// the bytes of the last buffer that c did not use.
//
// The consumer is first offered an empty buffer so that a body that needs no
// bytes finishes without touching the source. If the source ends before the
// consumer is done, the error is a *transfer.FramingError wrapping
// transfer.ErrUnexpectedEOF.
func Pump(ctx context.Context, src Source, c Consumer) ([]byte, error) {
	if _, err := c.Consume(ctx, nil); err != nil {
		return nil, err
	}

	var total int64
	for !c.Done() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p, err := src.Next(ctx)
		for len(p) > 0 && !c.Done() {
			n, cerr := c.Consume(ctx, p)
			total += int64(n)
			if cerr != nil {
				return nil, cerr
			}
			if n == 0 && !c.Done() {
				return nil, ErrStalled
			}
			p = p[n:]
		}

		if c.Done() {
			if len(p) == 0 {
				return nil, nil
			}
			return append([]byte(nil), p...), nil
		}

		switch {
		case errors.Is(err, io.EOF):
			return nil, &transfer.FramingError{Offset: total, Err: transfer.ErrUnexpectedEOF}
		case err != nil:
			return nil, err
		}
	}

	return nil, nil
}
