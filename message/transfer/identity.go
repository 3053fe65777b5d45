package transfer

import (
	"context"

	"github.com/zostay/go-mimeframe/message/coding"
)

// Identity receives a body of known length. It never consumes more than
// that length and passes the end of data down the chain exactly once.
type Identity struct {
	dec       coding.Decoder
	remaining int64
	done      bool
	err       error
}

// NewIdentity returns a receiver for a body of exactly length bytes.
func NewIdentity(length int64, dec coding.Decoder) *Identity {
	return &Identity{dec: dec, remaining: length}
}

// IsExpectingData returns false for a zero length body, and otherwise true
// until length bytes have been consumed. Done still waits for Consume.
func (r *Identity) IsExpectingData() bool {
	return !r.done && r.remaining > 0
}

// Done returns true once the body is complete.
func (r *Identity) Done() bool {
	return r.done
}

// Remaining returns the number of body bytes still expected.
func (r *Identity) Remaining() int64 {
	return r.remaining
}

// Consume passes up to the remaining number of bytes of p down the chain.
func (r *Identity) Consume(ctx context.Context, p []byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	if r.done {
		return 0, nil
	}

	n := len(p)
	if int64(n) > r.remaining {
		n = int(r.remaining)
	}

	if n > 0 {
		if err := r.dec.Decode(ctx, p[:n]); err != nil {
			r.err = err
			return n, err
		}
		r.remaining -= int64(n)
	}

	if r.remaining == 0 {
		r.done = true
		if err := r.dec.EndOfData(ctx); err != nil {
			r.err = err
			return n, err
		}
	}

	return n, nil
}
