package coding

import (
	"context"
	"encoding/base64"
	"fmt"
)

type base64Decoder struct {
	next  Decoder
	quad  [4]byte
	n     int
	out   []byte
	total int64
}

// NewBase64Decoder returns a Decoder that decodes base64 text and passes the
// binary result to next. Whitespace and line breaks anywhere in the input
// are skipped, and input may be split at any byte. A final group missing its
// padding is decoded at the end of data.
func NewBase64Decoder(next Decoder) Decoder {
	return &base64Decoder{next: next}
}

func (d *base64Decoder) Decode(ctx context.Context, p []byte) error {
	out := d.out[:0]
	for _, c := range p {
		d.total++
		switch c {
		case ' ', '\t', '\r', '\n':
			continue
		}

		d.quad[d.n] = c
		d.n++
		if d.n < 4 {
			continue
		}

		var dec [3]byte
		n, err := base64.StdEncoding.Decode(dec[:], d.quad[:])
		if err != nil {
			return fmt.Errorf("%w: bad group %q near offset %d", ErrCorruptBase64, d.quad[:], d.total)
		}
		out = append(out, dec[:n]...)
		d.n = 0
	}
	d.out = out

	if len(out) == 0 {
		return nil
	}
	return d.next.Decode(ctx, out)
}

func (d *base64Decoder) EndOfData(ctx context.Context) error {
	tail := d.quad[:d.n]
	for len(tail) > 0 && tail[len(tail)-1] == '=' {
		tail = tail[:len(tail)-1]
	}

	switch len(tail) {
	case 0:
	case 1:
		return fmt.Errorf("%w: single dangling character at end", ErrCorruptBase64)
	default:
		var dec [3]byte
		n, err := base64.RawStdEncoding.Decode(dec[:], tail)
		if err != nil {
			return fmt.Errorf("%w: bad final group %q", ErrCorruptBase64, tail)
		}
		if err := d.next.Decode(ctx, dec[:n]); err != nil {
			return err
		}
	}
	d.n = 0

	return d.next.EndOfData(ctx)
}
