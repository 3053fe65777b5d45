package coding

import "context"

// maxPending bounds how much of a broken soft line break is held back.
const maxPending = 80

type quotedPrintableDecoder struct {
	next Decoder
	pend []byte
	out  []byte
}

// NewQuotedPrintableDecoder returns a Decoder that decodes quoted-printable
// text and passes the result to next. An "=" escape split across calls to
// Decode is completed by the next call. Soft line breaks ("=" followed by
// optional blanks and a line break) are removed. An "=" that does not start
// a valid escape is passed through literally.
func NewQuotedPrintableDecoder(next Decoder) Decoder {
	return &quotedPrintableDecoder{next: next}
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	}
	return c - 'A' + 10
}

func (d *quotedPrintableDecoder) Decode(ctx context.Context, p []byte) error {
	out := d.out[:0]
	for i := 0; i < len(p); i++ {
		c := p[i]
		if len(d.pend) == 0 {
			if c == '=' {
				d.pend = append(d.pend, c)
			} else {
				out = append(out, c)
			}
			continue
		}

		last := d.pend[len(d.pend)-1]
		switch {
		case len(d.pend) == 1 && isHex(c):
			d.pend = append(d.pend, c)
		case len(d.pend) == 2 && isHex(last):
			if isHex(c) {
				out = append(out, unhex(last)<<4|unhex(c))
				d.pend = d.pend[:0]
				continue
			}
			out = append(out, d.pend...)
			d.pend = d.pend[:0]
			i--
		case last == '\r':
			if c != '\n' {
				out = append(out, d.pend...)
				i--
			}
			d.pend = d.pend[:0]
		case (c == ' ' || c == '\t') && len(d.pend) < maxPending:
			d.pend = append(d.pend, c)
		case c == '\r':
			d.pend = append(d.pend, c)
		case c == '\n':
			d.pend = d.pend[:0]
		default:
			out = append(out, d.pend...)
			d.pend = d.pend[:0]
			i--
		}
	}
	d.out = out

	if len(out) == 0 {
		return nil
	}
	return d.next.Decode(ctx, out)
}

func (d *quotedPrintableDecoder) EndOfData(ctx context.Context) error {
	// "=" and blanks at the very end is a soft break with no line after it
	softBreak := true
	for i := 1; i < len(d.pend); i++ {
		if c := d.pend[i]; c != ' ' && c != '\t' && c != '\r' {
			softBreak = false
		}
	}

	if len(d.pend) > 0 && !softBreak {
		if err := d.next.Decode(ctx, d.pend); err != nil {
			return err
		}
	}
	d.pend = d.pend[:0]

	return d.next.EndOfData(ctx)
}
