package transfer

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/zostay/go-mimeframe/internal/scanner"
	"github.com/zostay/go-mimeframe/message/coding"
	"github.com/zostay/go-mimeframe/message/header"
	"github.com/zostay/go-mimeframe/message/header/field"
)

type chunkState int

const (
	stateSizeDigits chunkState = iota // hex digits of the chunk size
	stateSizeExt                      // chunk extension, up to LF
	stateSizeLF                       // LF ending the size line
	stateData                         // chunk data
	stateDataCR                       // CR after chunk data
	stateDataLF                       // LF after chunk data
	stateTrailer                      // trailer lines after the last chunk
	stateDone
)

// Chunked receives a body using the chunked transfer coding. Chunk data is
// passed down the chain as it arrives. Trailer fields following the last
// chunk are appended to the header the receiver was built with.
type Chunked struct {
	h         *header.Header
	dec       coding.Decoder
	logger    *slog.Logger
	maxDigits int
	maxLine   int
	lines     *scanner.Lines

	state       chunkState
	size        int64
	digits      int
	afterDigits bool
	extLen      int
	offset      int64
	lastTrailer *field.Field
	err         error
}

// NewChunked returns a chunked receiver that decodes into dec and appends
// trailers to h.
func NewChunked(h *header.Header, dec coding.Decoder, opts ...Option) *Chunked {
	return newChunked(h, dec, makeOptions(opts))
}

func newChunked(h *header.Header, dec coding.Decoder, o *options) *Chunked {
	return &Chunked{
		h:         h,
		dec:       dec,
		logger:    o.logger,
		maxDigits: o.maxDigits,
		maxLine:   o.maxLineLength,
		lines:     scanner.NewLines(o.maxLineLength),
	}
}

// IsExpectingData returns true until the final chunk and trailers are read.
func (r *Chunked) IsExpectingData() bool {
	return r.state != stateDone
}

// Done returns true once the body is complete.
func (r *Chunked) Done() bool {
	return r.state == stateDone
}

func hexValue(c byte) (int64, bool) {
	switch {
	case '0' <= c && c <= '9':
		return int64(c - '0'), true
	case 'a' <= c && c <= 'f':
		return int64(c-'a') + 10, true
	case 'A' <= c && c <= 'F':
		return int64(c-'A') + 10, true
	}
	return 0, false
}

// fail records a framing error found at p[i].
func (r *Chunked) fail(i int, err error) error {
	r.err = &FramingError{Offset: r.offset + int64(i), Err: err}
	return r.err
}

// endSizeLine moves on from a complete size line.
func (r *Chunked) endSizeLine() {
	if r.size == 0 {
		r.state = stateTrailer
	} else {
		r.state = stateData
	}
	r.digits = 0
	r.afterDigits = false
	r.extLen = 0
}

// Consume works through as much of p as belongs to the body. Once the blank
// line after the trailers is consumed, the rest of p is left alone.
func (r *Chunked) Consume(ctx context.Context, p []byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}

	i, err := r.consume(ctx, p)
	r.offset += int64(i)
	return i, err
}

func (r *Chunked) consume(ctx context.Context, p []byte) (int, error) {
	i := 0
	for i < len(p) && r.state != stateDone {
		switch r.state {
		case stateSizeDigits:
			c := p[i]
			v, isHex := hexValue(c)
			switch {
			case isHex && !r.afterDigits:
				r.digits++
				if r.digits > r.maxDigits {
					return i, r.fail(i, ErrChunkSizeTooLarge)
				}
				r.size = r.size<<4 | v
			case c == ' ' || c == '\t':
				r.afterDigits = r.digits > 0
			case c == ';' && r.digits > 0:
				r.state = stateSizeExt
			case c == '\r' && r.digits > 0:
				r.state = stateSizeLF
			case c == '\n' && r.digits > 0:
				r.endSizeLine()
			default:
				return i, r.fail(i, fmt.Errorf("%w: unexpected %q", ErrInvalidChunkSize, c))
			}
			i++

		case stateSizeExt:
			ix := bytes.IndexByte(p[i:], '\n')
			if ix < 0 {
				r.extLen += len(p) - i
				if r.extLen > r.maxLine {
					return i, r.fail(i, fmt.Errorf("%w: chunk extension too long", ErrMalformedChunk))
				}
				i = len(p)
				continue
			}
			i += ix + 1
			r.endSizeLine()

		case stateSizeLF:
			if p[i] != '\n' {
				return i, r.fail(i, fmt.Errorf("%w: CR without LF in size line", ErrMalformedChunk))
			}
			i++
			r.endSizeLine()

		case stateData:
			n := len(p) - i
			if int64(n) > r.size {
				n = int(r.size)
			}
			if err := r.dec.Decode(ctx, p[i:i+n]); err != nil {
				r.err = err
				return i, err
			}
			i += n
			r.size -= int64(n)
			if r.size == 0 {
				r.state = stateDataCR
			}

		case stateDataCR:
			if p[i] != '\r' {
				return i, r.fail(i, fmt.Errorf("%w: missing CRLF after chunk data", ErrMalformedChunk))
			}
			i++
			r.state = stateDataLF

		case stateDataLF:
			if p[i] != '\n' {
				return i, r.fail(i, fmt.Errorf("%w: missing LF after chunk data", ErrMalformedChunk))
			}
			i++
			r.state = stateSizeDigits

		case stateTrailer:
			n, line, ok, err := r.lines.Scan(p[i:])
			if err != nil {
				return i, r.fail(i, fmt.Errorf("%w: %w", ErrMalformedTrailer, err))
			}
			i += n
			if !ok {
				continue
			}

			if len(line) == 0 {
				r.state = stateDone
				if err := r.dec.EndOfData(ctx); err != nil {
					r.err = err
					return i, err
				}
				continue
			}

			if err := r.trailer(line); err != nil {
				return i, r.fail(i, err)
			}
		}
	}

	return i, nil
}

// trailer adds one trailer line to the header.
func (r *Chunked) trailer(line []byte) error {
	if line[0] == ' ' || line[0] == '\t' {
		if r.lastTrailer == nil {
			return fmt.Errorf("%w: continuation line with no field", ErrMalformedTrailer)
		}
		r.lastTrailer.SetBody(r.lastTrailer.Body() + " " + strings.TrimSpace(string(line)))
		return nil
	}

	if bytes.IndexByte(line, ':') <= 0 {
		return fmt.Errorf("%w: %q", ErrMalformedTrailer, line)
	}

	f, err := field.Parse(field.Line(line))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedTrailer, err)
	}

	r.logger.Debug("received trailer", slog.String("field", f.Name()))
	r.h.AddField(f)
	r.lastTrailer = f
	return nil
}
