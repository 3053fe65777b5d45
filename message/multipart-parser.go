package message

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/zostay/go-mimeframe/internal/scanner"
	"github.com/zostay/go-mimeframe/message/coding"
	"github.com/zostay/go-mimeframe/message/header"
	"github.com/zostay/go-mimeframe/message/transfer"
)

type partState int

const (
	statePreamble    partState = iota // before the first boundary
	stateHeaders                      // reading the header lines of a part
	stateBody                         // reading body bytes, watching for a boundary
	stateBoundaryEnd                  // just after a boundary
	stateCloseDash                    // saw the first "-" of a closing boundary
	stateBoundaryLF                   // saw CR after a boundary
	stateFinished                     // saw the closing boundary
)

// MultipartParser splits a multipart body into parts as its bytes arrive.
// It is a coding.Decoder: feed it the decoded body of a multipart entity in
// pieces of any size and it builds one entity per part, each with its own
// content decoding.
//
// The delimiter searched for is a line break followed by "--" and the
// boundary. The line break before the first boundary is optional, a bare LF
// is accepted wherever CRLF is expected, and anything after the closing
// boundary is ignored.
type MultipartParser struct {
	pr    *Parser
	depth int

	delim []byte // "\r\n--" + boundary
	match []byte // the real bytes of a partial delimiter match
	mpos  int    // position reached in delim

	state partState
	lines *scanner.Lines
	head  []byte
	maxHd int

	part  Entity
	dec   coding.Decoder
	parts []Entity

	offset int64
	err    error
}

// NewMultipartParser returns a parser for a multipart body with the given
// boundary. Parts are built with pr.NewEntity at depth+1.
func (pr *Parser) NewMultipartParser(boundary string, depth int) *MultipartParser {
	maxHd := pr.maxHeaderLen
	if maxHd <= 0 {
		maxHd = DefaultMaxHeaderLength
	}

	delim := []byte("\r\n--" + boundary)
	return &MultipartParser{
		pr:    pr,
		depth: depth,
		delim: delim,
		match: make([]byte, 0, len(delim)+2),
		mpos:  2,
		state: statePreamble,
		lines: scanner.NewLines(maxHd),
		maxHd: maxHd,
		dec:   coding.Discard,
	}
}

// Parts returns the parts completed so far, in order.
func (mp *MultipartParser) Parts() []Entity {
	return mp.parts
}

// Finished returns true once the closing boundary has been seen.
func (mp *MultipartParser) Finished() bool {
	return mp.state == stateFinished
}

func (mp *MultipartParser) fail(i int, err error) error {
	mp.err = &transfer.FramingError{Offset: mp.offset + int64(i), Err: err}
	return mp.err
}

// Decode consumes the next piece of the multipart body.
func (mp *MultipartParser) Decode(ctx context.Context, p []byte) error {
	if mp.err != nil {
		return mp.err
	}

	i := 0
	for i < len(p) {
		var err error
		switch mp.state {
		case statePreamble, stateBody:
			i, err = mp.scan(ctx, p, i)
			if err != nil {
				mp.err = err
				return err
			}

		case stateBoundaryEnd, stateCloseDash, stateBoundaryLF:
			if err = mp.afterBoundary(p[i]); err != nil {
				return mp.fail(i, err)
			}
			i++

		case stateHeaders:
			i, err = mp.headers(ctx, p, i)
			if err != nil {
				return mp.fail(i, err)
			}

		case stateFinished:
			i = len(p)
		}
	}

	mp.offset += int64(len(p))
	return nil
}

// EndOfData fails unless the closing boundary has been seen.
func (mp *MultipartParser) EndOfData(context.Context) error {
	if mp.err != nil {
		return mp.err
	}
	if mp.state != stateFinished {
		mp.err = &transfer.FramingError{Offset: mp.offset, Err: ErrTruncatedMultipart}
		return mp.err
	}
	return nil
}

func (mp *MultipartParser) emit(ctx context.Context, p []byte) error {
	if len(p) == 0 {
		return nil
	}
	return mp.dec.Decode(ctx, p)
}

// scan passes body bytes on until a full delimiter has been matched or p
// runs out. Bytes held in a partial match are passed on as soon as the match
// fails.
func (mp *MultipartParser) scan(ctx context.Context, p []byte, i int) (int, error) {
	from := -1
	if mp.mpos == 0 {
		from = i
	}

	for ; i < len(p); i++ {
		c := p[i]
		if c == mp.delim[mp.mpos] || (mp.mpos == 0 && c == '\n') {
			if mp.mpos == 0 {
				if err := mp.emit(ctx, p[from:i]); err != nil {
					return i, err
				}
				from = -1
				if c == '\n' {
					mp.mpos = 1
				}
			}

			mp.match = append(mp.match, c)
			mp.mpos++
			if mp.mpos == len(mp.delim) {
				mp.match = mp.match[:0]
				mp.mpos = 0
				return i + 1, mp.boundaryFound(ctx)
			}
			continue
		}

		if mp.mpos > 0 {
			if err := mp.emit(ctx, mp.match); err != nil {
				return i, err
			}
			mp.match = mp.match[:0]
			mp.mpos = 0
			from = i
			i-- // c may start a new delimiter
		}
	}

	if from >= 0 {
		if err := mp.emit(ctx, p[from:]); err != nil {
			return len(p), err
		}
	}
	return len(p), nil
}

// boundaryFound ends the current part, if any.
func (mp *MultipartParser) boundaryFound(ctx context.Context) error {
	if mp.state == stateBody {
		if err := mp.dec.EndOfData(ctx); err != nil {
			return err
		}
		mp.parts = append(mp.parts, mp.part)
		mp.part = nil
	}
	mp.dec = coding.Discard
	mp.state = stateBoundaryEnd
	return nil
}

func (mp *MultipartParser) afterBoundary(c byte) error {
	switch mp.state {
	case stateBoundaryEnd:
		switch c {
		case '-':
			mp.state = stateCloseDash
		case ' ', '\t':
		case '\r':
			mp.state = stateBoundaryLF
		case '\n':
			mp.startHeaders()
		default:
			return fmt.Errorf("%w: unexpected %q after boundary", ErrMalformedBoundary, c)
		}

	case stateCloseDash:
		if c != '-' {
			return fmt.Errorf("%w: unexpected %q in closing boundary", ErrMalformedBoundary, c)
		}
		mp.state = stateFinished
		mp.pr.logger.Debug("multipart body complete",
			slog.Int("parts", len(mp.parts)),
			slog.Int("depth", mp.depth))

	case stateBoundaryLF:
		if c != '\n' {
			return fmt.Errorf("%w: CR without LF after boundary", ErrMalformedBoundary)
		}
		mp.startHeaders()
	}
	return nil
}

func (mp *MultipartParser) startHeaders() {
	mp.state = stateHeaders
	mp.head = nil
}

// headers gathers header lines until the blank line and then starts the
// body of the part.
func (mp *MultipartParser) headers(ctx context.Context, p []byte, i int) (int, error) {
	for i < len(p) {
		n, line, ok, err := mp.lines.Scan(p[i:])
		if err != nil {
			return i, fmt.Errorf("%w: %w", ErrLargeHeader, err)
		}

		mp.head = append(mp.head, p[i:i+n]...)
		i += n
		if len(mp.head) > mp.maxHd {
			return i, ErrLargeHeader
		}

		if ok && len(line) == 0 {
			raw := bytes.TrimSuffix(mp.head[:len(mp.head)-1], []byte{'\r'})
			return i, mp.startBody(ctx, raw)
		}
	}
	return i, nil
}

// startBody builds the entity for a part from its raw header block.
func (mp *MultipartParser) startBody(_ context.Context, raw []byte) error {
	h, err := mp.pr.parseHeader(raw, header.Meh)
	if err != nil {
		return err
	}

	ent, err := mp.pr.NewEntity(h, mp.depth+1)
	if err != nil {
		return err
	}

	names, err := contentCodings(ent.GetHeader())
	if err != nil {
		return err
	}

	dec, err := mp.pr.codings.Chain(names, ent)
	if err != nil {
		return err
	}

	mp.pr.logger.Debug("multipart part started",
		slog.Int("index", len(mp.parts)),
		slog.Int("depth", mp.depth+1),
		slog.Any("codings", names))

	mp.part = ent
	mp.dec = dec
	mp.state = stateBody
	mp.mpos = 2
	mp.match = mp.match[:0]
	return nil
}
