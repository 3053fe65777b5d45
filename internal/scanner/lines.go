package scanner

import (
	"bytes"
	"errors"
)

// DefaultMaxLineLength is the longest line a Lines will accumulate when no
// other limit is given.
const DefaultMaxLineLength = 8192

// ErrLineTooLong is returned by Scan when a line grows beyond the configured
// maximum before its line break arrives.
var ErrLineTooLong = errors.New("line exceeds the maximum length")

// Lines accumulates bytes into lines when the input arrives in arbitrary
// pieces. The built-in bufio.Scanner wants to pull from an io.Reader, but
// the state machines in this module are pushed one buffer at a time, so they
// need something that remembers a partial line between calls and can tell
// them exactly how many bytes of each buffer it swallowed.
//
// A line ends at LF. A CR immediately before the LF is stripped from the
// returned line, so both CRLF and bare LF input work.
type Lines struct {
	max int
	buf []byte
}

// NewLines returns a line accumulator that fails with ErrLineTooLong when a
// line (excluding its break) exceeds max bytes. A max of zero or less means
// DefaultMaxLineLength.
func NewLines(max int) *Lines {
	if max <= 0 {
		max = DefaultMaxLineLength
	}
	return &Lines{max: max}
}

// Scan consumes bytes from p up to and including the next LF. It returns the
// number of bytes consumed. When a line has been completed, ok is true and
// line holds its content without the line break. The returned line is only
// valid until the next call to Scan.
//
// When no LF is found, all of p is consumed and held until the next call.
func (l *Lines) Scan(p []byte) (n int, line []byte, ok bool, err error) {
	ix := bytes.IndexByte(p, '\n')
	if ix < 0 {
		if len(l.buf)+len(p) > l.max+1 {
			return 0, nil, false, ErrLineTooLong
		}
		l.buf = append(l.buf, p...)
		return len(p), nil, false, nil
	}

	if len(l.buf)+ix > l.max+1 {
		return 0, nil, false, ErrLineTooLong
	}

	l.buf = append(l.buf, p[:ix]...)
	line = bytes.TrimSuffix(l.buf, []byte{'\r'})
	l.buf = l.buf[:0]
	return ix + 1, line, true, nil
}

// Pending reports whether a partial line is being held.
func (l *Lines) Pending() bool {
	return len(l.buf) > 0
}
