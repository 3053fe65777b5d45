package field

import (
	"bytes"
	"strings"
)

// BadStartError is returned when the header begins with junk text that does not
// appear to be a header. This text is preserved in the error object.
type BadStartError struct {
	BadStart []byte // the text skipped at the start of header
}

// Error returns the error message.
func (err *BadStartError) Error() string {
	return "header starts with text that does not appear to be a header"
}

// Line represents the unparsed content for a complete header field line.
type Line []byte

// Lines represents the unparsed content for zero or more header field
// lines.
type Lines []Line

// ParseLines splits a header block into field lines using the given line
// break. Continuation lines (those starting with a space or tab) are joined
// to the field before them.
//
// If the first line (or lines) of input start with spaces or contain no colons,
// these lines will be skipped in the Lines returned. However, a BadStartError
// will be returned.
func ParseLines(m, lb []byte) (Lines, error) {
	h := make(Lines, 0, len(m)/80+1)
	var err *BadStartError
	for _, line := range bytes.SplitAfter(m, lb) {
		if len(line) == 0 {
			break
		}
		if line[0] == '\t' || line[0] == ' ' || !bytes.Contains(line, []byte(":")) {
			if len(h) == 0 {
				if err != nil {
					err.BadStart = append(err.BadStart, line...)
				} else {
					err = &BadStartError{line}
				}
				continue
			}

			h[len(h)-1] = append(h[len(h)-1], line...)
		} else {
			h = append(h, line)
		}
	}

	if err != nil {
		return h, err
	}
	return h, nil
}

// Unfold removes the line breaks from a folded field, leaving the
// indentation of the continuation lines in place.
func Unfold(f []byte) []byte {
	uf := make([]byte, 0, len(f))
	for _, b := range f {
		if b != '\r' && b != '\n' {
			uf = append(uf, b)
		}
	}
	return uf
}

// Parse turns a single header field line, including any folded continuation
// lines, into a Field. The body is trimmed of surrounding whitespace and kept
// raw. It fails with ErrEmptyName when the line has nothing before its colon.
func Parse(line Line) (*Field, error) {
	uf := Unfold(line)

	ix := bytes.IndexByte(uf, ':')
	if ix < 0 {
		return New(strings.TrimSpace(string(uf)), "")
	}

	name := strings.TrimSpace(string(uf[:ix]))
	body := strings.TrimSpace(string(uf[ix+1:]))
	return New(name, body)
}
