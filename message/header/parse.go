package header

import (
	"errors"

	"github.com/zostay/go-mimeframe/message/header/field"
)

// Parse will parse the given slice of bytes into a header using the given
// line break. It will assume the entire string given represents the header
// to be parsed. A trailing blank line, if present, is ignored.
//
// Junk at the start that does not look like a header field is skipped and
// reported with a *field.BadStartError alongside the parsed header. Any
// other error means no header could be parsed.
func Parse(m []byte, lb Break) (*Header, error) {
	if lb == Meh {
		lb = DetectBreak(m)
		if lb == Meh {
			lb = CRLF
		}
	}

	lines, err := field.ParseLines(m, lb.Bytes())

	var badStartErr *field.BadStartError // recoverable
	var finalErr error
	if errors.As(err, &badStartErr) {
		finalErr = badStartErr
	} else if err != nil {
		return nil, err
	}

	h := &Header{lbr: lb, fields: make([]*field.Field, 0, len(lines))}
	for _, line := range lines {
		f, err := field.Parse(line)
		if err != nil {
			return nil, err
		}
		h.AddField(f)
	}

	return h, finalErr
}
