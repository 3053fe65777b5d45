package header

import "bytes"

// Break represents the line break used when writing a header block.
type Break string

// Constants for use when selecting a line break to use with a new header. If
// you don't know what to pick, choose CRLF, which is also what Meh means when
// a header is written.
const (
	Meh  Break = ""         // Whatever the default is
	CRLF Break = "\x0d\x0a" // \r\n - Network linebreak
	LF   Break = "\x0a"     // \n - Unix/Linux/BSD linebreak
)

// String returns the break as a string.
func (b Break) String() string {
	return string(b)
}

// Bytes returns the break as a slice of bytes.
func (b Break) Bytes() []byte {
	return []byte(b)
}

// DetectBreak guesses the line break of a block of text from its first line.
// Text with no line break at all gets Meh.
func DetectBreak(m []byte) Break {
	ix := bytes.IndexByte(m, '\n')
	switch {
	case ix < 0:
		return Meh
	case ix > 0 && m[ix-1] == '\r':
		return CRLF
	}
	return LF
}
