package field

import (
	"errors"
	"fmt"
	"mime"
	"strings"
)

// ErrUnsupportedEncoding is returned by DecodeWords when an encoded word
// names an encoding other than B or Q.
var ErrUnsupportedEncoding = errors.New("unsupported encoded-word encoding")

// Encode turns a string into an RFC 2047 B-encoded word using utf-8 as the
// charset. Strings made only of printable ASCII are returned as-is.
func Encode(s string) string {
	return mime.BEncoding.Encode("utf-8", s)
}

// NeedsEncoding returns true if s holds bytes that cannot appear in a header
// field body without RFC 2047 encoding: anything outside of printable ASCII
// other than space and tab.
func NeedsEncoding(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < ' ' || c > '~') && c != '\t' {
			return true
		}
	}
	return false
}

// encodedWord locates the encoded word that starts at s[0:2] == "=?". It
// returns the length of the word and its encoding letter, or 0 if s does not
// start with something shaped like an encoded word.
func encodedWord(s string) (n int, enc byte) {
	cs := strings.IndexByte(s[2:], '?')
	if cs <= 0 {
		return 0, 0
	}
	cs += 2

	if len(s) < cs+3 || s[cs+2] != '?' {
		return 0, 0
	}
	enc = s[cs+1]

	end := strings.Index(s[cs+3:], "?=")
	if end < 0 {
		return 0, 0
	}
	return cs + 3 + end + 2, enc
}

// EncodedWordLen returns the length of the RFC 2047 encoded word at the start
// of s, or 0 if s does not start with one.
func EncodedWordLen(s string) int {
	if !strings.HasPrefix(s, "=?") {
		return 0
	}
	n, _ := encodedWord(s)
	return n
}

// DecodeWords replaces every RFC 2047 encoded word found in s with its
// decoded text. Whitespace separating two adjacent encoded words is dropped.
// Text that merely looks like the start of an encoded word but is not
// complete is left alone. An encoded word using an encoding other than B or
// Q fails with ErrUnsupportedEncoding.
func DecodeWords(s string) (string, error) {
	if !strings.Contains(s, "=?") {
		return s, nil
	}

	dec := &mime.WordDecoder{
		CharsetReader: CharsetDecoderToCharsetReader(CharsetDecoder),
	}

	var b strings.Builder
	afterWord := false
	for len(s) > 0 {
		ix := strings.Index(s, "=?")
		if ix < 0 {
			break
		}

		n, enc := encodedWord(s[ix:])
		if n == 0 {
			b.WriteString(s[:ix+2])
			s = s[ix+2:]
			afterWord = false
			continue
		}

		between := s[:ix]
		if !afterWord || strings.TrimSpace(between) != "" {
			b.WriteString(between)
		}

		switch enc {
		case 'b', 'B', 'q', 'Q':
		default:
			return "", fmt.Errorf("%w: %q", ErrUnsupportedEncoding, s[ix:ix+n])
		}

		word, err := dec.Decode(s[ix : ix+n])
		if err != nil {
			return "", fmt.Errorf("unable to decode %q: %w", s[ix:ix+n], err)
		}

		b.WriteString(word)
		s = s[ix+n:]
		afterWord = true
	}

	b.WriteString(s)
	return b.String(), nil
}
