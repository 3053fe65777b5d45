package field

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

var (
	// CharsetEncoder is the function used to turn a unicode string into bytes
	// of the named charset. Importing the message/header/encoding package
	// replaces it with one that knows about most charsets.
	CharsetEncoder = DefaultCharsetEncoder

	// CharsetDecoder is the function used to turn bytes in the named charset
	// into a unicode string. Importing the message/header/encoding package
	// replaces it with one that knows about most charsets.
	CharsetDecoder = DefaultCharsetDecoder
)

func isUTF8(charset string) bool {
	return charset == "" || strings.EqualFold(charset, "utf-8") || strings.EqualFold(charset, "utf8")
}

func isASCII(charset string) bool {
	return strings.EqualFold(charset, "us-ascii") || strings.EqualFold(charset, "ascii")
}

func isLatin1(charset string) bool {
	return strings.EqualFold(charset, "iso-8859-1") || strings.EqualFold(charset, "latin1")
}

// DefaultCharsetDecoder handles utf-8, us-ascii, and iso-8859-1 with no help
// from outside libraries. Bytes that are not valid in the charset become the
// unicode replacement character.
func DefaultCharsetDecoder(charset string, b []byte) (string, error) {
	switch {
	case isUTF8(charset):
		return strings.ToValidUTF8(string(b), "�"), nil
	case isASCII(charset):
		rs := make([]rune, len(b))
		for i, c := range b {
			if c >= utf8.RuneSelf {
				rs[i] = utf8.RuneError
			} else {
				rs[i] = rune(c)
			}
		}
		return string(rs), nil
	case isLatin1(charset):
		rs := make([]rune, len(b))
		for i, c := range b {
			rs[i] = rune(c)
		}
		return string(rs), nil
	}
	return "", fmt.Errorf("unsupported byte encoding %q", charset)
}

// DefaultCharsetEncoder is the counterpart to DefaultCharsetDecoder. Runes
// that cannot be represented become a SUB (0x1a) byte.
func DefaultCharsetEncoder(charset, s string) ([]byte, error) {
	switch {
	case isUTF8(charset):
		return []byte(s), nil
	case isASCII(charset), isLatin1(charset):
		limit := rune(0x80)
		if isLatin1(charset) {
			limit = 0x100
		}
		var buf bytes.Buffer
		for _, r := range s {
			if r >= limit {
				buf.WriteByte(0x1a)
			} else {
				buf.WriteByte(byte(r))
			}
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("unsupported byte encoding %q", charset)
}

// CharsetDecoderToCharsetReader adapts a charset decoder function to the
// CharsetReader hook of mime.WordDecoder.
func CharsetDecoderToCharsetReader(
	decoder func(string, []byte) (string, error),
) func(string, io.Reader) (io.Reader, error) {
	return func(charset string, input io.Reader) (io.Reader, error) {
		b, err := io.ReadAll(input)
		if err != nil {
			return nil, err
		}

		s, err := decoder(charset, b)
		if err != nil {
			return nil, err
		}

		return strings.NewReader(s), nil
	}
}
