// Package encoding provides a replacement charset encoder and decoder for
// field.CharsetEncoder and field.CharsetDecoder. Importing this package for
// its side effect loads every encoding known to:
//
// * golang.org/x/text/encoding/ianaindex
//
// with the WHATWG labels known to golang.org/x/net/html/charset as a
// fallback for the odd names that show up in the wild ("latin1",
// "x-sjis", and friends).
//
// This will make the size of your compiled binaries considerably larger. But
// it lets RFC 2047 encoded words in nearly any charset be decoded.
package encoding

import (
	"fmt"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	_ "golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/zostay/go-mimeframe/message/header/field"
)

func init() {
	field.CharsetEncoder = CharsetEncoder
	field.CharsetDecoder = CharsetDecoder
}

// lookup finds the encoding for the named charset.
func lookup(name string) (encoding.Encoding, error) {
	e, err := ianaindex.MIME.Encoding(name)
	if err == nil && e != nil {
		return e, nil
	}

	if e, _ := charset.Lookup(name); e != nil {
		return e, nil
	}

	return nil, fmt.Errorf("no encoding found for charset %q", name)
}

// CharsetEncoder provides a replacement encoder for field.CharsetEncoder,
// which can encode a wide range of rare and unusual character sets.
func CharsetEncoder(charset, s string) ([]byte, error) {
	e, err := lookup(charset)
	if err != nil {
		return nil, err
	}

	es, err := e.NewEncoder().String(s)
	if err != nil {
		return nil, err
	}

	return []byte(es), nil
}

// CharsetDecoder provides a replacement decoder for field.CharsetDecoder,
// which can decode a wide range of rare and unusual character sets.
func CharsetDecoder(charset string, b []byte) (string, error) {
	e, err := lookup(charset)
	if err != nil {
		return "", err
	}

	eb, err := e.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}

	return string(eb), nil
}
