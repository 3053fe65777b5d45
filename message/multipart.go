package message

import (
	"context"
	"fmt"
	"io"

	"github.com/zostay/go-mimeframe/message/header"
)

// Multipart is a multipart MIME message. When building these the MIME type
// set in the Content-Type header should always start with multipart/.
//
// A Multipart received from the wire splits its body into parts with a
// MultipartParser as the bytes arrive through Decode.
type Multipart struct {
	// Header is the header for the message.
	header.Header

	// parts holds this layer's parts
	parts []Part

	parser *MultipartParser
}

// NewMultipart returns an empty Multipart with the given header whose body
// will be split by parser.
func NewMultipart(h *header.Header, parser *MultipartParser) *Multipart {
	return &Multipart{Header: *h, parser: parser}
}

// Decode feeds body bytes to the part parser.
func (mm *Multipart) Decode(ctx context.Context, p []byte) error {
	if mm.parser == nil {
		return ErrNoParser
	}
	return mm.parser.Decode(ctx, p)
}

// EndOfData finishes parsing and collects the parts that were found. It
// fails if the closing boundary was never seen.
func (mm *Multipart) EndOfData(ctx context.Context) error {
	if mm.parser == nil {
		return ErrNoParser
	}
	if err := mm.parser.EndOfData(ctx); err != nil {
		return err
	}
	for _, e := range mm.parser.Parts() {
		mm.parts = append(mm.parts, e)
	}
	return nil
}

// WriteTo writes the Multipart header and parts to the destination
// io.Writer. This method will fail with an error if the given message does
// not have a Content-Type boundary parameter set. May return an error on an
// IO error as well.
//
// Each part is preceded by a boundary line and followed by a line break. The
// closing boundary ends the output.
//
// This may only be safely called one time because it will consume all the
// bytes from all the io.Reader objects associated with all the parts.
func (mm *Multipart) WriteTo(w io.Writer) (int64, error) {
	boundary, err := mm.GetBoundary()
	if err != nil {
		return 0, err
	}

	n, err := mm.Header.WriteTo(w)
	if err != nil {
		return n, err
	}

	bn, err := writeParts(w, mm.parts, boundary, mm.Break())
	return n + bn, err
}

func writeParts(w io.Writer, parts []Part, boundary string, br header.Break) (int64, error) {
	var n int64
	for _, part := range parts {
		bn, err := fmt.Fprintf(w, "--%s%s", boundary, br)
		n += int64(bn)
		if err != nil {
			return n, err
		}

		pn, err := part.WriteTo(w)
		n += pn
		if err != nil {
			return n, err
		}

		bn, err = fmt.Fprint(w, br)
		n += int64(bn)
		if err != nil {
			return n, err
		}
	}

	bn, err := fmt.Fprintf(w, "--%s--%s", boundary, br)
	n += int64(bn)
	return n, err
}

// IsMultipart always returns true.
func (mm *Multipart) IsMultipart() bool {
	return true
}

// GetHeader returns the header for the message.
func (mm *Multipart) GetHeader() *header.Header {
	return &mm.Header
}

// GetReader always returns nil.
func (mm *Multipart) GetReader() io.Reader {
	return nil
}

// GetParts returns the sub-parts of this message or nil if there aren't any.
func (mm *Multipart) GetParts() []Part {
	return mm.parts
}

// MultipartAlternative returns a Multipart with a Content-Type header set to
// multipart/alternative, a fresh boundary, and the given parts attached.
func MultipartAlternative(parts ...Part) *Multipart {
	m := &Multipart{
		parts: parts,
	}
	m.SetMediaType("multipart/alternative")
	_ = m.SetBoundary(GenerateBoundary())
	return m
}

// MultipartMixed returns a Multipart with a Content-Type header set to
// multipart/mixed, a fresh boundary, and the given parts attached.
func MultipartMixed(parts ...Part) *Multipart {
	m := &Multipart{
		parts: parts,
	}
	m.SetMediaType("multipart/mixed")
	_ = m.SetBoundary(GenerateBoundary())
	return m
}
