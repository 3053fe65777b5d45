package message

import (
	"errors"
	"io"
	"strings"

	"github.com/zostay/go-mimeframe/message/coding"
	"github.com/zostay/go-mimeframe/message/header"
)

// Part is a message or one piece of a multipart message. Each Part is either
// a branch or a leaf.
//
// A branch Part has sub-parts. IsMultipart returns true, GetParts returns the
// sub-parts, and GetReader returns nil.
//
// A leaf Part has content. IsMultipart returns false, GetParts returns nil,
// and GetReader returns the decoded content.
type Part interface {
	io.WriterTo

	// IsMultipart returns true if this Part is a branch with nested parts.
	IsMultipart() bool

	// GetHeader returns the header of the part.
	GetHeader() *header.Header

	// GetReader returns the decoded content of a leaf part.
	GetReader() io.Reader

	// GetParts returns the sub-parts of a branch part.
	GetParts() []Part
}

// Entity is a Part that is filled in from the wire. The body bytes arrive
// through Decode, already stripped of transfer framing and content coding,
// and EndOfData marks the end of the body.
type Entity interface {
	Part
	coding.Decoder
}

// contentCodings returns the codings applied to the body of an entity, in
// the order they were applied. A Content-Transfer-Encoding on a multipart
// entity is ignored.
func contentCodings(h *header.Header) ([]string, error) {
	names, err := h.GetContentEncodings()
	if err != nil && !errors.Is(err, header.ErrNoSuchField) {
		return nil, err
	}

	if mt, _ := h.GetMediaType(); isMultipartType(mt) {
		return names, nil
	}

	cte, err := h.GetContentTransferEncoding()
	if err != nil && !errors.Is(err, header.ErrNoSuchField) {
		return nil, err
	}
	if cte != "" {
		names = append(names, cte)
	}
	return names, nil
}

func isMultipartType(mt string) bool {
	return strings.HasPrefix(mt, "multipart/")
}

// writeEntity writes the header and then the body. Unless encoded is true,
// the body is run through the content codings named in the header on the
// way out.
func writeEntity(w io.Writer, h *header.Header, body io.Reader, encoded bool) (int64, error) {
	total, err := h.WriteTo(w)
	if err != nil {
		return total, err
	}

	if body == nil {
		return total, nil
	}

	cw := &countingWriter{w: w}
	var out io.Writer = cw
	var closer io.Closer
	if !encoded {
		names, err := contentCodings(h)
		if err != nil {
			return total, err
		}
		ew, err := coding.DefaultRegistry.EncodeChain(names, cw)
		if err != nil {
			return total, err
		}
		out, closer = ew, ew
	}

	_, err = io.Copy(out, body)
	if closer != nil {
		if cerr := closer.Close(); err == nil {
			err = cerr
		}
	}
	return total + cw.n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
