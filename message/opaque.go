package message

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/zostay/go-mimeframe/message/header"
	"github.com/zostay/go-mimeframe/message/header/param"
)

// Opaque is a leaf part: a header and a body held as bytes.
//
// An Opaque received from the wire collects its decoded body through Decode
// and makes it available from GetReader once EndOfData has been called.
type Opaque struct {
	// Header will contain the header of the message.
	header.Header

	// Reader will contain the body content of the message. A received body
	// always gets a Reader once EndOfData is called, even when it is empty.
	// An Opaque built by hand may leave it nil for no body.
	io.Reader

	// body collects the bytes handed to Decode.
	body bytes.Buffer

	// encoded tracks whether the content codings named in the header are
	// still applied to the bytes of Reader. When false, WriteTo applies them
	// as it writes.
	encoded bool
}

// NewOpaque returns an empty Opaque with the given header, ready to receive
// its body through Decode.
func NewOpaque(h *header.Header) *Opaque {
	return &Opaque{Header: *h}
}

// Decode appends decoded body bytes.
func (m *Opaque) Decode(ctx context.Context, p []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, _ = m.body.Write(p)
	return nil
}

// EndOfData makes the collected body available through the Reader.
func (m *Opaque) EndOfData(context.Context) error {
	m.Reader = &m.body
	return nil
}

// WriteTo writes the Opaque header and body to the destination io.Writer.
//
// If IsEncoded returns false, the content codings named by the
// Content-Encoding and Content-Transfer-Encoding fields are applied to the
// body as it is written.
//
// This can only be safely called once as it will consume the io.Reader.
func (m *Opaque) WriteTo(w io.Writer) (int64, error) {
	return writeEntity(w, &m.Header, m.Reader, m.encoded)
}

// IsMultipart always returns false.
func (m *Opaque) IsMultipart() bool {
	return false
}

// IsEncoded returns true if the bytes returned by the io.Reader still have
// their content codings applied. A received Opaque always holds decoded
// bytes, so this returns false for it.
func (m *Opaque) IsEncoded() bool {
	return m.encoded
}

// GetHeader returns the header for the message.
func (m *Opaque) GetHeader() *header.Header {
	return &m.Header
}

// GetReader returns the reader containing the body of the message.
func (m *Opaque) GetReader() io.Reader {
	return m.Reader
}

// GetParts always returns nil.
func (m *Opaque) GetParts() []Part {
	return nil
}

// AttachmentFile is a constructor that will create an Opaque from the given
// filename and MIME type. The file becomes the body and its base name
// becomes the filename of an attachment disposition.
//
// The last argument is the Content-Transfer-Encoding to use. Pass an empty
// string to leave it unset.
func AttachmentFile(fn, mt, cte string) (*Opaque, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}

	m := &Opaque{Reader: f}
	m.SetMediaType(mt)
	m.SetContentDisposition(param.New("attachment",
		param.Param{Name: param.Filename, Value: filepath.Base(fn)}))

	if cte != "" {
		m.SetContentTransferEncoding(cte)
	}

	return m, nil
}
