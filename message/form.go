package message

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/zostay/go-mimeframe/message/header"
	"github.com/zostay/go-mimeframe/message/header/param"
)

// FormURLEncoded is the media type of a Form.
const FormURLEncoded = "application/x-www-form-urlencoded"

// Form is a leaf part holding application/x-www-form-urlencoded name/value
// pairs. The pairs keep their order and duplicate names are allowed.
type Form struct {
	header.Header

	body   bytes.Buffer
	values []param.Param
}

// NewForm returns a Form with a Content-Type of FormURLEncoded and the
// given values.
func NewForm(values ...param.Param) *Form {
	f := &Form{values: values}
	f.SetMediaType(FormURLEncoded)
	return f
}

// newFormEntity returns an empty Form with the given header, ready to
// receive its body through Decode.
func newFormEntity(h *header.Header) *Form {
	return &Form{Header: *h}
}

// Decode appends decoded body bytes.
func (f *Form) Decode(ctx context.Context, p []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, _ = f.body.Write(p)
	return nil
}

// EndOfData parses the collected body into values.
func (f *Form) EndOfData(context.Context) error {
	values, err := param.ParseForm(strings.TrimRight(f.body.String(), "\r\n"))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBadForm, err)
	}
	f.values = values
	f.body.Reset()
	return nil
}

// Values returns the form values in the order they appeared.
func (f *Form) Values() []param.Param {
	return f.values
}

// Lookup returns the first value with the given name and whether there was
// one.
func (f *Form) Lookup(name string) (string, bool) {
	for _, p := range f.values {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// WriteTo writes the header and the encoded values.
func (f *Form) WriteTo(w io.Writer) (int64, error) {
	return writeEntity(w, &f.Header, strings.NewReader(param.EncodeForm(f.values)), false)
}

// IsMultipart always returns false.
func (f *Form) IsMultipart() bool {
	return false
}

// GetHeader returns the header of the form.
func (f *Form) GetHeader() *header.Header {
	return &f.Header
}

// GetReader returns the values in encoded form.
func (f *Form) GetReader() io.Reader {
	return strings.NewReader(param.EncodeForm(f.values))
}

// GetParts always returns nil.
func (f *Form) GetParts() []Part {
	return nil
}
