package header

import (
	"bytes"
	"errors"
	"io"

	"github.com/zostay/go-mimeframe/message/header/field"
)

// Errors returned by various header methods and functions.
var (
	// ErrNoSuchField is returned by Header methods when the operation
	// being performed failed because the header named does not exist.
	ErrNoSuchField = errors.New("no such header field")

	// ErrNoSuchFieldParameter is returned by Header methods when the
	// operation being performed failed because the header exists, but a
	// sub-field of the header does not exist.
	ErrNoSuchFieldParameter = errors.New("no such header field parameter")

	// ErrManyFields is returned by Header methods when the operation
	// being performed failed because the there are multiple fields with the
	// given name.
	ErrManyFields = errors.New("many header fields found")

	// ErrBadContentLength is returned by GetContentLength when the
	// Content-Length is not a non-negative decimal integer or when several
	// Content-Length fields disagree.
	ErrBadContentLength = errors.New("bad content length")
)

// These are the header fields this module gives special treatment.
const (
	ContentDisposition      = "Content-Disposition"
	ContentEncoding         = "Content-Encoding"
	ContentLength           = "Content-Length"
	ContentTransferEncoding = "Content-Transfer-Encoding"
	ContentType             = "Content-Type"
	Date                    = "Date"
	From                    = "From"
	To                      = "To"
	TransferEncoding        = "Transfer-Encoding"
)

// Header is an ordered list of header fields. Duplicate fields are allowed and
// names are matched without regard to case. The zero value is an empty header
// that writes with CRLF line breaks.
//
// Structured values (such as the *param.Value of a Content-Type) are parsed
// on demand and kept on the field they came from, so asking twice does not
// parse twice. Changing the field text discards the parsed value.
//
// The getter methods of this object will return an error if the field being
// fetched has not been set on the header. The error returned will be
// ErrNoSuchField.
type Header struct {
	lbr    Break
	fields []*field.Field
}

// New returns an empty header that will be written with the given break.
func New(lb Break) *Header {
	return &Header{lbr: lb}
}

// Break returns the line break used when writing the header.
func (h *Header) Break() Break {
	if h.lbr == Meh {
		return CRLF
	}
	return h.lbr
}

// Len returns the number of fields in the header.
func (h *Header) Len() int {
	return len(h.fields)
}

// GetField returns the field at index n, or nil if n is out of range.
func (h *Header) GetField(n int) *field.Field {
	if n < 0 || n >= len(h.fields) {
		return nil
	}
	return h.fields[n]
}

// Fields returns the fields of the header in order. The slice is a copy, but
// the fields are not.
func (h *Header) Fields() []*field.Field {
	fs := make([]*field.Field, len(h.fields))
	copy(fs, h.fields)
	return fs
}

// GetIndexesNamed returns the indexes of every field with the given name.
func (h *Header) GetIndexesNamed(name string) []int {
	k := field.Key(name)
	var ixs []int
	for i, f := range h.fields {
		if f.Key() == k {
			ixs = append(ixs, i)
		}
	}
	return ixs
}

// GetAllFieldsNamed returns every field with the given name in order.
func (h *Header) GetAllFieldsNamed(name string) []*field.Field {
	k := field.Key(name)
	var fs []*field.Field
	for _, f := range h.fields {
		if f.Key() == k {
			fs = append(fs, f)
		}
	}
	return fs
}

// getOne returns the first field named. When the name is missing it returns
// ErrNoSuchField and when repeated it returns the first field along with
// ErrManyFields.
func (h *Header) getOne(name string) (*field.Field, error) {
	fs := h.GetAllFieldsNamed(name)
	switch len(fs) {
	case 0:
		return nil, ErrNoSuchField
	case 1:
		return fs[0], nil
	}
	return fs[0], ErrManyFields
}

// Get retrieves the string value of the named field.
//
// If the named field is not set in the header, it will return an empty string
// with ErrNoSuchField. If there are multiple headers for the given named field,
// it will return the first value found and return ErrManyFields.
func (h *Header) Get(name string) (string, error) {
	f, err := h.getOne(name)
	if f == nil {
		return "", err
	}
	return f.Body(), err
}

// GetAll fetches all the header field bodies for fields with the given
// name and returns them as a slice of strings.
//
// It returns nil with ErrNoSuchField if no field with the given name is set on
// the header.
func (h *Header) GetAll(name string) ([]string, error) {
	fs := h.GetAllFieldsNamed(name)
	if len(fs) == 0 {
		return nil, ErrNoSuchField
	}

	bs := make([]string, len(fs))
	for i, f := range fs {
		bs[i] = f.Body()
	}
	return bs, nil
}

// AddField appends the field to the end of the header.
func (h *Header) AddField(f *field.Field) {
	h.fields = append(h.fields, f)
}

// Add appends a new field to the end of the header. It fails with
// field.ErrEmptyName if name is empty.
func (h *Header) Add(name, body string) error {
	f, err := field.New(name, body)
	if err != nil {
		return err
	}
	h.AddField(f)
	return nil
}

// Delete removes every field with the given name and returns how many were
// removed.
func (h *Header) Delete(name string) int {
	k := field.Key(name)
	fs := h.fields[:0]
	for _, f := range h.fields {
		if f.Key() != k {
			fs = append(fs, f)
		}
	}
	n := len(h.fields) - len(fs)
	for i := len(fs); i < len(h.fields); i++ {
		h.fields[i] = nil
	}
	h.fields = fs
	return n
}

// setField replaces the first field with the same name as f with f and
// deletes any other fields with that name. If there is no such field, f is
// appended.
func (h *Header) setField(f *field.Field) {
	ixs := h.GetIndexesNamed(f.Name())
	if len(ixs) == 0 {
		h.AddField(f)
		return
	}

	h.fields[ixs[0]] = f
	for i := len(ixs) - 1; i > 0; i-- {
		ix := ixs[i]
		h.fields = append(h.fields[:ix], h.fields[ix+1:]...)
	}
}

// Set will replace all existing header fields with the given name with a single
// header field with the given name and body. If the field already exists on the
// header, then the first occurrence will be replaced with this value and any
// other values will be deleted. If the field does not exist, it will be
// appended to the end of the header.
func (h *Header) Set(name, body string) error {
	f, err := field.New(name, body)
	if err != nil {
		return err
	}
	h.setField(f)
	return nil
}

// SetAll replaces all the header fields with the given name with the
// bodies given. After a successful completion of this method, the field with
// the given name will occur exactly len(bodies) times in the header. Existing
// fields have their bodies replaced in place and any new fields are appended
// to the end of the header.
func (h *Header) SetAll(name string, bodies ...string) error {
	if name == "" {
		return field.ErrEmptyName
	}

	ixs := h.GetIndexesNamed(name)
	for i, b := range bodies {
		if i < len(ixs) {
			h.fields[ixs[i]].SetBody(b)
			continue
		}
		if err := h.Add(name, b); err != nil {
			return err
		}
	}

	for i := len(ixs) - 1; i >= len(bodies); i-- {
		ix := ixs[i]
		h.fields = append(h.fields[:ix], h.fields[ix+1:]...)
	}
	return nil
}

// mustField builds a field for one of the constant names of this package.
func mustField(name, body string) *field.Field {
	f, err := field.New(name, body)
	if err != nil {
		panic(err)
	}
	return f
}

// Clone returns a deep copy of the header object.
func (h *Header) Clone() *Header {
	fs := make([]*field.Field, len(h.fields))
	for i, f := range h.fields {
		fs[i] = f.Clone()
	}
	return &Header{lbr: h.lbr, fields: fs}
}

// WriteTo writes every field, each terminated by the header's line break,
// followed by the blank line that ends a header block.
func (h *Header) WriteTo(w io.Writer) (int64, error) {
	lb := h.Break().Bytes()
	total := int64(0)
	for _, f := range h.fields {
		n, err := w.Write(f.Bytes())
		total += int64(n)
		if err != nil {
			return total, err
		}

		n, err = w.Write(lb)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}

	n, err := w.Write(lb)
	total += int64(n)
	return total, err
}

// Bytes returns the header block as written by WriteTo.
func (h *Header) Bytes() []byte {
	var buf bytes.Buffer
	_, _ = h.WriteTo(&buf)
	return buf.Bytes()
}

// String returns the header block as written by WriteTo.
func (h *Header) String() string {
	return string(h.Bytes())
}
