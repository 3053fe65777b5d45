package field

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyName is returned when a header field is created or parsed without
// a name.
var ErrEmptyName = errors.New("header field name is empty")

// Field is a single header field. The name is kept exactly as given and a
// case-folded key is kept beside it for lookups.
//
// The body is held in one of two forms: the raw text as it appeared on the
// wire, or a parsed structured value (such as a *param.Value) that was asked
// for by a caller. Only one form is held at a time. Asking for the text of a
// parsed body renders the structured value; asking for a structured value
// is left to the caller, who parses Body() and stores the result with
// SetParsed().
type Field struct {
	name   string
	key    string
	raw    string
	parsed fmt.Stringer
}

// Key returns the case-folded form of a field name used for lookups.
func Key(name string) string {
	return strings.ToLower(name)
}

// New returns a field with a raw body. It fails with ErrEmptyName if name is
// empty.
func New(name, body string) (*Field, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	return &Field{name: name, key: Key(name), raw: body}, nil
}

// NewParsed returns a field holding a structured body. It fails with
// ErrEmptyName if name is empty.
func NewParsed(name string, v fmt.Stringer) (*Field, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	return &Field{name: name, key: Key(name), parsed: v}, nil
}

// Name returns the name of the field as it was given.
func (f *Field) Name() string {
	return f.name
}

// Key returns the case-folded name of the field.
func (f *Field) Key() string {
	return f.key
}

// SetName renames the field.
func (f *Field) SetName(name string) {
	f.name = name
	f.key = Key(name)
}

// Body returns the body of the field as text. A parsed body is rendered.
func (f *Field) Body() string {
	if f.parsed != nil {
		return f.parsed.String()
	}
	return f.raw
}

// SetBody replaces the body with raw text, dropping any parsed value.
func (f *Field) SetBody(body string) {
	f.raw = body
	f.parsed = nil
}

// Parsed returns the structured body or nil if the body is still raw.
func (f *Field) Parsed() fmt.Stringer {
	return f.parsed
}

// SetParsed replaces the body with a structured value, dropping the raw
// text.
func (f *Field) SetParsed(v fmt.Stringer) {
	f.parsed = v
	f.raw = ""
}

// String returns the complete field as "Name: body".
func (f *Field) String() string {
	return f.name + ": " + f.Body()
}

// Bytes returns the complete field as a slice of bytes.
func (f *Field) Bytes() []byte {
	return []byte(f.String())
}

// Clone returns a copy of the field. Parsed values are treated as immutable
// and shared.
func (f *Field) Clone() *Field {
	c := *f
	return &c
}
