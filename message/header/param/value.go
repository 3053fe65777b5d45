package param

import (
	"net/url"
	"strings"

	"github.com/zostay/go-mimeframe/message/header/field"
	"github.com/zostay/go-mimeframe/message/header/token"
)

const (
	// Charset is the name of the charset parameter that may be present in the
	// Content-Type header.
	Charset = "charset"

	// Boundary is the name of the boundary parameter that may be present in
	// the Content-Type header.
	Boundary = "boundary"

	// Filename is the name of the filename parameter that may be present in
	// the Content-Disposition header.
	Filename = "filename"

	// Name is the name of the name parameter of a form-data
	// Content-Disposition header.
	Name = "name"
)

// Param is a single name/value parameter. A flag parameter, one given
// without an "=", has an empty Value.
type Param struct {
	Name  string
	Value string
}

// Value represents a parsed parameterized header field, such as is used in
// the Content-Type and Content-Disposition headers. Parameters keep the order
// they were given in. A Value object is immutable: You cannot change it in
// place. However, a Modify() function is provided to perform transformation
// of a Value into a new Value.
type Value struct {
	v  string
	ps []Param
}

// Parse takes a header field body, parses it as a Value and returns it. It
// fails if an RFC 2047 encoded word in the body cannot be decoded.
func Parse(raw string) (*Value, error) {
	ts := token.StripComments(token.Parse(raw))
	return parseSegments(token.Split(ts, ';'))
}

// New creates a new parameterized header field with the given parameters.
func New(v string, ps ...Param) *Value {
	cps := make([]Param, len(ps))
	copy(cps, ps)
	return &Value{v, cps}
}

func parseSegments(segs [][]token.Token) (*Value, error) {
	pv := &Value{ps: make([]Param, 0, len(segs))}
	for i, seg := range segs {
		seg = token.Trim(seg)
		if len(seg) == 0 {
			continue
		}

		nts, vts, hasEq := splitAtEquals(seg)
		if i == 0 && !hasEq {
			v, err := decodeTokens(seg)
			if err != nil {
				return nil, err
			}
			pv.v = v
			continue
		}

		name := token.Text(token.Trim(nts))
		if !hasEq {
			pv.ps = append(pv.ps, Param{Name: name})
			continue
		}

		value, err := decodeTokens(token.Trim(vts))
		if err != nil {
			return nil, err
		}

		if strings.HasSuffix(name, "*") {
			if ev, ok := decodeExtended(value); ok {
				name = strings.TrimSuffix(name, "*")
				value = ev
			}
		}

		pv.ps = append(pv.ps, Param{Name: name, Value: value})
	}
	return pv, nil
}

// equalsIndex returns the index of the first "=" in s that is not part of an
// RFC 2047 encoded word, or -1.
func equalsIndex(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] != '=' {
			continue
		}
		if n := field.EncodedWordLen(s[i:]); n > 0 {
			i += n - 1
			continue
		}
		return i
	}
	return -1
}

// splitAtEquals looks for the first "=" in an unquoted word and splits the
// tokens around it. Encoded words are skipped over.
func splitAtEquals(ts []token.Token) (name, value []token.Token, found bool) {
	for i, t := range ts {
		w, isWord := t.(token.Word)
		if !isWord || w.Quoted {
			continue
		}

		ix := equalsIndex(w.Text)
		if ix < 0 {
			continue
		}

		name = append(name, ts[:i]...)
		if ix > 0 {
			name = append(name, token.Word{Text: w.Text[:ix]})
		}
		if ix < len(w.Text)-1 {
			value = append(value, token.Word{Text: w.Text[ix+1:]})
		}
		value = append(value, ts[i+1:]...)
		return name, value, true
	}
	return ts, nil, false
}

// decodeTokens renders tokens as a value. Quoted words are taken literally
// and everything else has RFC 2047 encoded words decoded.
func decodeTokens(ts []token.Token) (string, error) {
	var out, run strings.Builder
	flush := func() error {
		if run.Len() == 0 {
			return nil
		}
		dec, err := field.DecodeWords(run.String())
		if err != nil {
			return err
		}
		out.WriteString(dec)
		run.Reset()
		return nil
	}

	for _, t := range ts {
		if w, isWord := t.(token.Word); isWord && w.Quoted {
			if err := flush(); err != nil {
				return "", err
			}
			out.WriteString(w.Text)
			continue
		}
		run.WriteString(token.String([]token.Token{t}))
	}

	if err := flush(); err != nil {
		return "", err
	}
	return out.String(), nil
}

// decodeExtended decodes an RFC 2231 extended value: charset'lang'%XX...
func decodeExtended(v string) (string, bool) {
	parts := strings.SplitN(v, "'", 3)
	if len(parts) != 3 {
		return "", false
	}

	raw, err := url.PathUnescape(parts[2])
	if err != nil {
		return "", false
	}

	s, err := field.CharsetDecoder(strings.ToLower(parts[0]), []byte(raw))
	if err != nil {
		return "", false
	}
	return s, true
}

// Modifier is a modification to apply to a Value when calling the Modify()
// function.
type Modifier func(*Value)

// Change is a Modifier that replaces the primary value of the Value.
func Change(value string) Modifier {
	return func(pv *Value) {
		pv.v = value
	}
}

// Set is a Modifier that sets a parameter with the given name on the Value.
// An existing parameter with the same name (ignoring case) is replaced in
// place, otherwise the parameter is appended.
func Set(name, value string) Modifier {
	return func(pv *Value) {
		for i := range pv.ps {
			if strings.EqualFold(pv.ps[i].Name, name) {
				pv.ps[i].Value = value
				return
			}
		}
		pv.ps = append(pv.ps, Param{name, value})
	}
}

// Delete is a Modifier that removes the parameters with the given name from
// the Value.
func Delete(name string) Modifier {
	return func(pv *Value) {
		ps := pv.ps[:0]
		for _, p := range pv.ps {
			if !strings.EqualFold(p.Name, name) {
				ps = append(ps, p)
			}
		}
		pv.ps = ps
	}
}

// Modify clones a Value, applies the given modifications (if any) and returns
// the new Value. You can pass multiple changes to this function:
//
//	v, _ := param.Parse("multipart/mixed; boundary=abc123; charset=latin1")
//	nv := param.Modify(v, param.Change("multipart/alternate"), param.Set("charset", "utf-8"))
func Modify(pv *Value, changes ...Modifier) *Value {
	c := pv.Clone()
	for _, change := range changes {
		change(c)
	}
	return c
}

// Value returns the primary value of the Value. This is the value before the
// first semi-colon.
func (pv *Value) Value() string {
	return pv.v
}

// Disposition is a synonym for Value() and returns the Content-Disposition,
// such as "inline", "attachment", or "form-data".
func (pv *Value) Disposition() string {
	return strings.ToLower(pv.v)
}

// MediaType returns the lowercased primary value, e.g., "text/html",
// "image/jpeg", "multipart/mixed", etc.
func (pv *Value) MediaType() string {
	return strings.ToLower(pv.v)
}

// Type is only intended for use with the Content-Type header. It returns
// the part of MediaType() before the slash or an empty string if there is
// no slash.
func (pv *Value) Type() string {
	mt := pv.MediaType()
	if ix := strings.IndexByte(mt, '/'); ix >= 0 {
		return mt[:ix]
	}
	return ""
}

// Subtype is only intended for use with the Content-Type header. It returns
// the part of MediaType() after the slash or an empty string if there is no
// slash.
func (pv *Value) Subtype() string {
	mt := pv.MediaType()
	if ix := strings.IndexByte(mt, '/'); ix >= 0 {
		return mt[ix+1:]
	}
	return ""
}

// Params returns a copy of the parameters in order.
func (pv *Value) Params() []Param {
	ps := make([]Param, len(pv.ps))
	copy(ps, pv.ps)
	return ps
}

// Lookup returns the value of the first parameter with the given name,
// ignoring case, and whether it was present.
func (pv *Value) Lookup(k string) (string, bool) {
	for _, p := range pv.ps {
		if strings.EqualFold(p.Name, k) {
			return p.Value, true
		}
	}
	return "", false
}

// Parameter returns the value of the parameter with the given name.
func (pv *Value) Parameter(k string) string {
	v, _ := pv.Lookup(k)
	return v
}

// Filename returns the value of the "filename" parameter. It is intended for
// use with the Content-Disposition header.
func (pv *Value) Filename() string {
	return pv.Parameter(Filename)
}

// Name returns the value of the "name" parameter. It is intended for use
// with a form-data Content-Disposition header.
func (pv *Value) Name() string {
	return pv.Parameter(Name)
}

// Charset returns the value of the "charset" parameter. It is intended for
// use with the Content-Type header.
func (pv *Value) Charset() string {
	return pv.Parameter(Charset)
}

// Boundary returns the value of the "boundary" parameter. It is intended for
// use with the Content-Type header.
func (pv *Value) Boundary() string {
	return pv.Parameter(Boundary)
}

// String returns the serialized value of the Value including the primary
// value and all parameters in order.
func (pv *Value) String() string {
	var b strings.Builder
	b.WriteString(formatMain(pv.v))
	for _, p := range pv.ps {
		b.WriteString("; ")
		b.WriteString(formatName(p.Name))
		if p.Value != "" {
			b.WriteByte('=')
			b.WriteString(formatValue(p.Value))
		}
	}
	return b.String()
}

// Bytes returns the serialized value of the Value including the primary value
// and all parameters.
func (pv *Value) Bytes() []byte {
	return []byte(pv.String())
}

// Clone returns a deep copy of the Value.
func (pv *Value) Clone() *Value {
	return New(pv.v, pv.ps...)
}

// Values is the parsed form of a header holding a comma-separated list of
// parameterized values, such as Accept or Transfer-Encoding.
type Values []*Value

// ParseList parses a comma-separated list of parameterized values. Empty
// list elements are skipped.
func ParseList(raw string) (Values, error) {
	ts := token.StripComments(token.Parse(raw))

	vs := make(Values, 0, 2)
	for _, item := range token.Split(ts, ',') {
		if len(token.Trim(item)) == 0 {
			continue
		}

		pv, err := parseSegments(token.Split(item, ';'))
		if err != nil {
			return nil, err
		}
		vs = append(vs, pv)
	}
	return vs, nil
}

// String renders the list separated by commas.
func (vs Values) String() string {
	parts := make([]string, len(vs))
	for i, pv := range vs {
		parts[i] = pv.String()
	}
	return strings.Join(parts, ", ")
}

// MainValues returns the lowercased primary value of each element.
func (vs Values) MainValues() []string {
	out := make([]string, len(vs))
	for i, pv := range vs {
		out[i] = strings.ToLower(pv.v)
	}
	return out
}
