package header

import (
	"strings"

	"github.com/zostay/go-mimeframe/message/header/field"
	"github.com/zostay/go-mimeframe/message/header/param"
)

// paramValue returns the *param.Value held by f, parsing the field body and
// storing the result on the field the first time.
func paramValue(f *field.Field) (*param.Value, error) {
	if pv, isPV := f.Parsed().(*param.Value); isPV {
		return pv, nil
	}

	pv, err := param.Parse(f.Body())
	if err != nil {
		return nil, err
	}

	f.SetParsed(pv)
	return pv, nil
}

// paramValues is paramValue for comma-separated lists.
func paramValues(f *field.Field) (param.Values, error) {
	if vs, isList := f.Parsed().(param.Values); isList {
		return vs, nil
	}

	vs, err := param.ParseList(f.Body())
	if err != nil {
		return nil, err
	}

	f.SetParsed(vs)
	return vs, nil
}

// GetParamValue will return a param.Value for the header field matching the
// given name.
//
// This will return an error if it is unable to parse a param.Value. This will
// ErrNoSuchField if no field with the given name is present. It will return
// ErrManyFields if more than one field with the given name is found.
func (h *Header) GetParamValue(name string) (*param.Value, error) {
	f, err := h.getOne(name)
	if err != nil {
		return nil, err
	}

	pv, err := paramValue(f)
	if err != nil {
		return nil, err
	}

	// return a copy to prevent the cached value from being modified
	return pv.Clone(), nil
}

// SetParamValue will replace all existing header fields with the given name
// with a single param.Value header containing the given param.Value.
func (h *Header) SetParamValue(name string, body *param.Value) error {
	f, err := field.NewParsed(name, body.Clone())
	if err != nil {
		return err
	}
	h.setField(f)
	return nil
}

// GetParamValues parses every field with the given name as a comma-separated
// list of parameterized values and returns the elements of all of them in
// order.
//
// It returns nil and ErrNoSuchField if the field is not set on the header.
func (h *Header) GetParamValues(name string) (param.Values, error) {
	fs := h.GetAllFieldsNamed(name)
	if len(fs) == 0 {
		return nil, ErrNoSuchField
	}

	var all param.Values
	for _, f := range fs {
		vs, err := paramValues(f)
		if err != nil {
			return nil, err
		}
		for _, pv := range vs {
			all = append(all, pv.Clone())
		}
	}
	return all, nil
}

// getParamValueParam gets a parameter value of the param.Value header or
// returns an error.
func (h *Header) getParamValueParam(name, p string) (string, error) {
	pv, err := h.GetParamValue(name)
	if err != nil {
		return "", err
	}

	if v, found := pv.Lookup(p); found {
		return v, nil
	}

	return "", ErrNoSuchFieldParameter
}

// setParamValueParam sets a parameter value of the param.Value header. The
// header must already exist before calling this method.
func (h *Header) setParamValueParam(name, p, v string) error {
	pv, err := h.GetParamValue(name)
	if err != nil {
		return err
	}

	return h.SetParamValue(name, param.Modify(pv, param.Set(p, v)))
}

// GetContentType returns the Content-Type header as a param.Value.
//
// It returns nil and ErrNoSuchField if the field is not set on the header. It
// returns nil and ErrManyFields if the field is set more than once on the
// header. It will return nil and an error if there is a problem parsing the
// param.Value.
func (h *Header) GetContentType() (*param.Value, error) {
	return h.GetParamValue(ContentType)
}

// SetContentType replaces the Content-Type with the given param.Value.
func (h *Header) SetContentType(v *param.Value) {
	h.setField(mustParsedField(ContentType, v.Clone()))
}

// GetMediaType returns the lowercased MIME type set in the Content-Type
// header (other parameters will not be returned).
func (h *Header) GetMediaType() (string, error) {
	pv, err := h.GetContentType()
	if err != nil {
		return "", err
	}
	return pv.MediaType(), nil
}

// SetMediaType sets the MIME type of the Content-Type header, keeping any
// parameters already present.
func (h *Header) SetMediaType(mt string) {
	pv, err := h.GetContentType()
	if err != nil {
		pv = param.New(mt)
	} else {
		pv = param.Modify(pv, param.Change(mt))
	}
	h.SetContentType(pv)
}

// GetCharset returns the charset parameter of the Content-Type header. It
// returns ErrNoSuchFieldParameter when the header has no charset.
func (h *Header) GetCharset() (string, error) {
	return h.getParamValueParam(ContentType, param.Charset)
}

// SetCharset sets the charset parameter of the Content-Type header, which
// must already be present.
func (h *Header) SetCharset(c string) error {
	return h.setParamValueParam(ContentType, param.Charset, c)
}

// GetBoundary returns the boundary parameter of the Content-Type header. It
// returns ErrNoSuchFieldParameter when the header has no boundary.
func (h *Header) GetBoundary() (string, error) {
	return h.getParamValueParam(ContentType, param.Boundary)
}

// SetBoundary sets the boundary parameter of the Content-Type header, which
// must already be present.
func (h *Header) SetBoundary(b string) error {
	return h.setParamValueParam(ContentType, param.Boundary, b)
}

// GetContentDisposition returns the Content-Disposition header as a
// param.Value.
func (h *Header) GetContentDisposition() (*param.Value, error) {
	return h.GetParamValue(ContentDisposition)
}

// SetContentDisposition replaces the Content-Disposition with the given
// param.Value.
func (h *Header) SetContentDisposition(v *param.Value) {
	h.setField(mustParsedField(ContentDisposition, v.Clone()))
}

// GetFilename returns the filename parameter of the Content-Disposition
// header.
func (h *Header) GetFilename() (string, error) {
	return h.getParamValueParam(ContentDisposition, param.Filename)
}

// GetContentTransferEncoding returns the lowercased value of the
// Content-Transfer-Encoding header.
func (h *Header) GetContentTransferEncoding() (string, error) {
	pv, err := h.GetParamValue(ContentTransferEncoding)
	if err != nil {
		return "", err
	}
	return strings.ToLower(pv.Value()), nil
}

// SetContentTransferEncoding sets the Content-Transfer-Encoding header.
func (h *Header) SetContentTransferEncoding(cte string) {
	h.setField(mustField(ContentTransferEncoding, cte))
}

// GetTransferEncodings returns the lowercased codings listed in every
// Transfer-Encoding header in the order they were applied.
func (h *Header) GetTransferEncodings() ([]string, error) {
	vs, err := h.GetParamValues(TransferEncoding)
	if err != nil {
		return nil, err
	}
	return vs.MainValues(), nil
}

// SetTransferEncodings replaces the Transfer-Encoding headers with a single
// header listing the given codings.
func (h *Header) SetTransferEncodings(codings ...string) {
	h.setField(mustField(TransferEncoding, strings.Join(codings, ", ")))
}

// GetContentEncodings returns the lowercased codings listed in every
// Content-Encoding header in the order they were applied.
func (h *Header) GetContentEncodings() ([]string, error) {
	vs, err := h.GetParamValues(ContentEncoding)
	if err != nil {
		return nil, err
	}
	return vs.MainValues(), nil
}

// SetContentEncodings replaces the Content-Encoding headers with a single
// header listing the given codings.
func (h *Header) SetContentEncodings(codings ...string) {
	h.setField(mustField(ContentEncoding, strings.Join(codings, ", ")))
}

func mustParsedField(name string, pv *param.Value) *field.Field {
	f, err := field.NewParsed(name, pv)
	if err != nil {
		panic(err)
	}
	return f
}
