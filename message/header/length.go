package header

import (
	"fmt"
	"strconv"
	"strings"
)

// GetContentLength returns the value of the Content-Length header. Repeated
// Content-Length fields are accepted only when they all agree.
//
// It returns ErrNoSuchField if the field is missing and an error wrapping
// ErrBadContentLength if the value is not a non-negative decimal integer.
func (h *Header) GetContentLength() (int64, error) {
	bs, err := h.GetAll(ContentLength)
	if err != nil {
		return 0, err
	}

	n := int64(-1)
	for _, b := range bs {
		v, err := parseLength(b)
		if err != nil {
			return 0, err
		}

		if n >= 0 && v != n {
			return 0, fmt.Errorf("%w: conflicting values %d and %d", ErrBadContentLength, n, v)
		}
		n = v
	}
	return n, nil
}

func parseLength(b string) (int64, error) {
	s := strings.TrimSpace(b)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrBadContentLength)
	}

	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("%w: %q", ErrBadContentLength, b)
		}
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadContentLength, err)
	}
	return n, nil
}

// SetContentLength replaces the Content-Length header.
func (h *Header) SetContentLength(n int64) {
	h.setField(mustField(ContentLength, strconv.FormatInt(n, 10)))
}
