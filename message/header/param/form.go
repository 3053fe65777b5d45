package param

import (
	"fmt"
	"net/url"
	"strings"
)

// EncodeForm renders parameters in application/x-www-form-urlencoded form,
// keeping their order. Unlike url.Values, which is a map, duplicate names
// and ordering survive a round trip through ParseForm.
func EncodeForm(ps []Param) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = url.QueryEscape(p.Name) + "=" + url.QueryEscape(p.Value)
	}
	return strings.Join(parts, "&")
}

// ParseForm parses an application/x-www-form-urlencoded string into ordered
// parameters. A pair with no "=" yields an empty value.
func ParseForm(s string) ([]Param, error) {
	ps := make([]Param, 0, strings.Count(s, "&")+1)
	for _, pair := range strings.Split(s, "&") {
		if pair == "" {
			continue
		}

		rawName, rawValue, _ := strings.Cut(pair, "=")
		name, err := url.QueryUnescape(rawName)
		if err != nil {
			return nil, fmt.Errorf("bad form parameter name %q: %w", rawName, err)
		}

		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return nil, fmt.Errorf("bad form parameter value %q: %w", rawValue, err)
		}

		ps = append(ps, Param{name, value})
	}
	return ps, nil
}
