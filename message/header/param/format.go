package param

import (
	"strings"

	"github.com/zostay/go-mimeframe/message/header/field"
	"github.com/zostay/go-mimeframe/message/header/token"
)

// tspecials from RFC 2045, plus whitespace.
const tspecials = "()<>@,;:\\\"/[]?= \t"

// syntaxBreaking are the characters that would change how a primary value
// or parameter name tokenizes.
const syntaxBreaking = "()<>[];,=\\\" \t"

func formatValue(v string) string {
	switch {
	case field.NeedsEncoding(v):
		return field.Encode(v)
	case strings.ContainsAny(v, tspecials), strings.Contains(v, "=?"):
		return token.Quote(v)
	}
	return v
}

func formatMain(v string) string {
	switch {
	case field.NeedsEncoding(v):
		return field.Encode(v)
	case strings.ContainsAny(v, syntaxBreaking), strings.Contains(v, "=?"):
		return token.Quote(v)
	}
	return v
}

func formatName(n string) string {
	if strings.ContainsAny(n, syntaxBreaking) {
		return token.Quote(n)
	}
	return n
}
