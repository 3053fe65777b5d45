package token

import "strings"

// String renders tokens back into header text that Parse will turn into
// the same tokens again. Quoted words are re-quoted and escaped, and
// bracketed tokens get their brackets back.
func String(ts []Token) string {
	var b strings.Builder
	write(&b, ts, true)
	return b.String()
}

// Text renders tokens as plain text: quoted words lose their quotes and
// comments are dropped. This is the form wanted when a sequence of tokens
// names a value rather than a piece of syntax.
func Text(ts []Token) string {
	var b strings.Builder
	write(&b, ts, false)
	return b.String()
}

func write(b *strings.Builder, ts []Token, syntax bool) {
	for _, t := range ts {
		switch v := t.(type) {
		case Word:
			if v.Quoted && syntax {
				b.WriteString(Quote(v.Text))
			} else {
				b.WriteString(v.Text)
			}
		case Space:
			b.WriteByte(' ')
		case Special:
			b.WriteByte(v.Char)
		case Comment:
			if syntax {
				b.WriteByte('(')
				write(b, v.Tokens, syntax)
				b.WriteByte(')')
			}
		case Address:
			b.WriteByte('<')
			write(b, v.Tokens, syntax)
			b.WriteByte('>')
		case DomainLiteral:
			b.WriteByte('[')
			write(b, v.Tokens, syntax)
			b.WriteByte(']')
		}
	}
}

// Quote wraps s in double quotes, escaping quotes and backslashes.
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		if s[i] == '"' || s[i] == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	b.WriteByte('"')
	return b.String()
}

// Split breaks a token sequence apart at every top-level Special token
// matching c. Tokens nested in comments, addresses, and domain literals are
// never split. The separators are not included in the result.
func Split(ts []Token, c byte) [][]Token {
	parts := make([][]Token, 0, 2)
	last := 0
	for i, t := range ts {
		if sp, isSpecial := t.(Special); isSpecial && sp.Char == c {
			parts = append(parts, ts[last:i])
			last = i + 1
		}
	}
	return append(parts, ts[last:])
}

// StripComments returns the tokens with all top-level comments removed.
func StripComments(ts []Token) []Token {
	out := make([]Token, 0, len(ts))
	for _, t := range ts {
		if _, isComment := t.(Comment); !isComment {
			out = append(out, t)
		}
	}
	return out
}

// Trim drops leading and trailing Space tokens.
func Trim(ts []Token) []Token {
	for len(ts) > 0 {
		if _, isSpace := ts[0].(Space); !isSpace {
			break
		}
		ts = ts[1:]
	}
	for len(ts) > 0 {
		if _, isSpace := ts[len(ts)-1].(Space); !isSpace {
			break
		}
		ts = ts[:len(ts)-1]
	}
	return ts
}
