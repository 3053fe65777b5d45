package token

import (
	"strings"
)

// Token is one lexical element of a header field body. The concrete types
// are Word, Space, Special, Comment, Address, and DomainLiteral. Tokens are
// immutable once produced.
type Token interface {
	token()
}

// Word is a run of ordinary characters or the content of a quoted string.
// When Quoted is true, Text holds the quoted string with its backslash
// escapes already resolved.
type Word struct {
	Text   string
	Quoted bool
}

// Space stands in for a run of one or more whitespace characters.
type Space struct{}

// Special is one of the special characters @ , ; : .
type Special struct {
	Char byte
}

// Comment is a parenthesized comment.
type Comment struct {
	Tokens []Token
}

// Address is an angle-bracketed address, such as <bob@example.com>.
type Address struct {
	Tokens []Token
}

// DomainLiteral is a square-bracketed domain literal, such as [127.0.0.1].
type DomainLiteral struct {
	Tokens []Token
}

func (Word) token()          {}
func (Space) token()         {}
func (Special) token()       {}
func (Comment) token()       {}
func (Address) token()       {}
func (DomainLiteral) token() {}

// Parse tokenizes a raw header field body.
func Parse(raw string) []Token {
	ts, _ := tokenize(raw, 0, 0)
	return ts
}

// IsSpecial returns true for the characters Parse turns into Special tokens.
func IsSpecial(c byte) bool {
	switch c {
	case '@', ',', ';', ':', '.':
		return true
	}
	return false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// tokenize reads tokens from s starting at i until it consumes the stop
// character or reaches the end of input. A stop of 0 means read to the end.
// It returns the tokens and the index just past what was consumed.
func tokenize(s string, i int, stop byte) ([]Token, int) {
	ts := make([]Token, 0, 4)

	var word strings.Builder
	flush := func() {
		if word.Len() > 0 {
			ts = append(ts, Word{Text: word.String()})
			word.Reset()
		}
	}

	for i < len(s) {
		c := s[i]
		switch {
		case stop != 0 && c == stop:
			flush()
			return ts, i + 1

		case isSpace(c):
			flush()
			for i < len(s) && isSpace(s[i]) {
				i++
			}
			ts = append(ts, Space{})
			continue

		case c == '"':
			flush()
			var text string
			text, i = quoted(s, i+1)
			ts = append(ts, Word{Text: text, Quoted: true})
			continue

		case c == '(':
			flush()
			var inner []Token
			inner, i = tokenize(s, i+1, ')')
			ts = append(ts, Comment{inner})
			continue

		case c == '<':
			flush()
			var inner []Token
			inner, i = tokenize(s, i+1, '>')
			ts = append(ts, Address{inner})
			continue

		case c == '[':
			flush()
			var inner []Token
			inner, i = tokenize(s, i+1, ']')
			ts = append(ts, DomainLiteral{inner})
			continue

		case IsSpecial(c):
			flush()
			ts = append(ts, Special{c})

		default:
			word.WriteByte(c)
		}
		i++
	}

	flush()
	return ts, i
}

// quoted reads the content of a quoted string that starts at i (just past
// the opening quote) and returns it with escapes resolved along with the
// index just past the closing quote.
func quoted(s string, i int) (string, int) {
	var b strings.Builder
	for i < len(s) {
		c := s[i]
		switch c {
		case '"':
			return b.String(), i + 1
		case '\\':
			i++
			if i < len(s) {
				b.WriteByte(s[i])
			}
		default:
			b.WriteByte(c)
		}
		i++
	}
	return b.String(), i
}
