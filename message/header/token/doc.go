// Package token splits the body of a structured header field into the
// lexical pieces described by RFC 822: words (atoms and quoted strings),
// whitespace, special characters, comments, angle-bracketed addresses, and
// domain literals. Bracketed constructs are tokenized recursively.
//
// The tokenizer never fails. Unterminated quotes or brackets simply swallow
// the rest of the input, because header bodies seen in the wild are often
// broken and something usable is better than nothing.
package token
