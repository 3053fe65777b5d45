// Package field holds the low-level representation of a single header field
// and the helpers for getting fields in and out of their wire form: splitting
// a header block into (possibly folded) lines, parsing a line into a Field,
// and decoding or encoding RFC 2047 encoded words.
package field
