// Package param provides a tool for dealing with parameterized headers. These
// headers include the Content-Type and Content-Disposition header. In
// addition, it provides some helper methods for breaking down the MIME types
// that get set in the Content-Type header and for the ordered name/value
// pairs of application/x-www-form-urlencoded bodies.
//
// Values are built from the tokens produced by the token package. Comments
// are ignored, unquoted text has RFC 2047 encoded words decoded, and quoted
// strings are taken literally.
package param
