// Package coding provides push-style decoders for the content codings used
// by MIME bodies: the Content-Transfer-Encoding values (base64,
// quoted-printable, and the identity family) and the gzip coding used by
// Transfer-Encoding and Content-Encoding.
//
// A Decoder is fed encoded bytes with Decode as they arrive and is told the
// body is complete with EndOfData. Each decoder forwards decoded bytes to the
// next Decoder, so a chain built by a Registry ends in a sink such as
// WriterSink or an entity that collects the body. Decoders never hold on to
// the slice passed to Decode after returning.
//
// The encoders returned by NewBase64Encoder, NewQuotedPrintableEncoder,
// NewGzipEncoder, and NewAsIsEncoder go the other way. They are used when
// sending and when building test fixtures.
package coding
