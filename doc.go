// Package mimeframe reads and writes MIME entities as they arrive over a
// network connection. The body of an entity shows up in buffers of whatever
// size the connection hands over, so every state machine here picks up
// exactly where the previous buffer left off, without losing or repeating a
// byte.
//
// The code is split according to the part of the entity being handled:
//
//   - message/header/token splits structured header values into tokens.
//   - message/header/param reads parameterized values such as Content-Type,
//     including RFC 2231 continuations and RFC 2047 encoded words.
//   - message/header holds the ordered list of fields of a header block.
//   - message/coding undoes (and applies) the base64, quoted-printable, and
//     gzip codings as a chain of push decoders.
//   - message/transfer finds the end of a body using Content-Length or the
//     chunked transfer coding, and frames bodies for sending.
//   - message parses multipart bodies part by part as bytes arrive and picks
//     an entity for each media type from a registry.
//   - transport feeds buffers from a byte source to any of the above without
//     asking for more until the last buffer is used up.
//
// To receive an entity from a connection, use message.Receive(). It reads the
// header, works out how the body is framed, decodes it into the entity
// picked for its Content-Type, and returns whatever bytes were read past the
// end of the body so the next entity on the connection can start from them.
// For a stored message whose body runs to the end of the file, use
// message.Parse() instead.
//
// To build new entities, use message.Buffer, and to send one with framing a
// receiver can find the end of, use transfer.Send().
//
// As much as possible, I've tried to keep round-tripping working. A header
// that is read and written back out without changes will be byte-for-byte
// identical, and the same goes for bodies whose codings re-encode to the same
// bytes. The mimeframe command can show a diff when they do not.
package mimeframe
