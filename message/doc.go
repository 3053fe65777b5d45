// Package message turns framed byte streams into MIME entities and builds
// entities to send.
//
// Receive reads one message from a transport.Source. The header block is read
// first, and the Registry picks an Entity for the Content-Type: a *Multipart
// for multipart/*, a *Form for application/x-www-form-urlencoded, and an
// *Opaque for anything else. The body is then framed by Content-Length or
// chunked Transfer-Encoding, its content codings are undone, and the decoded
// bytes are handed to the entity:
//
//	ent, rest, err := message.Receive(ctx, transport.FromReader(conn, 0))
//	if err != nil {
//	  return err
//	}
//
// A *Multipart splits its body with a MultipartParser as the bytes arrive.
// Each part gets its own entity and its own content decoding, so a part may
// itself be a *Multipart, up to the depth set by WithMaxDepth.
//
// Parse does the same for a message whose body runs to the end of the
// stream, as in a mail file.
//
// To build a message, use a Buffer: write a body to it, or add parts to it,
// and call Opaque or Multipart. WriteTo on the result renders the entity,
// applying content codings on the way out.
package message
