// Package transfer handles the framing of a message body on a stream: the
// fixed-length identity transfer selected by Content-Length and the chunked
// transfer selected by Transfer-Encoding. Receivers are fed buffers as they
// arrive and report how many bytes belonged to the body, so whatever follows
// the body in the same buffer is left for the caller.
//
// NewReceiver picks the receiver from the header and builds the coding chain
// that sits between the framing and the caller's sink. The remaining
// Transfer-Encoding codings, the Content-Transfer-Encoding, and the
// Content-Encoding are all undone by that chain.
//
// Send and ChunkedWriter mirror this for output.
package transfer
