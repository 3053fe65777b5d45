package transfer

import (
	"errors"
	"fmt"
)

// Errors wrapped by *FramingError.
var (
	// ErrMissingContentLength is returned by NewReceiver when a body is not
	// chunked and has no Content-Length, so there is no safe way to tell
	// where it ends.
	ErrMissingContentLength = errors.New("missing content length for identity transfer")

	// ErrInvalidContentLength is returned by NewReceiver when the
	// Content-Length cannot be used.
	ErrInvalidContentLength = errors.New("invalid content length")

	// ErrInvalidChunkSize means a chunk size line held something other than
	// hex digits, an extension, or whitespace.
	ErrInvalidChunkSize = errors.New("invalid chunk size")

	// ErrChunkSizeTooLarge means a chunk size has more digits than allowed.
	ErrChunkSizeTooLarge = errors.New("chunk size too large")

	// ErrMalformedChunk means a chunk was not followed by CRLF or its size
	// line was not terminated properly.
	ErrMalformedChunk = errors.New("malformed chunk")

	// ErrMalformedTrailer means a trailer line is not a header field.
	ErrMalformedTrailer = errors.New("malformed trailer")

	// ErrUnexpectedEOF is returned when the stream ends before the body is
	// complete.
	ErrUnexpectedEOF = errors.New("unexpected end of stream in body")
)

// FramingError reports a body whose framing is broken. Offset counts the
// bytes of body framing consumed before the problem was found.
type FramingError struct {
	Offset int64
	Err    error
}

// Error returns the error message.
func (e *FramingError) Error() string {
	return fmt.Sprintf("framing error at offset %d: %v", e.Offset, e.Err)
}

// Unwrap returns the wrapped error.
func (e *FramingError) Unwrap() error {
	return e.Err
}
