package coding

import (
	"context"
	"errors"
	"io"
)

// Errors returned by decoders and registries.
var (
	// ErrUnsupportedCoding is returned by a strict Registry when asked to
	// build a chain naming a coding it does not know.
	ErrUnsupportedCoding = errors.New("unsupported content coding")

	// ErrCorruptBase64 is returned when base64 input holds bytes outside the
	// alphabet or ends with a single dangling character.
	ErrCorruptBase64 = errors.New("corrupt base64 data")
)

// Decoder receives encoded body bytes. Decode may block to apply
// backpressure and must not retain p after it returns. EndOfData is called
// exactly once after the last Decode, and a decoder passes it on to the next
// decoder after flushing anything it was holding.
type Decoder interface {
	Decode(ctx context.Context, p []byte) error
	EndOfData(ctx context.Context) error
}

type writerSink struct {
	w io.Writer
}

// WriterSink returns a Decoder that writes every byte it is given to w. It
// does nothing at the end of data.
func WriterSink(w io.Writer) Decoder {
	return &writerSink{w}
}

func (s *writerSink) Decode(ctx context.Context, p []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.w.Write(p)
	return err
}

func (s *writerSink) EndOfData(context.Context) error {
	return nil
}

type discard struct{}

// Discard is a Decoder that throws everything away.
var Discard Decoder = discard{}

func (discard) Decode(context.Context, []byte) error { return nil }
func (discard) EndOfData(context.Context) error      { return nil }

type passthrough struct {
	next Decoder
}

// Passthrough returns a Decoder that hands bytes to next unchanged. It is
// what identity codings decode with.
func Passthrough(next Decoder) Decoder {
	return &passthrough{next}
}

func (d *passthrough) Decode(ctx context.Context, p []byte) error {
	return d.next.Decode(ctx, p)
}

func (d *passthrough) EndOfData(ctx context.Context) error {
	return d.next.EndOfData(ctx)
}
