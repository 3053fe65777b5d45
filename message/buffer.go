package message

import (
	"bytes"
	"context"
	"errors"

	"github.com/zostay/go-mimeframe/message/header"
)

// DefaultMultipartContentType is the Content-Type given to a multipart
// Buffer that has none.
const DefaultMultipartContentType = "multipart/mixed"

// BufferMode tells which way a Buffer is being filled.
type BufferMode int

const (
	// ModeUnset means nothing has been written or added yet.
	ModeUnset BufferMode = iota

	// ModeSingle means the Buffer has been written to as an io.Writer.
	ModeSingle

	// ModeMultipart means parts have been added to the Buffer.
	ModeMultipart
)

var (
	// ErrPartsBuffer is returned by Write when parts have already been added.
	ErrPartsBuffer = errors.New("message buffer is in parts mode")

	// ErrOpaqueBuffer is returned by Add when the Buffer has already been
	// written to.
	ErrOpaqueBuffer = errors.New("message buffer is in opaque mode")

	// ErrModeUnset is the panic value of Opaque and Multipart when nothing
	// has been written or added.
	ErrModeUnset = errors.New("no message has been built")

	// ErrParsesAsNotMultipart is returned by Multipart when the Buffer holds
	// bytes whose header does not describe a multipart body.
	ErrParsesAsNotMultipart = errors.New("cannot parse non-multipart message as multipart")
)

// Buffer builds a message to send. It is filled one of two ways:
//
// * Write the body bytes to it as an io.Writer (ModeSingle).
//
// * Add parts to it (ModeMultipart).
//
// The two cannot be mixed. Either way, Opaque or Multipart returns the
// finished message.
type Buffer struct {
	header.Header
	parts []Part
	buf   *bytes.Buffer
}

// Mode reports how the Buffer has been filled so far.
func (b *Buffer) Mode() BufferMode {
	if b.parts != nil {
		return ModeMultipart
	} else if b.buf != nil {
		return ModeSingle
	}
	return ModeUnset
}

// SetMultipart puts the Buffer in ModeMultipart with room for capacity
// parts. It fails with ErrOpaqueBuffer if the Buffer is in ModeSingle.
func (b *Buffer) SetMultipart(capacity int) error {
	return b.initParts(capacity)
}

// SetSingle puts the Buffer in ModeSingle, which gives an empty body if
// nothing is written. It fails with ErrPartsBuffer if the Buffer is in
// ModeMultipart.
func (b *Buffer) SetSingle() error {
	return b.initBuffer()
}

func (b *Buffer) initBuffer() error {
	if b.parts != nil {
		return ErrPartsBuffer
	}
	if b.buf == nil {
		b.buf = &bytes.Buffer{}
	}
	return nil
}

func (b *Buffer) initParts(capacity int) error {
	if capacity == 0 {
		capacity = 10
	}
	if b.buf != nil {
		return ErrOpaqueBuffer
	}
	if b.parts == nil {
		b.parts = make([]Part, 0, capacity)
	}
	return nil
}

// Add appends parts to the message.
func (b *Buffer) Add(msgs ...Part) error {
	if err := b.initParts(0); err != nil {
		return err
	}
	b.parts = append(b.parts, msgs...)
	return nil
}

// Write appends body bytes to the message.
func (b *Buffer) Write(p []byte) (int, error) {
	if err := b.initBuffer(); err != nil {
		return 0, err
	}
	return b.buf.Write(p)
}

func (b *Buffer) prepareForMultipartOutput() {
	if _, err := b.GetMediaType(); errors.Is(err, header.ErrNoSuchField) {
		b.SetMediaType(DefaultMultipartContentType)
	}

	if _, err := b.GetBoundary(); errors.Is(err, header.ErrNoSuchFieldParameter) {
		_ = b.SetBoundary(GenerateBoundary())
	}
}

// Opaque returns the message as an *Opaque. It panics with ErrModeUnset if
// nothing has been written or added.
//
// In ModeSingle the body is the bytes written. WriteTo on the result applies
// the content codings named in the header.
//
// In ModeMultipart the parts are rendered into the body. A missing
// Content-Type is set to DefaultMultipartContentType and a missing boundary
// is generated with GenerateBoundary.
//
// The Buffer should not be used afterward.
func (b *Buffer) Opaque() *Opaque {
	switch b.Mode() {
	case ModeSingle:
		return &Opaque{
			Header: b.Header,
			Reader: b.buf,
		}
	case ModeMultipart:
		b.prepareForMultipartOutput()
		boundary, _ := b.GetBoundary()

		buf := &bytes.Buffer{}
		_, _ = writeParts(buf, b.parts, boundary, b.Break())

		return &Opaque{
			Header: b.Header,
			Reader: buf,
		}
	}
	panic(ErrModeUnset)
}

// OpaqueAlreadyEncoded works just like Opaque, but marks the body as already
// carrying its content codings, so WriteTo writes it untouched.
func (b *Buffer) OpaqueAlreadyEncoded() *Opaque {
	msg := b.Opaque()
	msg.encoded = true
	return msg
}

// Multipart returns the message as a *Multipart. It panics with
// ErrModeUnset if nothing has been written or added.
//
// A missing Content-Type is set to DefaultMultipartContentType and a missing
// boundary is generated with GenerateBoundary.
//
// In ModeMultipart the added parts become the parts of the result.
//
// In ModeSingle the bytes written are split into parts by a MultipartParser,
// one level deep. If the header does not describe a multipart body, the
// error is ErrParsesAsNotMultipart. Parse errors are returned as they are.
//
// The Buffer should not be used afterward.
func (b *Buffer) Multipart() (*Multipart, error) {
	mode := b.Mode()
	if mode == ModeUnset {
		panic(ErrModeUnset)
	}

	b.prepareForMultipartOutput()
	if mode == ModeMultipart {
		return &Multipart{
			Header: b.Header,
			parts:  b.parts,
		}, nil
	}

	ent, err := NewParser(WithoutRecursion()).NewEntity(&b.Header, 0)
	if err != nil {
		return nil, err
	}

	mm, isMultipart := ent.(*Multipart)
	if !isMultipart {
		return nil, ErrParsesAsNotMultipart
	}

	ctx := context.Background()
	if err := mm.Decode(ctx, b.buf.Bytes()); err != nil {
		return nil, err
	}
	if err := mm.EndOfData(ctx); err != nil {
		return nil, err
	}
	return mm, nil
}
