package message

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/zostay/go-mimeframe/message/coding"
	"github.com/zostay/go-mimeframe/message/header"
	"github.com/zostay/go-mimeframe/message/header/field"
	"github.com/zostay/go-mimeframe/message/transfer"
	"github.com/zostay/go-mimeframe/transport"
)

// Constants related to Parser options.
const (
	// DefaultMaxMultipartDepth is the default depth the parser will recurse
	// into a message.
	DefaultMaxMultipartDepth = 10

	// DefaultChunkSize is the default size of the reads made by Parse.
	DefaultChunkSize = 16_384

	// DefaultMaxHeaderLength is the default maximum byte length to scan before
	// giving up on finding the end of the header.
	DefaultMaxHeaderLength = bufio.MaxScanTokenSize

	// DefaultMediaType is assumed for a body with no Content-Type.
	DefaultMediaType = "text/plain"
)

// Errors that occur during parsing.
var (
	// ErrNoBoundary is returned when the boundary parameter is not set on
	// the Content-Type field of a multipart message.
	ErrNoBoundary = errors.New("the boundary parameter is missing from Content-Type")

	// ErrLargeHeader is returned when a header is longer than the configured
	// WithMaxHeaderLength option (or the default, DefaultMaxHeaderLength).
	ErrLargeHeader = errors.New("the header exceeds the maximum parse length")

	// ErrTruncatedHeader means the stream ended before the blank line that
	// ends a header block.
	ErrTruncatedHeader = errors.New("stream ended inside a header block")

	// ErrTruncatedMultipart means a multipart body ended before its closing
	// boundary.
	ErrTruncatedMultipart = errors.New("stream ended before the closing boundary")

	// ErrMalformedBoundary means a boundary line was followed by something
	// other than "--", whitespace, or a line break.
	ErrMalformedBoundary = errors.New("malformed boundary line")

	// ErrBadForm means a form body could not be decoded.
	ErrBadForm = errors.New("malformed form body")

	// ErrNoParser is returned by a Multipart built by hand when it is asked
	// to decode a body.
	ErrNoParser = errors.New("multipart has no part parser")
)

var splits = [][]byte{
	[]byte("\x0d\x0a\x0d\x0a"), // \r\n\r\n
	[]byte("\x0a\x0d\x0a\x0d"), // \n\r\n\r, extremely unlikely, possibly never
	[]byte("\x0a\x0a"),         // \n\n
	[]byte("\x0d\x0d"),         // \r\r
}

// Parser holds the settings used to turn a stream into entities. A Parser
// is not changed by use and may be shared.
type Parser struct {
	registry     *Registry
	codings      *coding.Registry
	logger       *slog.Logger
	maxHeaderLen int
	maxDepth     int
	chunkSize    int
	transferOpts []transfer.Option
}

// ParseOption refers to options that may be passed to NewParser, Parse, or
// Receive to modify how the parser works.
type ParseOption func(pr *Parser)

// NewParser returns a Parser configured with the given options.
func NewParser(opts ...ParseOption) *Parser {
	pr := &Parser{
		registry:     DefaultRegistry,
		codings:      coding.DefaultRegistry,
		maxHeaderLen: DefaultMaxHeaderLength,
		maxDepth:     DefaultMaxMultipartDepth,
		chunkSize:    DefaultChunkSize,
	}
	for _, opt := range opts {
		opt(pr)
	}
	if pr.logger == nil {
		pr.logger = slog.Default()
	}
	return pr
}

// WithMaxHeaderLength is a ParseOption that sets the maximum size a header
// block is allowed to reach before parsing exits with an ErrLargeHeader
// error. This applies to the top-level header and to the header of every
// part. Setting this to a value less than or equal to 0 will result in
// there being no maximum length for the top-level header and the default
// for parts. The default value is DefaultMaxHeaderLength.
func WithMaxHeaderLength(n int) ParseOption {
	return func(pr *Parser) { pr.maxHeaderLen = n }
}

// WithChunkSize is a ParseOption that controls how many bytes Parse reads
// at a time. The default chunk size is DefaultChunkSize.
func WithChunkSize(chunkSize int) ParseOption {
	return func(pr *Parser) { pr.chunkSize = chunkSize }
}

// WithMaxDepth is a ParseOption that controls how deep the parser will go in
// recursively parsing a multipart message. A multipart body found at the
// maximum depth is kept whole in an *Opaque.
func WithMaxDepth(maxDepth int) ParseOption {
	return func(pr *Parser) { pr.maxDepth = maxDepth }
}

// WithoutMultipart is a ParseOption that will not allow parsing of any
// multipart messages. The entity returned will never be a *Multipart.
func WithoutMultipart() ParseOption {
	return func(pr *Parser) { pr.maxDepth = 0 }
}

// WithoutRecursion is a ParseOption that will only allow a single level of
// multipart parsing.
func WithoutRecursion() ParseOption {
	return func(pr *Parser) { pr.maxDepth = 1 }
}

// WithUnlimitedRecursion is a ParseOption that will allow the parser to parse
// sub-parts of any depth.
func WithUnlimitedRecursion() ParseOption {
	return func(pr *Parser) { pr.maxDepth = -1 }
}

// WithRegistry sets the registry used to pick an entity for each media type.
func WithRegistry(r *Registry) ParseOption {
	return func(pr *Parser) { pr.registry = r }
}

// WithCodings sets the registry used to undo content codings.
func WithCodings(r *coding.Registry) ParseOption {
	return func(pr *Parser) { pr.codings = r }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ParseOption {
	return func(pr *Parser) { pr.logger = logger }
}

// WithTransferOptions adds options passed to transfer.NewReceiver by
// Receive.
func WithTransferOptions(opts ...transfer.Option) ParseOption {
	return func(pr *Parser) { pr.transferOpts = append(pr.transferOpts, opts...) }
}

// NewEntity asks the registry for an entity to receive a body with the given
// header. A missing Content-Type means DefaultMediaType. A Content-Type that
// cannot be read, or a multipart type found at the maximum depth, gets an
// *Opaque.
func (pr *Parser) NewEntity(h *header.Header, depth int) (Entity, error) {
	mt, err := h.GetMediaType()
	switch {
	case errors.Is(err, header.ErrNoSuchField):
		mt = DefaultMediaType
	case err != nil:
		pr.logger.Warn("unreadable content type, keeping body opaque",
			slog.Any("error", err))
		return NewOpaque(h), nil
	}

	if isMultipartType(mt) && pr.maxDepth >= 0 && depth >= pr.maxDepth {
		pr.logger.Debug("multipart depth limit reached, keeping body opaque",
			slog.String("media-type", mt),
			slog.Int("depth", depth))
		return NewOpaque(h), nil
	}

	f, ok := pr.registry.Lookup(mt)
	if !ok {
		return NewOpaque(h), nil
	}
	return f(pr, h, depth)
}

// searchForSplit looks for the earliest header/body split. Returns -1, nil if
// none is found. If the header/body split is found, it returns the location of the
// split (including the split newlines) and the line break to use with the
// header as a slice of bytes.
func searchForSplit(buf []byte, atStart bool) (pos int, crlf []byte) {
	if atStart {
		// an empty header is just a line break
		for _, s := range splits {
			if bytes.HasPrefix(buf, s[0:len(s)/2]) {
				return len(s) / 2, s[0 : len(s)/2]
			}
		}
	}

	best := -1
	for _, s := range splits {
		if testPos := bytes.Index(buf, s); testPos > -1 && (best < 0 || testPos < best) {
			best = testPos
			pos, crlf = testPos+len(s), s[0:len(s)/2]
		}
	}
	if best < 0 {
		return -1, nil
	}
	return pos, crlf
}

// readHeader pulls buffers from src until the end of the header block is
// found. It returns the parsed header and the bytes after the header block.
//
// When lenient is set, a stream that ends before the blank line is all
// header and no body. Otherwise that is a framing error.
func (pr *Parser) readHeader(ctx context.Context, src transport.Source, lenient bool) (*header.Header, []byte, error) {
	var buf []byte
	searched := 0
	for {
		p, err := src.Next(ctx)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, nil, err
		}
		buf = append(buf, p...)

		pos, crlf := searchForSplit(buf[searched:], searched == 0)
		if pos >= 0 {
			pos += searched
			if pr.maxHeaderLen > 0 && pos > pr.maxHeaderLen {
				return nil, nil, ErrLargeHeader
			}
			h, perr := pr.parseHeader(buf[:pos-len(crlf)], header.Break(crlf))
			return h, buf[pos:], perr
		}

		if pr.maxHeaderLen > 0 && len(buf) > pr.maxHeaderLen {
			return nil, nil, ErrLargeHeader
		}

		if errors.Is(err, io.EOF) {
			if !lenient {
				return nil, nil, &transfer.FramingError{Offset: int64(len(buf)), Err: ErrTruncatedHeader}
			}
			h, perr := pr.parseHeader(buf, header.Meh)
			return h, nil, perr
		}

		// The last 3 bytes might be the prefix to the split point
		searched = len(buf) - 3
		if searched < 0 {
			searched = 0
		}
	}
}

// parseHeader parses a header block, logging and skipping junk at its
// start.
func (pr *Parser) parseHeader(raw []byte, lb header.Break) (*header.Header, error) {
	h, err := header.Parse(raw, lb)
	var badStart *field.BadStartError
	if errors.As(err, &badStart) {
		pr.logger.Warn("skipping junk at the start of a header",
			slog.Any("error", err))
		return h, nil
	}
	return h, err
}

// Receive reads one message from src. The header block is read first and the
// entity for it is built from the registry. The body is then framed by
// Content-Length or chunked Transfer-Encoding, decoded, and delivered to the
// entity. Buffers are pulled from src only as fast as the body is processed.
//
// The bytes that were read past the end of the message are returned with the
// entity; they belong to whatever follows on the stream.
func (pr *Parser) Receive(ctx context.Context, src transport.Source) (Entity, []byte, error) {
	h, rest, err := pr.readHeader(ctx, src, false)
	if err != nil {
		return nil, nil, err
	}

	ent, err := pr.NewEntity(h, 0)
	if err != nil {
		return nil, nil, err
	}

	opts := []transfer.Option{
		transfer.WithRegistry(pr.codings),
		transfer.WithLogger(pr.logger),
	}
	r, err := transfer.NewReceiver(ent.GetHeader(), ent, append(opts, pr.transferOpts...)...)
	if err != nil {
		return ent, nil, err
	}

	leftover, err := transport.Pump(ctx, transport.Prepend(rest, src), r)
	return ent, leftover, err
}

// Parse reads a whole message from src, where the body runs to the end of
// the stream as it does in a mail file. Content codings are undone and the
// body is delivered to the entity built for the header. A stream with no
// blank line is taken to be all header.
func (pr *Parser) Parse(ctx context.Context, src transport.Source) (Entity, error) {
	h, rest, err := pr.readHeader(ctx, src, true)
	if err != nil {
		return nil, err
	}

	ent, err := pr.NewEntity(h, 0)
	if err != nil {
		return nil, err
	}

	names, chunked, err := transfer.Codings(h)
	if err != nil {
		return ent, err
	}
	if chunked {
		pr.logger.Warn("ignoring chunked transfer encoding on a message read to the end of the stream")
	}

	dec, err := pr.codings.Chain(names, ent)
	if err != nil {
		return ent, err
	}

	if len(rest) > 0 {
		if err := dec.Decode(ctx, rest); err != nil {
			return ent, err
		}
	}

	for {
		p, err := src.Next(ctx)
		if len(p) > 0 {
			if derr := dec.Decode(ctx, p); derr != nil {
				return ent, derr
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return ent, err
		}
	}

	return ent, dec.EndOfData(ctx)
}

// Receive reads one framed message from src using a Parser built from the
// given options. See Parser.Receive.
func Receive(ctx context.Context, src transport.Source, opts ...ParseOption) (Entity, []byte, error) {
	return NewParser(opts...).Receive(ctx, src)
}

// Parse reads a whole message from r using a Parser built from the given
// options. See Parser.Parse.
func Parse(ctx context.Context, r io.Reader, opts ...ParseOption) (Entity, error) {
	pr := NewParser(opts...)
	return pr.Parse(ctx, transport.FromReader(r, pr.chunkSize))
}
