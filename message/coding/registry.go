package coding

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// Names of the codings known to the DefaultRegistry.
const (
	Identity        = "identity"
	Bit7            = "7bit"
	Bit8            = "8bit"
	Binary          = "binary"
	QuotedPrintable = "quoted-printable"
	Base64          = "base64"
	Gzip            = "gzip"
	XGzip           = "x-gzip"
	Chunked         = "chunked"
)

// Factory wraps next in a Decoder that undoes one coding.
type Factory func(next Decoder) Decoder

// EncoderFactory returns an io.WriteCloser that applies one coding to what
// is written to it and writes the result to w.
type EncoderFactory func(w io.Writer) io.WriteCloser

// Transcoding is the pair of functions that can be used to transform to and
// from a coding.
type Transcoding struct {
	Decoder Factory
	Encoder EncoderFactory
}

// AsIsTranscoding is just a shortcut to a no-op encoder/decoder.
var AsIsTranscoding = Transcoding{Passthrough, NewAsIsEncoder}

// Registry maps coding names to transcodings. It is safe for concurrent use.
// Names are matched without regard to case.
type Registry struct {
	mu     sync.RWMutex
	codes  map[string]Transcoding
	strict bool
	logger *slog.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// Strict makes Chain and EncodeChain fail with ErrUnsupportedCoding on an
// unknown coding instead of logging a warning and leaving the bytes alone.
func Strict() RegistryOption {
	return func(r *Registry) {
		r.strict = true
	}
}

// WithLogger sets the logger used to warn about unknown codings.
func WithLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry returns a registry knowing no codings at all.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{codes: map[string]Transcoding{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewDefaultRegistry returns a registry knowing the identity codings, base64,
// quoted-printable, and gzip.
func NewDefaultRegistry(opts ...RegistryOption) *Registry {
	r := NewRegistry(opts...)
	for _, name := range []string{"", Identity, Bit7, Bit8, Binary} {
		r.Register(name, AsIsTranscoding)
	}
	r.Register(QuotedPrintable, Transcoding{NewQuotedPrintableDecoder, NewQuotedPrintableEncoder})
	r.Register(Base64, Transcoding{NewBase64Decoder, NewBase64Encoder})
	r.Register(Gzip, Transcoding{NewGzipDecoder, NewGzipEncoder})
	r.Register(XGzip, Transcoding{NewGzipDecoder, NewGzipEncoder})
	return r
}

// DefaultRegistry is the registry used when none is given.
var DefaultRegistry = NewDefaultRegistry()

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register adds or replaces the transcoding for name.
func (r *Registry) Register(name string, tc Transcoding) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes[normalize(name)] = tc
}

// Lookup returns the transcoding for name.
func (r *Registry) Lookup(name string) (Transcoding, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tc, found := r.codes[normalize(name)]
	return tc, found
}

// IsStrict returns true if unknown codings are an error.
func (r *Registry) IsStrict() bool {
	return r.strict
}

func (r *Registry) log() *slog.Logger {
	if r.logger != nil {
		return r.logger
	}
	return slog.Default()
}

// unknown reports an unknown coding, returning an error only when strict.
func (r *Registry) unknown(name string) error {
	if r.strict {
		return fmt.Errorf("%w: %q", ErrUnsupportedCoding, name)
	}
	r.log().Warn("unsupported coding, passing bytes through unchanged",
		slog.String("coding", name))
	return nil
}

// Chain builds the decoders that undo the given codings and deliver the
// result to sink. The names are given in the order the codings were applied,
// so the returned Decoder undoes the last of them first.
func (r *Registry) Chain(names []string, sink Decoder) (Decoder, error) {
	d := sink
	for _, name := range names {
		tc, found := r.Lookup(name)
		if !found || tc.Decoder == nil {
			if err := r.unknown(name); err != nil {
				return nil, err
			}
			continue
		}
		d = tc.Decoder(d)
	}
	return d, nil
}

// EncodeChain returns an io.WriteCloser that applies the given codings in
// order and writes the result to w. Closing it flushes every coding but does
// not close w.
func (r *Registry) EncodeChain(names []string, w io.Writer) (io.WriteCloser, error) {
	var out io.Writer = w
	closers := make([]io.Closer, 0, len(names))
	for i := len(names) - 1; i >= 0; i-- {
		tc, found := r.Lookup(names[i])
		if !found || tc.Encoder == nil {
			if err := r.unknown(names[i]); err != nil {
				return nil, err
			}
			continue
		}

		wc := tc.Encoder(out)
		closers = append([]io.Closer{wc}, closers...)
		out = wc
	}
	return &writer{out, closers}, nil
}
