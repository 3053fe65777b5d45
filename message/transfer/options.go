package transfer

import (
	"log/slog"

	"github.com/zostay/go-mimeframe/internal/scanner"
	"github.com/zostay/go-mimeframe/message/coding"
)

// DefaultMaxChunkSizeDigits is the number of hex digits, leading zeros
// included, a chunk size may have when no other limit is given.
const DefaultMaxChunkSizeDigits = 7

type options struct {
	registry      *coding.Registry
	logger        *slog.Logger
	maxDigits     int
	maxLineLength int
}

// Option configures NewReceiver.
type Option func(*options)

func makeOptions(opts []Option) *options {
	o := &options{
		registry:      coding.DefaultRegistry,
		maxDigits:     DefaultMaxChunkSizeDigits,
		maxLineLength: scanner.DefaultMaxLineLength,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// WithRegistry sets the coding registry used to build the decoder chain.
func WithRegistry(r *coding.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// maxChunkSizeDigits keeps a chunk size inside an int64.
const maxChunkSizeDigits = 15

// WithMaxChunkSizeDigits sets how many hex digits a chunk size may have. It
// is capped at 15.
func WithMaxChunkSizeDigits(n int) Option {
	return func(o *options) {
		switch {
		case n > maxChunkSizeDigits:
			o.maxDigits = maxChunkSizeDigits
		case n > 0:
			o.maxDigits = n
		}
	}
}

// WithMaxLineLength sets the longest chunk extension or trailer line
// accepted.
func WithMaxLineLength(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxLineLength = n
		}
	}
}
