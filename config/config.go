// Package config loads the settings used by the mimeframe command.
//
// Configuration is read from a YAML file. Environment variables in the file
// are expanded (${VAR} or $VAR) before it is parsed.
//
// # Example Configuration
//
//	parser:
//	  maxHeaderLength: 65536
//	  chunkSize: 16384
//	  maxDepth: 10
//
//	transfer:
//	  maxChunkSizeDigits: 7
//	  maxLineLength: 4096
//
//	send:
//	  forceChunked: false
//
//	log:
//	  level: ${MIMEFRAME_LOG_LEVEL}
//	  format: text
//
// See [Load] for loading configuration from a file.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zostay/go-mimeframe/message"
	"github.com/zostay/go-mimeframe/message/transfer"
)

// Config is the root configuration structure.
type Config struct {
	Parser   ParserConfig   `yaml:"parser"`
	Transfer TransferConfig `yaml:"transfer"`
	Send     SendConfig     `yaml:"send"`
	Log      LogConfig      `yaml:"log"`
}

// ParserConfig holds the limits used when parsing entities.
type ParserConfig struct {
	MaxHeaderLength int `yaml:"maxHeaderLength"`
	ChunkSize       int `yaml:"chunkSize"`

	// MaxDepth is the deepest multipart nesting parsed. 0 disables multipart
	// parsing and -1 removes the limit. Unset means the parser default.
	MaxDepth *int `yaml:"maxDepth"`
}

// TransferConfig holds the limits used by the transfer receivers.
type TransferConfig struct {
	MaxChunkSizeDigits int `yaml:"maxChunkSizeDigits"`
	MaxLineLength      int `yaml:"maxLineLength"`
}

// SendConfig holds the settings used when sending an entity.
type SendConfig struct {
	ForceChunked bool `yaml:"forceChunked"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, or error
	Format string `yaml:"format"` // text or json
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return Parse(data)
}

// Parse reads configuration from YAML bytes.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Parser.MaxHeaderLength == 0 {
		c.Parser.MaxHeaderLength = message.DefaultMaxHeaderLength
	}
	if c.Parser.ChunkSize == 0 {
		c.Parser.ChunkSize = message.DefaultChunkSize
	}
	if c.Parser.MaxDepth == nil {
		d := message.DefaultMaxMultipartDepth
		c.Parser.MaxDepth = &d
	}
	if c.Transfer.MaxChunkSizeDigits == 0 {
		c.Transfer.MaxChunkSizeDigits = transfer.DefaultMaxChunkSizeDigits
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

func (c *Config) validate() error {
	if c.Parser.MaxHeaderLength < 0 {
		return fmt.Errorf("parser.maxHeaderLength must not be negative, got %d", c.Parser.MaxHeaderLength)
	}
	if c.Parser.ChunkSize < 0 {
		return fmt.Errorf("parser.chunkSize must not be negative, got %d", c.Parser.ChunkSize)
	}
	if *c.Parser.MaxDepth < -1 {
		return fmt.Errorf("parser.maxDepth must be -1 or more, got %d", *c.Parser.MaxDepth)
	}
	if c.Transfer.MaxChunkSizeDigits < 0 || c.Transfer.MaxChunkSizeDigits > 15 {
		return fmt.Errorf("transfer.maxChunkSizeDigits must be between 1 and 15, got %d", c.Transfer.MaxChunkSizeDigits)
	}
	if c.Transfer.MaxLineLength < 0 {
		return fmt.Errorf("transfer.maxLineLength must not be negative, got %d", c.Transfer.MaxLineLength)
	}

	if _, err := c.Log.level(); err != nil {
		return err
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be 'text' or 'json', got '%s'", c.Log.Format)
	}

	return nil
}

func (l LogConfig) level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(l.Level))); err != nil {
		return 0, fmt.Errorf("log.level must be debug, info, warn, or error, got '%s'", l.Level)
	}
	return lvl, nil
}

// Logger builds the logger described by the log section, writing to w.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	lvl, _ := c.Log.level()
	hopts := &slog.HandlerOptions{Level: lvl}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, hopts))
	}
	return slog.New(slog.NewTextHandler(w, hopts))
}

// ParseOptions converts the parser and transfer sections into options for
// message.NewParser.
func (c *Config) ParseOptions(logger *slog.Logger) []message.ParseOption {
	opts := []message.ParseOption{
		message.WithMaxHeaderLength(c.Parser.MaxHeaderLength),
		message.WithChunkSize(c.Parser.ChunkSize),
		message.WithTransferOptions(c.TransferOptions()...),
	}

	if c.Parser.MaxDepth != nil {
		opts = append(opts, message.WithMaxDepth(*c.Parser.MaxDepth))
	}

	if logger != nil {
		opts = append(opts, message.WithLogger(logger))
	}

	return opts
}

// TransferOptions converts the transfer section into receiver options.
func (c *Config) TransferOptions() []transfer.Option {
	opts := []transfer.Option{
		transfer.WithMaxChunkSizeDigits(c.Transfer.MaxChunkSizeDigits),
	}
	if c.Transfer.MaxLineLength > 0 {
		opts = append(opts, transfer.WithMaxLineLength(c.Transfer.MaxLineLength))
	}
	return opts
}

// SendOptions converts the send section into options for transfer.Send.
func (c *Config) SendOptions() []transfer.SendOption {
	var opts []transfer.SendOption
	if c.Send.ForceChunked {
		opts = append(opts, transfer.ForceChunked())
	}
	return opts
}
