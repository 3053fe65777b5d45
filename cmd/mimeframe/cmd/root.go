// Package cmd holds the commands of the mimeframe tool.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/zostay/go-mimeframe/config"
	"github.com/zostay/go-mimeframe/message"
	_ "github.com/zostay/go-mimeframe/message/header/encoding"
	"github.com/zostay/go-mimeframe/transport"
)

// app is the state shared by the commands of one command tree.
type app struct {
	configPath string
	http       bool

	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCommand builds the mimeframe command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "mimeframe",
		Short:         "Tools for inspecting and framing MIME entities",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().BoolVar(&a.http, "http", false, "read the body using Content-Length or Transfer-Encoding framing")

	rootCmd.AddCommand(a.inspectCmd())
	rootCmd.AddCommand(a.roundtripCmd())
	rootCmd.AddCommand(a.frameCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

// Execute runs the mimeframe command.
func Execute() error {
	return NewRootCommand().Execute()
}

func (a *app) setup(cmd *cobra.Command) error {
	if a.configPath == "" {
		a.cfg = config.Default()
	} else {
		cfg, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}

	a.logger = a.cfg.Logger(cmd.ErrOrStderr())
	return nil
}

// open returns the named file, or standard input for "-".
func open(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	return os.Open(path)
}

// read parses the entity found in r. In http mode the body ends where its
// framing says and anything after it is returned as rest.
func (a *app) read(ctx context.Context, r io.Reader) (message.Entity, []byte, error) {
	pr := message.NewParser(a.cfg.ParseOptions(a.logger)...)
	if !a.http {
		ent, err := pr.Parse(ctx, transport.FromReader(r, a.cfg.Parser.ChunkSize))
		return ent, nil, err
	}

	ent, rest, err := pr.Receive(ctx, transport.FromReader(r, a.cfg.Parser.ChunkSize))
	if err != nil {
		return nil, nil, fmt.Errorf("receiving entity: %w", err)
	}
	return ent, rest, nil
}
