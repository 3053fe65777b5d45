package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/zostay/go-mimeframe/message/coding"
	"github.com/zostay/go-mimeframe/message/header"
	"github.com/zostay/go-mimeframe/message/transfer"
)

type frameFlags struct {
	mediaType string
	chunked   bool
	gzip      bool
}

func (a *app) frameCmd() *cobra.Command {
	var ff frameFlags

	cmd := &cobra.Command{
		Use:   "frame file",
		Short: "Writes a file as a framed entity",
		Long: `Writes a header and the contents of the file framed with Content-Length,
or with the chunked transfer coding when the length is not known ahead of
time. Standard input ("-") is always sent chunked.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFrame(cmd, args, &ff)
		},
	}

	cmd.Flags().StringVarP(&ff.mediaType, "type", "t", "application/octet-stream", "media type of the body")
	cmd.Flags().BoolVar(&ff.chunked, "chunked", false, "use the chunked transfer coding even when the length is known")
	cmd.Flags().BoolVar(&ff.gzip, "gzip", false, "apply the gzip content coding")

	return cmd
}

func (a *app) runFrame(cmd *cobra.Command, args []string, ff *frameFlags) error {
	in, err := open(cmd, args[0])
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	length := transfer.UnknownLength
	if f, ok := in.(*os.File); ok {
		if fi, err := f.Stat(); err == nil && fi.Mode().IsRegular() {
			length = fi.Size()
		}
	}

	h := header.New(header.CRLF)
	h.SetMediaType(ff.mediaType)

	var body io.Reader = in
	if ff.gzip {
		h.SetContentEncodings("gzip")
		enc := encoded(in, []string{"gzip"})
		defer func() { _ = enc.Close() }()
		body = enc
		length = transfer.UnknownLength
	}

	opts := a.cfg.SendOptions()
	if ff.chunked {
		opts = append(opts, transfer.ForceChunked())
	}

	return transfer.Send(cmd.Context(), cmd.OutOrStdout(), h, body, length, opts...)
}

// encoded returns a reader of r with the named codings applied.
func encoded(r io.Reader, codings []string) io.ReadCloser {
	pr, pw := io.Pipe()
	go func() {
		wc, err := coding.DefaultRegistry.EncodeChain(codings, pw)
		if err != nil {
			pw.CloseWithError(err)
			return
		}

		if _, err := io.Copy(wc, r); err != nil {
			pw.CloseWithError(err)
			return
		}

		pw.CloseWithError(wc.Close())
	}()
	return pr
}
