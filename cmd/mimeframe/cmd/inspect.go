package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gogs/chardet"
	"github.com/spf13/cobra"

	"github.com/zostay/go-mimeframe/message"
	"github.com/zostay/go-mimeframe/message/header"
	"github.com/zostay/go-mimeframe/message/walk"
)

func (a *app) inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect file",
		Short: "Shows the part tree of an entity",
		Long: `Parses an entity and prints one line per part giving its media type,
its decoded size, and its filename or charset. Text parts without a charset
get a guess from the body.`,
		Args: cobra.ExactArgs(1),
		RunE: a.runInspect,
	}
}

func (a *app) runInspect(cmd *cobra.Command, args []string) error {
	in, err := open(cmd, args[0])
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	ent, rest, err := a.read(cmd.Context(), in)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	err = walk.AndProcess(
		func(part message.Part, parents []message.Part) error {
			line, err := describe(part)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(out, "%s%s\n", strings.Repeat("  ", len(parents)), line)
			return err
		}, ent,
	)
	if err != nil {
		return err
	}

	if len(rest) > 0 {
		_, err = fmt.Fprintf(out, "(%d bytes after entity)\n", len(rest))
	}
	return err
}

func describe(part message.Part) (string, error) {
	h := part.GetHeader()

	mt, err := h.GetMediaType()
	if errors.Is(err, header.ErrNoSuchField) {
		mt = message.DefaultMediaType
	} else if err != nil {
		mt = "(unreadable)"
	}

	if part.IsMultipart() {
		b, _ := h.GetBoundary()
		return fmt.Sprintf("%s boundary=%q parts=%d", mt, b, len(part.GetParts())), nil
	}

	var body []byte
	if r := part.GetReader(); r != nil {
		body, err = io.ReadAll(r)
		if err != nil {
			return "", err
		}
	}

	desc := fmt.Sprintf("%s size=%d", mt, len(body))
	if fn, err := h.GetFilename(); err == nil {
		desc += fmt.Sprintf(" filename=%q", fn)
	}

	if cs, err := h.GetCharset(); err == nil {
		desc += " charset=" + cs
	} else if strings.HasPrefix(mt, "text/") && len(body) > 0 {
		if res, err := chardet.NewTextDetector().DetectBest(body); err == nil {
			desc += fmt.Sprintf(" charset~%s(%d%%)", strings.ToLower(res.Charset), res.Confidence)
		}
	}

	return desc, nil
}
