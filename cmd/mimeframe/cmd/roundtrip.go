package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"
)

// ErrRoundTripDiffers is returned by the roundtrip command when the written
// entity does not match its input.
var ErrRoundTripDiffers = errors.New("round trip differs from input")

func (a *app) roundtripCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roundtrip file",
		Short: "Shows the diff of a single message round-trip",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runRoundtrip,
	}
}

func (a *app) runRoundtrip(cmd *cobra.Command, args []string) error {
	if a.http {
		return errors.New("roundtrip reads whole messages and cannot be used with --http")
	}

	in, err := open(cmd, args[0])
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	orig, err := io.ReadAll(in)
	if err != nil {
		return err
	}

	ent, _, err := a.read(cmd.Context(), bytes.NewReader(orig))
	if err != nil {
		return err
	}

	var rt bytes.Buffer
	if _, err := ent.WriteTo(&rt); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if bytes.Equal(orig, rt.Bytes()) {
		_, err = fmt.Fprintln(out, "identical")
		return err
	}

	if err := writeLineDiff(out, string(orig), rt.String()); err != nil {
		return err
	}
	return ErrRoundTripDiffers
}

func writeLineDiff(w io.Writer, before, after string) error {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}

		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			line = strings.TrimRight(line, "\r\n")
			if _, err := fmt.Fprintf(w, "%s%s\n", prefix, line); err != nil {
				return err
			}
		}
	}

	return nil
}
