package cmd

import (
	"fmt"

	"github.com/coreos/go-semver/semver"
	"github.com/spf13/cobra"
)

// Version is the release of the mimeframe tool.
var Version = "0.1.0"

func versionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Prints the version of mimeframe",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := semver.NewVersion(Version)
			if err != nil {
				return fmt.Errorf("bad version %q: %w", Version, err)
			}

			if short {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d.%d\n", v.Major, v.Minor)
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "mimeframe %s\n", v)
			return err
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "print only the major and minor version")

	return cmd
}
