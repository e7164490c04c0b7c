package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pr-poehali-dev/gptunnel-duplicate-project/internal/buildinfo"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "gptunnel %s (commit %s, built %s)\n",
				buildinfo.Version, buildinfo.Commit, buildinfo.BuiltAt)
			return err
		},
	}
}
