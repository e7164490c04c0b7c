package cli

import (
	"github.com/spf13/cobra"

	"github.com/pr-poehali-dev/gptunnel-duplicate-project/internal/buildinfo"
	"github.com/pr-poehali-dev/gptunnel-duplicate-project/internal/server"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the landing page and the chat API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
}

func runServe(cmd *cobra.Command, opts *rootOptions) error {
	cfg, log, err := opts.load(cmd)
	if err != nil {
		return err
	}
	log.Info("build", "version", buildinfo.Version, "commit", buildinfo.Commit, "built_at", buildinfo.BuiltAt)

	srv, err := server.New(cfg, log)
	if err != nil {
		return err
	}
	return srv.Run(cmd.Context())
}
