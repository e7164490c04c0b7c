package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pr-poehali-dev/gptunnel-duplicate-project/internal/config"
	"github.com/pr-poehali-dev/gptunnel-duplicate-project/internal/logging"
)

type rootOptions struct {
	envFile  string
	addr     string
	logLevel string
	logJSON  bool
}

// NewRootCmd builds the gptunnel command tree. Running it without a
// subcommand starts the web server.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "gptunnel",
		Short:         "GPTunnel landing page with a demo chat and a chat-completions proxy",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.envFile, "env-file", ".env", "optional dotenv file")
	pf.StringVar(&opts.addr, "addr", "", "HTTP listen address (overrides ADDR)")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level: debug|info|warn|error (overrides LOG_LEVEL)")
	pf.BoolVar(&opts.logJSON, "log-json", false, "log as JSON (overrides LOG_JSON)")

	cmd.AddCommand(
		newServeCmd(opts),
		newAskCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// load reads config and applies flag overrides, then builds the logger.
func (o *rootOptions) load(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	boot := logging.New(firstNonEmpty(o.logLevel, os.Getenv("LOG_LEVEL")), o.logJSON)
	cfg, err := config.Load(boot, o.envFile)
	if err != nil {
		return nil, nil, err
	}
	if o.addr != "" {
		cfg.Addr = o.addr
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if cmd.Flags().Changed("log-json") {
		cfg.LogJSON = o.logJSON
	}
	return cfg, logging.New(cfg.LogLevel, cfg.LogJSON), nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
