package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pr-poehali-dev/gptunnel-duplicate-project/internal/openai"
	"github.com/pr-poehali-dev/gptunnel-duplicate-project/internal/server"
	"github.com/pr-poehali-dev/gptunnel-duplicate-project/pkg/types"
)

func newAskCmd(opts *rootOptions) *cobra.Command {
	var system string
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Send one question through the chat-completions client and print the answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load(cmd)
			if err != nil {
				return err
			}
			question := strings.TrimSpace(strings.Join(args, " "))
			if question == "" {
				return errors.New("question is empty")
			}

			var msgs []types.Turn
			if system != "" {
				msgs = append(msgs, types.Turn{Role: string(types.RoleSystem), Content: system})
			}
			msgs = append(msgs, types.Turn{Role: string(types.RoleUser), Content: question})

			out, err := server.NewOpenAIClient(cfg, log).ChatCompletion(cmd.Context(), msgs)
			var apiErr *openai.APIError
			if errors.As(err, &apiErr) {
				return fmt.Errorf("upstream refused (%d %s): %s", apiErr.Status, apiErr.Type, apiErr.Message)
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out.Message)
			return err
		},
	}
	cmd.Flags().StringVar(&system, "system", "", "optional system prompt")
	return cmd
}
