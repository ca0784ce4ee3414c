package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAskCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <prompt>",
		Short: "Send one prompt to Claude and print the reply",
		Long: `Send one prompt to the Anthropic Messages API and print the text reply.

Examples:
  agentx ask "Summarise the CAP theorem in two sentences"
  CLAUDE_MODEL=claude-3-5-haiku-20241022 agentx ask "hello"
  CLAUDE_PROVIDER=bedrock AWS_REGION=us-east-1 agentx ask "hello"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := strings.Join(args, " ")
			client, err := a.claudeClient(cmd.Context())
			if err != nil {
				return err
			}

			reply, err := client.Ask(cmd.Context(), prompt)
			if err != nil {
				return fmt.Errorf("ask: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), reply)
			return nil
		},
	}
}
