package main

import (
	"strings"

	"github.com/Chanakya-ux/KGPT-client/internal/cli"
	"github.com/spf13/cobra"
)

func newAskCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a single question and print the answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := a.newAnswerClient()
			defer client.Close()

			question := strings.Join(args, " ")
			return cli.Ask(cmd.Context(), client, question, a.cfg.MaxQuestionLength, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}
