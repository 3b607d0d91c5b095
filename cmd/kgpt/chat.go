package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/Chanakya-ux/KGPT-client/internal/chat"
	"github.com/Chanakya-ux/KGPT-client/internal/cli"
	"github.com/spf13/cobra"
)

func newChatCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive conversation",
		Long:  "Start an interactive conversation. Type a question and press enter, a number to pick a suggestion, or /quit to leave.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer cancel()
			// restore the default handler so a second interrupt kills the process
			context.AfterFunc(ctx, cancel)

			client := a.newAnswerClient()
			defer client.Close()

			session := chat.NewSession(client, chat.WithMaxQuestionLength(a.cfg.MaxQuestionLength))
			return cli.NewChatCLI(session, cmd.InOrStdin(), cmd.OutOrStdout()).Run(ctx)
		},
	}
}
