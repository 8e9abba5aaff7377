package cmd

import (
	"github.com/spf13/cobra"

	"github.com/llama-swappo/swappo/internal/chat"
	"github.com/llama-swappo/swappo/internal/ui"
)

func newChatCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat [model]",
		Short: "Interactive chat with streamed replies",
		Long: `Starts an interactive chat. model is an alias (deepseek, qwen or one from the
config file) or a full model id.

Commands: /model <alias>, /clear, /help, /quit.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// chat logs only warnings by default so they do not interleave with replies
			ctx, err := a.load(cmd, "warn")
			if err != nil {
				return err
			}
			be, err := a.backend()
			if err != nil {
				return err
			}

			model := a.cfg.DefaultModel
			if len(args) > 0 {
				model = args[0]
			}
			session := chat.New(be, chat.NewAliases(a.cfg.Models), chat.Options{
				Model:     model,
				MaxTokens: a.cfg.MaxTokens,
				Stream:    a.cfg.Stream,
			})

			reader := ui.NewLineReader(a.in, a.out, a.cfg.HistoryFile)
			defer reader.Close()
			return chat.NewREPL(session, reader, a.out).Run(ctx)
		},
	}

	flags := cmd.Flags()
	flags.Int("max-tokens", 0, "maximum tokens per reply (default 500)")
	flags.Bool("stream", true, "stream replies as they are generated")
	flags.String("history-file", "", "where input history is kept")
	return cmd
}
