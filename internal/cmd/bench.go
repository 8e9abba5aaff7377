package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/llama-swappo/swappo/internal/bench"
)

func newBenchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run the code generation test matrix against each model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := a.load(cmd, "info")
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			be, err := a.backend()
			if err != nil {
				return err
			}
			suite, err := bench.LoadSuite(a.cfg.Bench.Suite)
			if err != nil {
				return err
			}

			runner := bench.NewRunner(be, bench.Options{
				Pause: a.cfg.Bench.Pause,
				Out:   a.out,
			})
			report, err := runner.Run(ctx, suite)
			report.PrintSummary(a.out)
			return err
		},
	}

	flags := cmd.Flags()
	flags.String("suite", "", "YAML file with models and tests to run instead of the built-in ones")
	flags.Duration("pause", 0, "minimum time between requests (default 1s)")
	return cmd
}
