package cmd

import (
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/llama-swappo/swappo/internal/server"
)

func newDashboardCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard [port]",
		Short: "Serve the web dashboard with CORS enabled",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := a.load(cmd, "info")
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			port := a.cfg.Dashboard.Port
			if len(args) > 0 {
				port = args[0]
			}
			svr, err := server.New(ctx, server.Options{
				Port:     port,
				Dir:      a.cfg.Dashboard.Dir,
				LogLevel: a.lgr.Level().String(),
				Timeout:  a.cfg.Timeout,
				ExitCh:   a.exitCh,
				Out:      a.out,
			})
			if err != nil {
				return errors.Wrap(err, "unable to start server")
			}

			errCh := make(chan error, 1)
			go func() {
				errCh <- svr.Start(ctx)
			}()

			select {
			case s := <-a.exitCh:
				return errors.Errorf("killed with message %s", s)
			case err := <-errCh:
				return err
			}
		},
	}

	cmd.Flags().String("dashboard-dir", "", "directory with the dashboard files (default webui)")
	return cmd
}
