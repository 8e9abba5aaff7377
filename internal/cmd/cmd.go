package cmd

import (
	"context"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/llama-swappo/swappo/internal/backend"
	"github.com/llama-swappo/swappo/internal/backend/ollama"
	"github.com/llama-swappo/swappo/internal/backend/openaicompat"
	"github.com/llama-swappo/swappo/internal/config"
	"github.com/llama-swappo/swappo/internal/constants"
	"github.com/llama-swappo/swappo/internal/logger"
)

// app is the state shared by all subcommands.
type app struct {
	v          *viper.Viper
	cfg        *config.Config
	configPath string

	lgr    *logger.Logger
	exitCh chan string

	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

// Run executes the command line and exits non-zero on failure.
func Run() {
	a := &app{
		v:      config.New(),
		exitCh: make(chan string, 1),
		in:     os.Stdin,
		out:    os.Stdout,
		errOut: os.Stderr,
	}
	if err := newRootCmd(a).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "swappo",
		Short: "Chat with and benchmark models behind a llama-swappo backend",
		Long: `swappo talks to an OpenAI-compatible llama-swappo backend.

Run without a subcommand to start the interactive chat.`,
		SilenceUsage: true,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.lgr != nil {
				_ = a.lgr.Sync()
			}
		},
	}
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "sets the config file location e.g. $HOME/swappo.yaml")
	flags.String("base-url", "", "OpenAI-compatible API base URL")
	flags.String("api", "", "backend protocol: openai or ollama")
	flags.String("api-key", "", "API key sent as a bearer token")
	flags.String("log-level", "", "trace, debug, info, warn, error or fatal")
	flags.Duration("timeout", 0, "timeout for non-streamed requests")

	chat := newChatCmd(a)
	root.AddCommand(chat, newBenchCmd(a), newDashboardCmd(a))

	// the bare command behaves like chat
	root.Args = chat.Args
	root.Flags().AddFlagSet(chat.Flags())
	root.RunE = chat.RunE
	return root
}

// load reads the configuration for cmd. defaultLevel is used when no log level
// is configured.
func (a *app) load(cmd *cobra.Command, defaultLevel string) (context.Context, error) {
	if err := config.BindFlags(a.v, cmd.Flags()); err != nil {
		return nil, err
	}
	cfg, err := config.Load(a.v, a.configPath)
	if err != nil {
		return nil, err
	}
	a.cfg = cfg

	level := cfg.LogLevel
	if level == "" {
		level = defaultLevel
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	root := logger.New(ctx, "swappo", logger.LevelFromString(level), a.exitCh)
	a.lgr, ctx = root.Clone(cmd.Name())
	return ctx, nil
}

func (a *app) backend() (backend.Backend, error) {
	var (
		be  backend.Backend
		err error
	)
	switch a.cfg.API {
	case constants.APIOllama:
		be, err = ollama.NewOllamaBackend(ollama.Options{
			Endpoint: a.cfg.Ollama.Endpoint,
			ApiKey:   a.cfg.ApiKey,
			Timeout:  a.cfg.Timeout,
		})
	default:
		be, err = openaicompat.NewBackend(openaicompat.Options{
			Endpoint: a.cfg.BaseURL,
			ApiKey:   a.cfg.ApiKey,
			Timeout:  a.cfg.Timeout,
		})
	}
	if err != nil {
		return nil, errors.Wrap(err, "error creating backend client")
	}
	a.lgr.Debugf(context.Background(), "using %s backend", be.Name())
	return be, nil
}
