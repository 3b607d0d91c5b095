package main

import (
	"fmt"
	"log/slog"

	"github.com/Chanakya-ux/KGPT-client/internal/answer"
	"github.com/Chanakya-ux/KGPT-client/internal/config"
	"github.com/Chanakya-ux/KGPT-client/internal/logging"
	"github.com/spf13/cobra"
)

// app holds what every subcommand needs once the root command has run its
// setup.
type app struct {
	endpoint string
	logLevel string

	cfg    *config.ClientConfig
	logger *slog.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{}

	rootCommand := &cobra.Command{
		Use:           "kgpt",
		Short:         "Ask KGPT questions from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := rootCommand.PersistentFlags()
	flags.StringVar(&a.endpoint, "endpoint", "", "Answer service URL (overrides KGPT_ENDPOINT)")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn or error (overrides LOG_LEVEL)")

	rootCommand.AddCommand(
		newAskCommand(a),
		newChatCommand(a),
		newServeCommand(a),
	)
	return rootCommand
}

func (a *app) setup(cmd *cobra.Command) error {
	if err := config.LoadEnvFiles(); err != nil {
		return err
	}

	cfg, err := config.LoadClientConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("endpoint") {
		cfg.Endpoint = a.endpoint
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	logger, err := logging.Init(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) newAnswerClient() *answer.Client {
	return answer.NewClient(a.cfg.Endpoint, answer.WithLogger(a.logger))
}
