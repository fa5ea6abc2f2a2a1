package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/chukul/eventpush/internal"
	"github.com/chukul/eventpush/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	profile  string
	noPause  bool
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "eventpush",
	Short: "Publish the event documents in ./events to the marketplace event bus",
	Long: `eventpush assumes the role configured for an AWS profile (asking for an MFA code
when the profile requires one), then puts every file in ./events on the
marketplace event bus, one at a time, in file name order.`,
	Example: `  # Prompt for the profile name
  eventpush

  # Use a profile from ~/.aws/config
  eventpush --profile marketplace-dev`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg.LogLevel)
		if err != nil {
			return err
		}

		console := ui.NewTerminal(os.Stdin, os.Stdout)
		spin := term.IsTerminal(int(os.Stdout.Fd()))

		runner := &internal.Runner{
			Profile:  cfg.Profile,
			Console:  console,
			Status:   ui.NewStatus(os.Stdout),
			Resolver: cfg.Resolver(),
			NewPublisher: func(s *internal.AWSSession) internal.EventPublisher {
				client := internal.NewEventBridgeClient(s, withSDKLogging(logger))
				var pub internal.EventPublisher = internal.NewPublisher(client)
				if spin {
					pub = spinningPublisher{pub}
				}
				return pub
			},
			Events:  os.DirFS("."),
			Dir:     internal.EventsDir,
			NoPause: cfg.NoPause,
			Logger:  logger,
		}

		_, err = runner.Run(context.Background())
		return err
	},
}

// Execute runs the CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVar(&profile, "profile", "", "AWS profile to assume (or set EVENTPUSH_PROFILE); prompted for when empty")
	rootCmd.Flags().BoolVar(&noPause, "no-pause", false, "Exit without waiting for a keypress (or set EVENTPUSH_NO_PAUSE)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Diagnostic log level on stderr: debug, info, warn, error (or set EVENTPUSH_LOG_LEVEL)")
}

// loadConfig reads the environment and lets explicitly set flags win.
func loadConfig(cmd *cobra.Command) (internal.Config, error) {
	cfg, err := internal.LoadConfig()
	if err != nil {
		return internal.Config{}, err
	}
	if f := cmd.Flags().Lookup("profile"); f != nil && f.Changed {
		cfg.Profile = profile
	}
	if f := cmd.Flags().Lookup("no-pause"); f != nil && f.Changed {
		cfg.NoPause = noPause
	}
	if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
		cfg.LogLevel = logLevel
	}
	return cfg, nil
}

func newLogger(level string) (*slog.Logger, error) {
	lvl, err := internal.ParseLogLevel(level)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}
