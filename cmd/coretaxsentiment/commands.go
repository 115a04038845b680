package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"CoreTaxSentiment/internal/app"
	"CoreTaxSentiment/internal/config"
	"CoreTaxSentiment/internal/logging"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const configEnv = "CORETAX_CONFIG"

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "coretaxsentiment",
		Short: "Sentiment and topic analysis of CoreTax social media data",
		Long: `Runs the full pipeline over the configured exports: text normalization,
sentiment classification, keyword extraction, topic modeling of negative
texts, CSV and chart outputs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app.Application) error {
			return a.Run(cmd.Context())
		}),
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to the YAML config file")
	root.PersistentPreRunE = func(*cobra.Command, []string) error {
		if configPath == "" {
			return nil
		}
		return os.Setenv(configEnv, configPath)
	}

	var limit int
	history := &cobra.Command{
		Use:   "history",
		Short: "List recent runs from the run store",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app.Application) error {
			return a.History(cmd.Context(), limit)
		}),
	}
	history.Flags().IntVar(&limit, "limit", 10, "number of runs to show")

	root.AddCommand(
		&cobra.Command{
			Use:   "quick",
			Short: "Classify the quick sources with the light cleaner",
			Args:  cobra.NoArgs,
			RunE: withApp(func(cmd *cobra.Command, a *app.Application) error {
				return a.Quick(cmd.Context())
			}),
		},
		&cobra.Command{
			Use:   "inspect",
			Short: "Show source distribution and top bigrams of the merged input",
			Args:  cobra.NoArgs,
			RunE: withApp(func(cmd *cobra.Command, a *app.Application) error {
				return a.Inspect(cmd.Context())
			}),
		},
		history,
		&cobra.Command{
			Use:   "version",
			Short: "Print the version number",
			Run: func(cmd *cobra.Command, _ []string) {
				cmd.Printf("coretaxsentiment version %s\n", version)
			},
		},
	)
	return root
}

// withApp loads the config, builds the application and runs fn with it.
func withApp(fn func(cmd *cobra.Command, a *app.Application) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cfg := config.Load()
		logger := logging.NewWithWriter(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)

		application := app.NewWithOutput(cfg, logger, cmd.OutOrStdout())
		defer application.Close()

		if err := fn(cmd, application); err != nil {
			logger.Error("application stopped", "error", err)
			return loggedError{fmt.Errorf("%s: %w", cmd.Name(), err)}
		}
		return nil
	}
}

// loggedError is a command failure withApp has already reported.
type loggedError struct{ err error }

func (e loggedError) Error() string { return e.err.Error() }

func (e loggedError) Unwrap() error { return e.err }

// reportError prints err unless withApp logged it already.
func reportError(w io.Writer, err error) {
	var logged loggedError
	if errors.As(err, &logged) {
		return
	}
	fmt.Fprintln(w, "Error:", err)
}
