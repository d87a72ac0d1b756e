// Package cli wires the wordsearch commands: the HTTP server, a terminal
// game loop and schema migrations.
package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordsearch/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	LogLevel string

	// Config is read from the environment before any subcommand runs.
	Config config.Config
}

// NewRootCommand creates the root command for the wordsearch CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "wordsearch",
		Short: "Sequence-click word search",
		Long: `Find a hidden sequence on a letter grid, one adjacent cell at a time.

Run the HTTP backend with "serve", play in the terminal with "play", or
prepare the SQLite database with "migrate".`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts.Config = config.Load()
			if opts.LogLevel == "" {
				opts.LogLevel = opts.Config.LogLevel
			}
			lvl, err := zerolog.ParseLevel(opts.LogLevel)
			if err != nil {
				return fmt.Errorf("invalid log level %q: %w", opts.LogLevel, err)
			}
			zerolog.SetGlobalLevel(lvl)
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "zerolog level (default $LOG_LEVEL or info)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewPlayCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))

	return cmd
}
