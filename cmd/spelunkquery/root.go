package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// verbose is the one global flag every subcommand shares.
var verbose bool

// NewRootCmd builds the spelunkquery root command and wires up its
// subcommands.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spelunkquery",
		Short: "Run SpelunkPath queries against a syntax tree fixture",
		Long: `spelunkquery is a demo harness for the SpelunkPath query engine:
it loads a JSON-described syntax tree fixture, evaluates a query
against it, and prints the matching nodes as stable paths.`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	cmd.AddCommand(newEvalCmd())
	cmd.AddCommand(newStablePathCmd())

	return cmd
}

// Execute builds and runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
