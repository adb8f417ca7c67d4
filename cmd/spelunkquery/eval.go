package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cygnusbill/spelunkpath/eval"
	"github.com/cygnusbill/spelunkpath/jsonhost"
	"github.com/cygnusbill/spelunkpath/parser"
	"github.com/cygnusbill/spelunkpath/stablepath"
)

// evalConfig holds the eval subcommand's own flags.
type evalConfig struct {
	jsonOutput bool
}

func newEvalCmd() *cobra.Command {
	cfg := &evalConfig{}

	cmd := &cobra.Command{
		Use:   "eval <query> <tree.json>",
		Short: "Evaluate a SpelunkPath query against a JSON tree fixture",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(cmd, cfg, args[0], args[1])
		},
	}

	cmd.Flags().BoolVar(&cfg.jsonOutput, "json", false, "print matches as a JSON array of stable paths")

	return cmd
}

func runEval(cmd *cobra.Command, cfg *evalConfig, query, treePath string) error {
	slog.Debug("reading tree fixture", "path", treePath)
	raw, err := os.ReadFile(treePath)
	if err != nil {
		return fmt.Errorf("read tree fixture: %w", err)
	}

	h, err := jsonhost.New(string(raw))
	if err != nil {
		return fmt.Errorf("load tree fixture: %w", err)
	}

	path, err := parser.Parse(query)
	if err != nil {
		return err
	}

	slog.Debug("evaluating query", "query", query)
	results, warnings, err := eval.Evaluate(path, h, h.Root(), &eval.Options{CollectWarnings: true})
	if err != nil {
		return err
	}
	for _, w := range warnings {
		slog.Warn(w.String())
	}

	paths := make([]string, len(results))
	for i, n := range results {
		sp, err := stablepath.Build[jsonhost.NodeID](h, n)
		if err != nil {
			return fmt.Errorf("build stable path: %w", err)
		}
		paths[i] = sp
	}

	if cfg.jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(paths)
	}
	for _, p := range paths {
		cmd.Println(p)
	}
	return nil
}
