package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quoc48/expense-tracker-sub005/internal/eval"
	"github.com/quoc48/expense-tracker-sub005/pkg/config"
)

var evalJSON bool

var evalCmd = &cobra.Command{
	Use:   "eval <corpus-dir>",
	Short: "Score extraction against an annotated receipt corpus",
	Long: `Replay every annotated receipt under a corpus directory through the
extraction engine and report item and receipt accuracy.

A sample is either "<name>.txt" plus "<name>.expected.csv" (columns
description,amount,readonly) or a single "<name>.xlsx" workbook with a
"lines" sheet and an "expected" sheet.`,
	Args: cobra.ExactArgs(1),
	RunE: runEval,
}

func init() {
	evalCmd.Flags().BoolVar(&evalJSON, "json", false, "emit the report as JSON")
	rootCmd.AddCommand(evalCmd)
}

func runEval(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := cfg.Log.Logger(os.Stderr)

	opts, err := cfg.Engine.Options()
	if err != nil {
		return err
	}

	report, err := eval.NewRunner(opts, logger).EvaluateDir(args[0])
	if err != nil {
		return err
	}

	if evalJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Fprint(cmd.OutOrStdout(), report.String())
	return nil
}
