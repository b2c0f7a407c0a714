package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quoc48/expense-tracker-sub005/internal/domain/receipt/service"
	"github.com/quoc48/expense-tracker-sub005/pkg/config"
	"github.com/quoc48/expense-tracker-sub005/pkg/money"
)

var (
	scanJSON  bool
	scanTrace bool
)

var scanCmd = &cobra.Command{
	Use:   "scan <file>",
	Short: "Extract line items from one receipt's OCR text",
	Long: `Read a receipt's OCR lines from a text file (or stdin with "-"), run the
extraction engine, and print the items with their amounts and the computed
total. Tax and fee rows are marked; they count toward the total but are not
editable purchases.`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "emit the full scan result as JSON")
	scanCmd.Flags().BoolVar(&scanTrace, "trace", false, "print the rule trace after the items")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := cfg.Log.Logger(os.Stderr)

	opts, err := cfg.Engine.Options()
	if err != nil {
		return err
	}

	lines, err := readReceiptLines(args[0])
	if err != nil {
		return err
	}

	svc := service.New(opts, logger).WithWorkers(cfg.Scanner.Workers)
	res, err := svc.Scan(cmd.Context(), lines)
	if err != nil {
		return err
	}

	if scanJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	printScanResult(cmd.OutOrStdout(), res)
	return nil
}

func printScanResult(out io.Writer, res *service.ScanResult) {
	for _, item := range res.Items {
		marker := ""
		if item.Readonly {
			marker = "  (tax/fee)"
		}
		fmt.Fprintf(out, "%-40s %12s%s\n",
			item.Description, money.NewFromDecimal(item.Amount).FormatVND(), marker)
	}
	fmt.Fprintf(out, "%-40s %12s\n", "Total", money.NewFromDecimal(res.Total).FormatVND())
	fmt.Fprintf(out, "\nscan %s: %d lines, %d items, table layout %v, %s\n",
		res.ScanID, res.Lines, len(res.Items), res.TableLayout, res.Duration)

	if scanTrace {
		fmt.Fprintln(out)
		for _, ev := range res.Trace {
			fmt.Fprintf(out, "line %3d  %-14s %-32s %s\n", ev.LineIndex, ev.Stage, ev.Rule, ev.Detail)
		}
	}
}

// readReceiptLines loads one OCR dump: a path, or "-" for stdin. Trailing
// blank lines are dropped; interior ones are kept, line indexes matter.
func readReceiptLines(path string) ([]string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read receipt: %w", err)
	}

	raw := strings.Split(string(data), "\n")
	lines := make([]string, len(raw))
	for i, line := range raw {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines, nil
}
