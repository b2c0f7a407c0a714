package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "receiptscan",
	Short: "Extract purchased line items from receipt OCR text",
	Long: `receiptscan turns the ordered text lines an OCR pass produces from a
receipt photo into structured line items with corrected amounts in
Vietnamese đồng.

Input is plain text, one OCR line per line. Output is the extracted items,
the computed total, and optionally the rule trace explaining every kept and
dropped line. Configuration comes from the environment (and a .env file);
see pkg/config for the variable names.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
