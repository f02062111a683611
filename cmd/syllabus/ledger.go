package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/syllabus/internal/cli"
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Inspect the completion ledger",
}

var ledgerLsCmd = &cobra.Command{
	Use:   "ls [dir]",
	Short: "List completed topics in completion order",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := inspectOptions(cmd, args)
		if err != nil {
			return err
		}
		return cli.RunLedgerList(cmd.Context(), opts)
	},
}

func init() {
	rootCmd.AddCommand(ledgerCmd)
	ledgerCmd.AddCommand(ledgerLsCmd)
}
