package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/syllabus/internal/cli"
)

var statusCmd = &cobra.Command{
	Use:   "status [dir]",
	Short: "Show progress through the curriculum",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := inspectOptions(cmd, args)
		if err != nil {
			return err
		}
		return cli.RunStatus(cmd.Context(), opts)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
