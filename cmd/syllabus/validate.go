package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/syllabus/internal/cli"
)

var validateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Check the catalog for consistency",
	Long: `Checks the catalog schema and duplicate ids, classifies every topic, dry-runs its
workspace plan and reports topics without lessons.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := inspectOptions(cmd, args)
		if err != nil {
			return err
		}
		return cli.RunValidate(cmd.Context(), opts)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
