package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/syllabus/internal/cli"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [dir]",
	Short: "Export the curriculum as a Mermaid diagram",
	Long:  `Outputs a Mermaid diagram (graph TD) of the catalog with completed topics and the next topic highlighted.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := inspectOptions(cmd, args)
		if err != nil {
			return err
		}
		return cli.RunGraph(cmd.Context(), opts)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
