package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/syllabus"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of syllabus",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "syllabus version %s\n", strings.TrimSpace(syllabus.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
