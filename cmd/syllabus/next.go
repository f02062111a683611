package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/syllabus/internal/cli"
)

// nextCmd represents the next command
var nextCmd = &cobra.Command{
	Use:   "next [dir]",
	Short: "Present the next topic and log it once done",
	Long: `Resolves the next topic from the catalog and the ledger, prepares its workspace
and waits for the learner to type 'done'. Typing 'quit' or pressing Ctrl+C logs nothing.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, args)
		if err != nil {
			return err
		}
		headless, _ := cmd.Flags().GetBool("headless")
		jsonMode, _ := cmd.Flags().GetBool("json")
		yes, _ := cmd.Flags().GetBool("yes")
		loop, _ := cmd.Flags().GetBool("loop")

		return cli.RunSession(cmd.Context(), cli.RunOptions{
			Config:   cfg,
			Headless: headless,
			JSON:     jsonMode,
			Yes:      yes,
			Loop:     loop,
			Input:    cmd.InOrStdin(),
			Output:   cmd.OutOrStdout(),
		})
	},
}

func init() {
	rootCmd.AddCommand(nextCmd)

	for _, c := range []*cobra.Command{nextCmd, rootCmd} {
		c.Flags().Bool("headless", false, "Plain output without banner or markdown rendering")
		c.Flags().BoolP("yes", "y", false, "Log the topic without asking for confirmation")
		c.Flags().Bool("loop", false, "Continue with the following topic after each confirmation")
	}

	// 'next' is the default when no command is given.
	rootCmd.Args = nextCmd.Args
	rootCmd.RunE = nextCmd.RunE
}
