package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/syllabus/internal/cli"
	"github.com/aretw0/syllabus/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "syllabus",
	Short: "Syllabus walks a learner through a curriculum one topic at a time",
	Long: `Syllabus picks the next topic of a curriculum from the completion ledger,
prepares its workspace without overwriting anything, and logs the topic once the learner is done.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cli.ErrorMessage(err))
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", ".", "Directory containing the curriculum")
	rootCmd.PersistentFlags().Bool("debug", false, "Log controller events to stderr")
	rootCmd.PersistentFlags().Bool("json", false, "Machine-readable output")
}

// loadConfig reads the environment and applies the flags the user set explicitly.
func loadConfig(cmd *cobra.Command, args []string) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if cmd.Flags().Changed("dir") {
		cfg.Dir, _ = cmd.Flags().GetString("dir")
	} else if len(args) > 0 {
		cfg.Dir = args[0]
	}
	if cmd.Flags().Changed("debug") {
		cfg.Debug, _ = cmd.Flags().GetBool("debug")
	}
	return cfg, nil
}

func inspectOptions(cmd *cobra.Command, args []string) (cli.InspectOptions, error) {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return cli.InspectOptions{}, err
	}
	jsonMode, _ := cmd.Flags().GetBool("json")
	return cli.InspectOptions{Config: cfg, JSON: jsonMode, Output: cmd.OutOrStdout()}, nil
}
