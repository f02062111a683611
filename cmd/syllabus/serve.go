package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/syllabus/internal/cli"
)

var serveCmd = &cobra.Command{
	Use:   "serve [dir]",
	Short: "Start the HTTP server",
	Long:  `Exposes sessions, status, lessons, lifecycle events (SSE) and Prometheus metrics as a JSON API over HTTP.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, args)
		if err != nil {
			return err
		}
		port, _ := cmd.Flags().GetInt("port")
		return cli.RunServe(cmd.Context(), cli.ServeOptions{Config: cfg, Port: port, Output: cmd.OutOrStdout()})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
}
