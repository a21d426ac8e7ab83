package cmd

import (
	"github.com/spf13/cobra"

	"thelife/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the game HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(cmd.Context(), config.Get())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
