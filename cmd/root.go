package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"thelife/config"
)

var rootCmd = &cobra.Command{
	Use:           "thelife",
	Short:         "Crime-economy game server",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Get().ConfigureLogging()
	},
}

// Execute runs the command named on the command line
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
