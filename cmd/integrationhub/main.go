package main

import (
	"os"

	"github.com/spf13/cobra"

	"integrationhub/internal/interfaces/cli/configcmd"
	"integrationhub/internal/interfaces/cli/migrate"
	"integrationhub/internal/interfaces/cli/server"
	"integrationhub/internal/interfaces/cli/token"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "integrationhub",
		Short:        "HighLevel and Wafeq integration backend",
		Long:         `integrationhub brokers OAuth connections and webhook ingestion between HighLevel and Wafeq, with migration and administrative commands.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		configcmd.NewCommand(),
		token.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
