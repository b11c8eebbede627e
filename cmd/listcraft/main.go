package main

import (
	"os"

	"github.com/spf13/cobra"

	"listcraft/internal/interfaces/cli/migrate"
	"listcraft/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "listcraft",
		Short: "ListingCraft - AI property listing descriptions",
		Long:  `ListingCraft generates property listing descriptions, gated by subscription quotas synced from the billing provider.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
