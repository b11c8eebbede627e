package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"listcraft/internal/infrastructure/config"
	"listcraft/internal/infrastructure/database"
	"listcraft/internal/infrastructure/migration"
	"listcraft/internal/infrastructure/persistence/seeds"
	"listcraft/internal/shared/logger"
)

var env string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Apply the database schema for all ListingCraft models.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	cmd.AddCommand(newUpCommand())
	cmd.AddCommand(newSeedCommand())

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		Long:  `Bring the database schema up to date with the registered models.`,
		RunE:  runUp,
	}
}

func runUp(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	if err := migration.NewMigrator(database.Get()).Run(); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the default plan catalog",
		Long:  `Insert the Basic, Pro and Agency plans if they do not exist yet.`,
		RunE:  runSeed,
	}
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	if err := seeds.SeedPlans(database.Get()); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}

	logger.NewLogger().Infow("plan catalog seeded")
	return nil
}
