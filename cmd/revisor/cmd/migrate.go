package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/metadatalab/revisor/internal/config"
	"github.com/metadatalab/revisor/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if dbURL != "" {
		cfg.Database.URL = dbURL
	}

	db, err := store.Open(cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	applied, err := store.Migrate(db)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	for _, id := range applied {
		logger.Info("applied migration", zap.String("migration", id))
	}
	if len(applied) == 0 {
		logger.Info("database is up to date")
	}
	return nil
}
