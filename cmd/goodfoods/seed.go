package main

import (
	"fmt"
	"log/slog"

	"goodfoods/internal/config"
	"goodfoods/internal/db"

	"github.com/spf13/cobra"
)

var seedCount int

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the restaurant catalog with sample data",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		database, err := db.Open(cfg.DB.Path)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		if err := database.Migrate(); err != nil {
			return fmt.Errorf("migrating database: %w", err)
		}

		inserted, err := database.SeedIfEmpty(seedCount)
		if err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
		if inserted == 0 {
			slog.Info("catalog already populated, nothing to do")
			return nil
		}
		slog.Info("catalog seeded", "restaurants", inserted, "db", cfg.DB.Path)
		return nil
	},
}

func init() {
	seedCmd.Flags().IntVarP(&seedCount, "count", "n", 75, "number of restaurants to generate")
}
