package cmd

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"thelife/catalog"
	"thelife/config"
	"thelife/database"
	"thelife/game"
)

var seedCmd = &cobra.Command{
	Use:   "seed [catalog.toml]",
	Short: "Load the game catalog into the database",
	Long:  "Upserts crimes, businesses, workers, items and store items by name and schedules dock boats. Without a file the built-in catalog is used.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			c   *catalog.Catalog
			err error
		)
		if len(args) == 1 {
			c, err = catalog.LoadFile(args[0])
		} else {
			c, err = catalog.Default()
		}
		if err != nil {
			return fmt.Errorf("failed to load catalog: %w", err)
		}

		cfg := config.Get()
		db, err := database.NewConnection(cmd.Context(), database.ConstructDatabaseURL(cfg.DatabaseURL, cfg.DatabaseName))
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		if err := catalog.Seed(cmd.Context(), db, c, game.SystemClock{}.Now()); err != nil {
			return err
		}
		log.Info("Catalog seeded")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
