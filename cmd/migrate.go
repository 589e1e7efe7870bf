package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"kanband/internal/config"
	"kanband/internal/database"
	"kanband/internal/logging"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if err := logging.Init(cfg.LogFile); err != nil {
			return err
		}

		// InitDB runs migrations as part of opening the database
		db, err := database.InitDB(cmd.Context(), cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer db.Close()

		slog.Info("database schema up to date", "db", cfg.DatabasePath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
