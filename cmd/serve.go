package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"kanband/internal/config"
	"kanband/internal/database"
	"kanband/internal/events"
	"kanband/internal/logging"
	"kanband/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the board server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if err := logging.Init(cfg.LogFile); err != nil {
			return err
		}

		// Graceful shutdown on interrupt
		ctx, cancel := signal.NotifyContext(
			context.Background(),
			os.Interrupt,
			syscall.SIGTERM,
			syscall.SIGQUIT,
		)
		defer cancel()

		db, err := database.InitDB(ctx, cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer db.Close()

		bus := events.NewBus(64)
		defer bus.Close()

		srv := server.New(cfg, database.NewRepository(db), bus)

		slog.Info("kanband starting", "addr", cfg.Listen, "db", cfg.DatabasePath, "pid", os.Getpid())
		if err := srv.Run(ctx); err != nil {
			return err
		}
		slog.Info("kanband shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
