package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"kanband/internal/auth"
	"kanband/internal/config"
	"kanband/internal/database"
	"kanband/internal/logging"
	"kanband/internal/models"
)

var (
	userEmail    string
	userName     string
	userPassword string
	userAdmin    bool
)

var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Create a board user",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if err := logging.Init(cfg.LogFile); err != nil {
			return err
		}

		db, err := database.InitDB(cmd.Context(), cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer db.Close()

		role := models.RoleMember
		if userAdmin {
			role = models.RoleAdmin
		}

		authSvc := auth.NewService(database.NewRepository(db), cfg.JWTSecret, time.Duration(cfg.TokenTTL))
		user, err := authSvc.Register(cmd.Context(), userEmail, userName, userPassword, role)
		if err != nil {
			return err
		}

		fmt.Printf("created user %d (%s, role %s)\n", user.ID, user.Email, user.Role)
		return nil
	},
}

func init() {
	createUserCmd.Flags().StringVar(&userEmail, "email", "", "user email (required)")
	createUserCmd.Flags().StringVar(&userName, "name", "", "display name")
	createUserCmd.Flags().StringVar(&userPassword, "password", "", "password (required)")
	createUserCmd.Flags().BoolVar(&userAdmin, "admin", false, "grant the admin role")
	createUserCmd.MarkFlagRequired("email")
	createUserCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(createUserCmd)
}
