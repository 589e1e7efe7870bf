package cmd

import (
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "kanband",
	Short: "Kanband - a kanban board server",
	Long:  `Kanband serves a kanban task board over HTTP with a live WebSocket event feed.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "kanband.yaml", "path to config file")
}

func Execute() error {
	return rootCmd.Execute()
}
