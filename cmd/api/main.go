package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/noruno/platform/cmd/api/commands"
)

// @title Noruno API
// @version 1.0
// @description Local API for tasks, memos, reading log, calendar and mail reminders

// @host localhost:8765
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and a token from `noruno token issue`.

func main() {
	rootCmd := &cobra.Command{
		Use:           "noruno",
		Short:         "Noruno productivity backend",
		Long:          `Noruno keeps tasks, memos, a reading log and calendar events in one local store and emails reminders before tasks are due.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&commands.ConfigFile, "config", "c", "", "config file (default ./config.yaml)")

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewImportCommand())
	rootCmd.AddCommand(commands.NewNotifyCommand())
	rootCmd.AddCommand(commands.NewMailCommand())
	rootCmd.AddCommand(commands.NewTokenCommand())
	rootCmd.AddCommand(commands.NewExportCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
