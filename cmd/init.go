package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/clinicdesk/clinicsync/internal/db"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the local database",
	Long:  `Creates the data directory and SQLite database with the current schema.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(filepath.Join(cfg.DataDir, "clinic.db")); err == nil {
			fmt.Printf("Database already exists in %s\n", cfg.DataDir)
			return nil
		}

		database, err := db.Initialize(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("initialize database: %w", err)
		}
		defer database.Close()

		fmt.Printf("Initialized %s\n", filepath.Join(cfg.DataDir, "clinic.db"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
