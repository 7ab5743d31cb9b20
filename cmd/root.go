// Package cmd implements the clinicsync CLI.
package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/clinicdesk/clinicsync/internal/config"
	"github.com/clinicdesk/clinicsync/internal/logging"
)

var (
	version    string
	configPath string

	cfg    *config.Config
	logger *slog.Logger
)

// SetVersion sets the version string shown by --version.
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

var rootCmd = &cobra.Command{
	Use:   "clinicsync",
	Short: "Local-first clinic data synchronization service",
	Long: `clinicsync keeps a clinic's appointments and articles available offline.

All reads and writes go to an embedded SQLite database; a background sync
reconciles it with the remote store whenever a connection is available. The
serve command exposes the command bridge the desktop UI talks to.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		logger = logging.Setup(cfg.Log)
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmtErr(err)
		os.Exit(1)
	}
}

func fmtErr(err error) {
	os.Stderr.WriteString("Error: " + err.Error() + "\n")
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
}
