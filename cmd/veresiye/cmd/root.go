// Package cmd provides the CLI commands for veresiye.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mmynk/veresiye/internal/config"
	"github.com/mmynk/veresiye/internal/storage/sqlite"
	"github.com/mmynk/veresiye/pkg/logging"
)

var (
	cfgFile string
	debug   bool
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "veresiye",
	Short: "Credit ledger for small shops",
	Long: `veresiye keeps the tab ("veresiye defteri") of a small shop: customers,
what they owe, every payment and purchase on credit, and scheduled CSV/XLSX
snapshots of the customer list.

Example:
  veresiye serve
  veresiye backup --dir /mnt/usb --format xlsx
  veresiye prune --max-age-days 60
  veresiye summary --list`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(cfgFile); err != nil {
			return err
		}
		if debug {
			cfg.LogLevel = "debug"
		}
		logging.Setup(cfg.LogLevel)
		slog.Debug("Configuration loaded", "data_dir", cfg.DataDir, "db", cfg.DBPath, "backups", cfg.BackupDir)
		return nil
	},
}

// Execute runs the root command. It is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is config.yaml in the working or data directory)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(pruneCmd)
	rootCmd.AddCommand(summaryCmd)
}

func openStore() (*sqlite.SQLiteStore, error) {
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", cfg.DBPath, err)
	}
	return store, nil
}
