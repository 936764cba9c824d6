package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/veresiye/internal/backup"
	"github.com/mmynk/veresiye/internal/snapshot"
)

var (
	backupDir    string
	backupPrefix string
	backupFormat string
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Write a snapshot of all customers now",
	Long: `Write a CSV or XLSX snapshot of every customer to a directory and record it
as the last backup.

Example:
  veresiye backup
  veresiye backup --dir /mnt/usb --prefix dukkan --format xlsx`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := snapshot.ParseFormat(backupFormat)
		if err != nil {
			return err
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		dir := backupDir
		if dir == "" {
			dir = cfg.BackupDir
		}

		scheduler := backup.NewScheduler(store, cfg.BackupDir)
		path, err := scheduler.Backup(cmd.Context(), backup.ManualRequest{Dir: dir, Prefix: backupPrefix, Format: format})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	backupCmd.Flags().StringVar(&backupDir, "dir", "", "destination directory (default is the backup directory)")
	backupCmd.Flags().StringVar(&backupPrefix, "prefix", snapshot.ManualPrefix, "file name prefix")
	backupCmd.Flags().StringVar(&backupFormat, "format", string(snapshot.FormatCSV), "csv or xlsx")
}
