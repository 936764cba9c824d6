package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/veresiye/internal/backup"
)

var (
	pruneDir    string
	pruneMaxAge int
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old snapshots",
	Long: `Delete snapshot files whose embedded timestamp is older than the retention.
Files whose name carries no timestamp are left alone.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		maxAge := pruneMaxAge
		if !cmd.Flags().Changed("max-age-days") {
			maxAge = -1
		} else if maxAge < 0 {
			return fmt.Errorf("--max-age-days must not be negative")
		}

		scheduler := backup.NewScheduler(store, cfg.BackupDir, backup.WithRetention(cfg.Backup.RetentionDays))
		deleted, err := scheduler.Prune(cmd.Context(), pruneDir, maxAge)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d old snapshot(s) deleted\n", deleted)
		return nil
	},
}

func init() {
	pruneCmd.Flags().StringVar(&pruneDir, "dir", "", "directory to prune (default is the backup directory)")
	pruneCmd.Flags().IntVar(&pruneMaxAge, "max-age-days", 0, "delete snapshots older than this many days (default is backup.retention_days)")
}
