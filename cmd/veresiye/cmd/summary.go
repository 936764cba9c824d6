package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mmynk/veresiye/internal/backup"
	"github.com/mmynk/veresiye/internal/models"
)

var summaryList bool

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print what customers owe in total",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := cmd.Context()
		summary, err := store.Summary(ctx)
		if err != nil {
			return err
		}
		last, err := backup.NewScheduler(store, cfg.BackupDir).LastBackup(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Total owed:       %s\n", summary.TotalOwing.StringFixed(2))
		fmt.Fprintf(out, "Debtors:          %d\n", summary.DebtorCount)
		fmt.Fprintf(out, "Average per debt: %s\n", summary.AverageOwing.StringFixed(2))
		if last != nil {
			fmt.Fprintf(out, "Last backup:      %s\n", last.Format("02.01.2006 15:04"))
		} else {
			fmt.Fprintln(out, "Last backup:      never")
		}

		if !summaryList {
			return nil
		}

		owing, err := store.ListCustomers(ctx, models.FilterOwing)
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "ID\tName\tPhone\tOwes\t")
		for i := range owing {
			c := &owing[i]
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t\n", c.ID, c.FullName(), c.Phone, c.Balance.StringFixed(2))
		}
		return tw.Flush()
	},
}

func init() {
	summaryCmd.Flags().BoolVar(&summaryList, "list", false, "also list every customer who owes")
}
