package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gravitrone/libris/internal/ui"
	"github.com/gravitrone/libris/internal/ui/components"
)

// StatsCmd returns the `libris stats` command: the dashboard totals and the
// newest books and borrow records.
func StatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show library totals and recent activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, done, err := newClient()
			if err != nil {
				return err
			}
			defer done()
			s, err := client.FetchSummary(cmd.Context())
			if err != nil {
				return failed("load stats", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "books       %d\n", s.TotalBooks)
			fmt.Fprintf(out, "authors     %d\n", s.TotalAuthors)
			fmt.Fprintf(out, "categories  %d\n", s.TotalCategories)
			fmt.Fprintf(out, "borrows     %d\n", s.TotalBorrows)

			fmt.Fprintln(out, "\nrecent books")
			if len(s.RecentBooks) == 0 {
				fmt.Fprintln(out, "  none")
			} else {
				fmt.Fprint(out, components.PlainTable(ui.BookColumns, ui.Rows(s.RecentBooks, ui.BookRow)))
			}

			fmt.Fprintln(out, "\nrecent borrows")
			if len(s.RecentBorrows) == 0 {
				fmt.Fprintln(out, "  none")
			} else {
				fmt.Fprint(out, components.PlainTable(ui.BorrowColumns, ui.Rows(s.RecentBorrows, ui.BorrowRow)))
			}
			return nil
		},
	}
}
