package cmd

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"recworklist/internal/infrastructure/sqlite"
)

var (
	historyLimit int
	historyPrune int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded backend results",
	Long: `List the backend results recorded in the local database, newest first.
Recording is controlled by the result-history flag.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := newRuntime(false)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := cmd.Context()
		repo := rt.db.Results()
		if cmd.Flags().Changed("prune") {
			n, err := repo.Prune(ctx, historyPrune)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %d record(s)\n", n)
			return nil
		}

		recs, err := repo.Recent(ctx, historyLimit)
		if err != nil {
			return err
		}
		renderHistory(cmd.OutOrStdout(), recs, time.Now())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of records to show")
	historyCmd.Flags().IntVar(&historyPrune, "prune", 0, "keep only the newest N records")
}

const historySummaryWidth = 60

func renderHistory(w io.Writer, recs []sqlite.ResultRecord, now time.Time) {
	if len(recs) == 0 {
		_, _ = fmt.Fprintln(w, "No results recorded")
		return
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"ID", "When", "Endpoint", "Status", "Took", "Result"})
	for _, rec := range recs {
		result := rec.Summary
		if !rec.OK {
			result = "error: " + rec.Error
		}
		status := "-"
		if rec.Status > 0 {
			status = strconv.Itoa(rec.Status)
		}
		tw.AppendRow(table.Row{
			rec.ID,
			humanize.RelTime(rec.CreatedAt, now, "ago", "from now"),
			rec.Endpoint,
			status,
			rec.Duration.Round(time.Millisecond).String(),
			text.Snip(result, historySummaryWidth, "…"),
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	tw.Render()
}
