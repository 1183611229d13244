package commands

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var historyFormat *string

func init() {
	historyFormat = historyCmd.Flags().String("format", "plain", "Output format, one of: plain, table.")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history [--format plain|table]",
	Short: "Logs into the console and prints only the billing history.",
	Run: func(cmd *cobra.Command, args []string) {
		snapshot := fetchSnapshot(cmd.Context())

		if *historyFormat != "table" {
			printHistory(snapshot.History)
			return
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Date", "Amount", "Description"})
		for _, e := range snapshot.History {
			t.AppendRow(table.Row{
				e.Date.Format("2006-01-02"),
				e.Amount,
				e.Description,
			})
		}
		t.Render()
	},
}
