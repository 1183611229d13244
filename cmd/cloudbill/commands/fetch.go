package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Logs into the console and prints credit, usage and billing history.",
	Run: func(cmd *cobra.Command, args []string) {
		snapshot := fetchSnapshot(cmd.Context())

		fmt.Printf("Credit: %s\n", snapshot.Credit)
		fmt.Printf("Usage: %s\n", snapshot.Usage)
		printHistory(snapshot.History)
	},
}
