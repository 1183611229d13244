package commands

import (
	"log/slog"
	"time"

	"cloudbill/lib/billstore"
	"cloudbill/lib/serviceutil"

	"github.com/spf13/cobra"
)

var recordDb *string

func init() {
	recordDb = recordCmd.Flags().String("db", "billing.db", "The database to append snapshots to.")
	rootCmd.AddCommand(recordCmd)
}

var recordCmd = &cobra.Command{
	Use:   "record [--db <path/to/output.db>]",
	Short: "Fetches a billing snapshot and appends it to a sqlite database.",
	Run: func(cmd *cobra.Command, args []string) {
		snapshot := fetchSnapshot(cmd.Context())

		db, err := billstore.Open(*recordDb)
		if err != nil {
			serviceutil.Fatal("failed to open db", err)
		}
		defer db.Close()

		store := billstore.NewStore(db)
		err = store.Push(cmd.Context(), time.Now(), snapshot)
		if err != nil {
			serviceutil.Fatal("failed to record snapshot", err)
		}
		slog.Info("recorded billing snapshot", "db", *recordDb, "entries", len(snapshot.History))
	},
}
