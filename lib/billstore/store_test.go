package billstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"cloudbill/lib/scrapers/console"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestPushPull(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "billing.db"))
	require.NoError(t, err)
	defer db.Close()

	store := NewStore(db)
	ctx := context.Background()

	first := console.BillingSnapshot{
		Credit: "$100.00",
		Usage:  "$25.50",
		History: []console.HistoryEntry{
			{Date: day(2017, time.January, 5), Amount: "$-2.50", Description: "Compute"},
			{Date: day(2017, time.February, 1), Amount: "$0.75", Description: "Backups"},
		},
	}
	second := console.BillingSnapshot{
		Credit:  "$97.50",
		Usage:   "$28.00",
		History: nil,
	}

	require.NoError(t, store.Push(ctx, day(2017, time.February, 2), first))
	require.NoError(t, store.Push(ctx, day(2017, time.March, 2), second))

	recorded, err := store.Pull(ctx)
	require.NoError(t, err)
	require.Len(t, recorded, 2)

	require.True(t, recorded[0].Time.Equal(day(2017, time.February, 2)))
	if diff := cmp.Diff(first, recorded[0].Snapshot); diff != "" {
		t.Fatalf("first snapshot mismatch (-want +got):\n%s", diff)
	}

	require.True(t, recorded[1].Time.Equal(day(2017, time.March, 2)))
	if diff := cmp.Diff(second, recorded[1].Snapshot); diff != "" {
		t.Fatalf("second snapshot mismatch (-want +got):\n%s", diff)
	}
}
