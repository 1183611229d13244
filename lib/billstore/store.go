package billstore

import (
	"context"
	"database/sql"
	"time"

	"cloudbill/lib/scrapers/console"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	time INTEGER NOT NULL,
	credit TEXT NOT NULL,
	usage TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS history_entries (
	snapshot_id INTEGER NOT NULL REFERENCES snapshots(id),
	position INTEGER NOT NULL,
	date INTEGER NOT NULL,
	amount TEXT NOT NULL,
	description TEXT NOT NULL
);
`

func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// sqlite does not take kindly to concurrent writers
	db.SetMaxOpenConns(1)

	_, err = db.Exec(schema)
	if err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) Store {
	return Store{db: db}
}

type RecordedSnapshot struct {
	Time     time.Time
	Snapshot console.BillingSnapshot
}

// Push appends a snapshot taken at `at`, keeping the history rows in
// the order the pipeline produced them.
func (s Store) Push(ctx context.Context, at time.Time, snapshot console.BillingSnapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(
		ctx,
		`INSERT INTO snapshots (time, credit, usage) VALUES (?, ?, ?)`,
		at.Unix(), snapshot.Credit, snapshot.Usage,
	)
	if err != nil {
		return err
	}
	snapshotId, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for i, entry := range snapshot.History {
		_, err = tx.ExecContext(
			ctx,
			`INSERT INTO history_entries (snapshot_id, position, date, amount, description)
			 VALUES (?, ?, ?, ?, ?)`,
			snapshotId, i, entry.Date.Unix(), entry.Amount, entry.Description,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s Store) Pull(ctx context.Context) ([]RecordedSnapshot, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, time, credit, usage FROM snapshots ORDER BY time, id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type snapshotRow struct {
		id       int64
		recorded RecordedSnapshot
	}
	var collected []snapshotRow
	for rows.Next() {
		var row snapshotRow
		var unix int64
		err = rows.Scan(&row.id, &unix, &row.recorded.Snapshot.Credit, &row.recorded.Snapshot.Usage)
		if err != nil {
			return nil, err
		}
		row.recorded.Time = time.Unix(unix, 0).UTC()
		collected = append(collected, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var recorded []RecordedSnapshot
	for _, row := range collected {
		entries, err := s.pullEntries(ctx, row.id)
		if err != nil {
			return nil, err
		}
		row.recorded.Snapshot.History = entries
		recorded = append(recorded, row.recorded)
	}
	return recorded, nil
}

func (s Store) pullEntries(ctx context.Context, snapshotId int64) ([]console.HistoryEntry, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT date, amount, description FROM history_entries
		 WHERE snapshot_id = ? ORDER BY position`,
		snapshotId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []console.HistoryEntry
	for rows.Next() {
		var entry console.HistoryEntry
		var unix int64
		err = rows.Scan(&unix, &entry.Amount, &entry.Description)
		if err != nil {
			return nil, err
		}
		entry.Date = time.Unix(unix, 0).UTC()
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
