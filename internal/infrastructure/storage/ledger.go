package storage

import (
	"context"
	"database/sql"
	"fmt"

	"StockPulse/internal/ports"
)

// Ledger implements the seen-URL set over the unique URL column of the
// source table: membership there is what "fully processed" means for the
// Postgres deployment. Loaded fully into memory at run start.
type Ledger struct {
	db   *sql.DB
	seen map[string]struct{}
}

var _ ports.Ledger = (*Ledger)(nil)

// NewLedger wires the ledger to an open connection pool.
func NewLedger(db *sql.DB) *Ledger {
	return &Ledger{db: db}
}

// NewLedgerFromStore shares the store's pool.
func NewLedgerFromStore(store *Store) *Ledger {
	return &Ledger{db: store.db}
}

// Load reads every recorded URL. An error here must abort the run before
// enrichment starts.
func (l *Ledger) Load(ctx context.Context) error {
	if l.db == nil {
		return fmt.Errorf("ledger has no database connection")
	}

	rows, err := l.db.QueryContext(ctx, `SELECT url FROM source`)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}
	defer rows.Close()

	seen := map[string]struct{}{}
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return fmt.Errorf("scan ledger url: %w", err)
		}
		seen[url] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate ledger: %w", err)
	}

	l.seen = seen
	return nil
}

// HasSeen reports membership in the loaded set.
func (l *Ledger) HasSeen(url string) bool {
	_, ok := l.seen[url]
	return ok
}

// Record marks a URL as processed. Durability comes from the source row the
// writer already inserted; only the in-memory view needs updating.
func (l *Ledger) Record(_ context.Context, url string) error {
	if l.seen == nil {
		return fmt.Errorf("ledger is not loaded")
	}
	l.seen[url] = struct{}{}
	return nil
}
