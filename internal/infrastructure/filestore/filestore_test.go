package filestore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockPulse/internal/domain"
	"StockPulse/internal/ports"
)

func TestFileLedgerRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ledger.txt")
	ctx := context.Background()

	ledger := NewFileLedger(path)
	require.NoError(t, ledger.Load(ctx), "missing file is a first run, not an error")
	assert.False(t, ledger.HasSeen("https://a/1"))

	require.NoError(t, ledger.Record(ctx, "https://a/1"))
	require.NoError(t, ledger.Record(ctx, "https://a/2"))
	// Idempotent re-record.
	require.NoError(t, ledger.Record(ctx, "https://a/1"))

	// A fresh instance must see the same set after reloading.
	reloaded := NewFileLedger(path)
	require.NoError(t, reloaded.Load(ctx))
	assert.True(t, reloaded.HasSeen("https://a/1"))
	assert.True(t, reloaded.HasSeen("https://a/2"))
	assert.False(t, reloaded.HasSeen("https://a/3"))
}

func TestFileLedgerRecordBeforeLoad(t *testing.T) {
	t.Parallel()

	ledger := NewFileLedger(filepath.Join(t.TempDir(), "ledger.txt"))
	assert.Error(t, ledger.Record(context.Background(), "https://a/1"))
}

func TestCSVStoreSourceDuplicate(t *testing.T) {
	t.Parallel()

	store, err := NewCSVStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	src := domain.Source{
		URL:                   "https://a/1",
		OriginID:              1,
		PredictedSentiment:    0.4,
		PredictedSubjectivity: 0.2,
		FetchedAt:             time.Now(),
	}

	first, err := store.InsertSource(ctx, src)
	require.NoError(t, err)
	assert.Positive(t, first)

	again, err := store.InsertSource(ctx, src)
	assert.ErrorIs(t, err, ports.ErrAlreadyExists)
	assert.Equal(t, first, again, "duplicate reports the existing id")
}

func TestCSVStoreStocksPersistAcrossReopen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewCSVStore(dir)
	require.NoError(t, err)

	id, err := store.Insert(ctx, "XCRP", "XCRP")
	require.NoError(t, err)

	reopened, err := NewCSVStore(dir)
	require.NoError(t, err)

	abbrs, err := reopened.Abbreviations(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, abbrs["xcrp"])

	found, err := reopened.FindByAbbreviation(ctx, "xcrp")
	require.NoError(t, err)
	assert.Equal(t, id, found)

	_, err = reopened.Insert(ctx, "xcrp", "xcrp")
	assert.ErrorIs(t, err, ports.ErrAlreadyExists)
}

func TestCSVStoreLinkIdempotent(t *testing.T) {
	t.Parallel()

	store, err := NewCSVStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Link(ctx, 1, 2))
	require.NoError(t, store.Link(ctx, 1, 2))

	records, err := readCSV(filepath.Join(store.dir, linksFile))
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestCSVStoreSourcesSurviveReopen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewCSVStore(dir)
	require.NoError(t, err)
	_, err = store.InsertSource(ctx, domain.Source{URL: "https://a/1", FetchedAt: time.Now()})
	require.NoError(t, err)

	reopened, err := NewCSVStore(dir)
	require.NoError(t, err)
	_, err = reopened.InsertSource(ctx, domain.Source{URL: "https://a/1", FetchedAt: time.Now()})
	assert.ErrorIs(t, err, ports.ErrAlreadyExists)
}
