package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"StockPulse/internal/domain"
	"StockPulse/internal/ports"
)

//go:embed schema.sql
var schemaSQL string

// uniqueViolation is the Postgres error code for a unique-constraint hit.
const uniqueViolation = "23505"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Store persists stocks, sources, and their links in Postgres. It is the
// sole mutator of those tables.
type Store struct {
	db *sql.DB
}

var _ ports.StockStore = (*Store)(nil)
var _ ports.SourceStore = (*Store)(nil)

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("empty database DSN")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &Store{db: db}, nil
}

// NewStore wires an existing sql.DB.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close releases the connection pool.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// EnsureSchema creates the tables if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// EnsureOrigin returns the id for a named feed origin, creating the row on
// first use.
func (s *Store) EnsureOrigin(ctx context.Context, name string) (int64, error) {
	query, args, err := psql.Insert("source_origin").
		Columns("name").
		Values(name).
		Suffix("ON CONFLICT (name) DO NOTHING").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build origin insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("ensure origin %q: %w", name, err)
	}

	return s.OriginID(ctx, name)
}

// OriginID resolves a named feed origin to its row id.
func (s *Store) OriginID(ctx context.Context, name string) (int64, error) {
	query, args, err := psql.Select("id").
		From("source_origin").
		Where(sq.Eq{"name": name}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build origin query: %w", err)
	}

	var id int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("origin %q: %w", name, ports.ErrNotFound)
		}
		return 0, fmt.Errorf("query origin %q: %w", name, err)
	}
	return id, nil
}

// Abbreviations loads the full lowercase-abbreviation to id mapping used to
// seed the resolver cache.
func (s *Store) Abbreviations(ctx context.Context) (map[string]int64, error) {
	query, _, err := psql.Select("LOWER(abbreviation)", "id").From("stock").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build stock query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query stocks: %w", err)
	}
	defer rows.Close()

	result := map[string]int64{}
	for rows.Next() {
		var (
			abbr string
			id   int64
		)
		if err := rows.Scan(&abbr, &id); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		result[abbr] = id
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stocks: %w", err)
	}
	return result, nil
}

// Insert creates a stock row with the canonical uppercase abbreviation.
// A concurrent create of the same abbreviation surfaces as ErrAlreadyExists.
func (s *Store) Insert(ctx context.Context, abbreviation, name string) (int64, error) {
	query, args, err := psql.Insert("stock").
		Columns("abbreviation", "name").
		Values(strings.ToUpper(abbreviation), name).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build stock insert: %w", err)
	}

	var id int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("stock %s: %w", abbreviation, ports.ErrAlreadyExists)
		}
		return 0, fmt.Errorf("insert stock %s: %w", abbreviation, err)
	}
	return id, nil
}

// FindByAbbreviation looks a stock up case-insensitively.
func (s *Store) FindByAbbreviation(ctx context.Context, abbreviation string) (int64, error) {
	query, args, err := psql.Select("id").
		From("stock").
		Where("LOWER(abbreviation) = LOWER(?)", abbreviation).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build stock lookup: %w", err)
	}

	var id int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("stock %s: %w", abbreviation, ports.ErrNotFound)
		}
		return 0, fmt.Errorf("find stock %s: %w", abbreviation, err)
	}
	return id, nil
}

// InsertSource creates a source row keyed by URL. A unique-URL violation is
// reported as ErrAlreadyExists, never as a failure.
func (s *Store) InsertSource(ctx context.Context, src domain.Source) (int64, error) {
	query, args, err := psql.Insert("source").
		Columns("url", "source_origin_id", "predicted_sentiment_score", "predicted_opinion_score", "date_fetched").
		Values(src.URL, src.OriginID, src.PredictedSentiment, src.PredictedSubjectivity, src.FetchedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build source insert: %w", err)
	}

	var id int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("source %s: %w", src.URL, ports.ErrAlreadyExists)
		}
		return 0, fmt.Errorf("insert source %s: %w", src.URL, err)
	}
	return id, nil
}

// Link records a stock/source pairing; a duplicate pair is a no-op.
func (s *Store) Link(ctx context.Context, stockID, sourceID int64) error {
	query, args, err := psql.Insert("stocks_source").
		Columns("stock_id", "source_id").
		Values(stockID, sourceID).
		Suffix("ON CONFLICT DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build link insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("link stock %d to source %d: %w", stockID, sourceID, err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
