package filestore

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"StockPulse/internal/domain"
	"StockPulse/internal/ports"
)

// FileLedger is the flat-file seen-URL set: one URL per line, appended as
// each item commits so a mid-batch crash loses at most the in-flight item.
type FileLedger struct {
	path string
	mu   sync.Mutex
	seen map[string]struct{}
}

var _ ports.Ledger = (*FileLedger)(nil)

// NewFileLedger points the ledger at its backing file; the file is created
// on first Record.
func NewFileLedger(path string) *FileLedger {
	return &FileLedger{path: path}
}

// Load reads all previously recorded URLs. A missing file means a first
// run; any other failure aborts before enrichment.
func (l *FileLedger) Load(_ context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seen = map[string]struct{}{}

	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open ledger %s: %w", l.path, err)
	}
	defer f.Close()

	lines := bufio.NewScanner(f)
	for lines.Scan() {
		if url := strings.TrimSpace(lines.Text()); url != "" {
			l.seen[url] = struct{}{}
		}
	}
	if err := lines.Err(); err != nil {
		return fmt.Errorf("read ledger %s: %w", l.path, err)
	}
	return nil
}

// HasSeen reports membership in the loaded set.
func (l *FileLedger) HasSeen(url string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.seen[url]
	return ok
}

// Record appends the URL and syncs so the commit survives a crash.
// Recording a seen URL is a no-op.
func (l *FileLedger) Record(_ context.Context, url string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.seen == nil {
		return fmt.Errorf("ledger is not loaded")
	}
	if _, ok := l.seen[url]; ok {
		return nil
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open ledger %s: %w", l.path, err)
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, url); err != nil {
		return fmt.Errorf("append ledger %s: %w", l.path, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync ledger %s: %w", l.path, err)
	}

	l.seen[url] = struct{}{}
	return nil
}

// CSVStore is the flat-file durable store: sentiment rows append to one CSV,
// stocks and links to two others. Identifiers are assigned in memory per
// process; suitable for the single-writer light deployment only.
type CSVStore struct {
	dir string

	mu       sync.Mutex
	origins  map[string]int64
	sources  map[string]int64
	stocks   map[string]int64
	links    map[[2]int64]struct{}
	nextOrig int64
	nextSrc  int64
	nextStk  int64
}

var _ ports.SourceStore = (*CSVStore)(nil)
var _ ports.StockStore = (*CSVStore)(nil)

const (
	sourcesFile = "stock_news_sentiment.csv"
	stocksFile  = "stocks.csv"
	linksFile   = "stocks_source.csv"
)

// NewCSVStore opens (or seeds) the CSV files under dir.
func NewCSVStore(dir string) (*CSVStore, error) {
	s := &CSVStore{
		dir:     dir,
		origins: map[string]int64{},
		sources: map[string]int64{},
		stocks:  map[string]int64{},
		links:   map[[2]int64]struct{}{},
	}

	if err := s.loadStocks(); err != nil {
		return nil, err
	}
	if err := s.loadSources(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *CSVStore) loadStocks() error {
	records, err := readCSV(filepath.Join(s.dir, stocksFile))
	if err != nil {
		return err
	}
	for _, rec := range records {
		if len(rec) < 2 {
			continue
		}
		id, err := strconv.ParseInt(rec[0], 10, 64)
		if err != nil {
			continue
		}
		s.stocks[strings.ToLower(rec[1])] = id
		if id > s.nextStk {
			s.nextStk = id
		}
	}
	return nil
}

func (s *CSVStore) loadSources() error {
	records, err := readCSV(filepath.Join(s.dir, sourcesFile))
	if err != nil {
		return err
	}
	for _, rec := range records {
		if len(rec) < 2 {
			continue
		}
		id, err := strconv.ParseInt(rec[0], 10, 64)
		if err != nil {
			continue
		}
		s.sources[rec[1]] = id
		if id > s.nextSrc {
			s.nextSrc = id
		}
	}
	return nil
}

// OriginID assigns origin ids in memory; the CSV deployment has no origin
// table, the name is carried in each sentiment row instead.
func (s *CSVStore) OriginID(_ context.Context, name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.origins[name]; ok {
		return id, nil
	}
	s.nextOrig++
	s.origins[name] = s.nextOrig
	return s.nextOrig, nil
}

// InsertSource appends a sentiment row; a URL already present is reported
// as ErrAlreadyExists.
func (s *CSVStore) InsertSource(_ context.Context, src domain.Source) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.sources[src.URL]; ok {
		return id, fmt.Errorf("source %s: %w", src.URL, ports.ErrAlreadyExists)
	}

	s.nextSrc++
	id := s.nextSrc
	row := []string{
		strconv.FormatInt(id, 10),
		src.URL,
		strconv.FormatInt(src.OriginID, 10),
		strconv.FormatFloat(src.PredictedSentiment, 'f', -1, 64),
		strconv.FormatFloat(src.PredictedSubjectivity, 'f', -1, 64),
		src.FetchedAt.UTC().Format(time.RFC3339),
	}
	if err := appendCSV(filepath.Join(s.dir, sourcesFile), row); err != nil {
		s.nextSrc--
		return 0, err
	}

	s.sources[src.URL] = id
	return id, nil
}

// Link appends a stock/source pair once.
func (s *CSVStore) Link(_ context.Context, stockID, sourceID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := [2]int64{stockID, sourceID}
	if _, ok := s.links[key]; ok {
		return nil
	}

	row := []string{strconv.FormatInt(stockID, 10), strconv.FormatInt(sourceID, 10)}
	if err := appendCSV(filepath.Join(s.dir, linksFile), row); err != nil {
		return err
	}
	s.links[key] = struct{}{}
	return nil
}

// Abbreviations returns the loaded lowercase-abbreviation mapping.
func (s *CSVStore) Abbreviations(context.Context) (map[string]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]int64, len(s.stocks))
	for abbr, id := range s.stocks {
		out[abbr] = id
	}
	return out, nil
}

// Insert appends a stock row with the canonical uppercase abbreviation.
func (s *CSVStore) Insert(_ context.Context, abbreviation, name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(abbreviation)
	if _, ok := s.stocks[key]; ok {
		return 0, fmt.Errorf("stock %s: %w", abbreviation, ports.ErrAlreadyExists)
	}

	s.nextStk++
	id := s.nextStk
	row := []string{strconv.FormatInt(id, 10), strings.ToUpper(abbreviation), name}
	if err := appendCSV(filepath.Join(s.dir, stocksFile), row); err != nil {
		s.nextStk--
		return 0, err
	}

	s.stocks[key] = id
	return id, nil
}

// FindByAbbreviation looks a stock up case-insensitively.
func (s *CSVStore) FindByAbbreviation(_ context.Context, abbreviation string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.stocks[strings.ToLower(abbreviation)]; ok {
		return id, nil
	}
	return 0, fmt.Errorf("stock %s: %w", abbreviation, ports.ErrNotFound)
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return records, nil
}

func appendCSV(path string, row []string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(row); err != nil {
		return fmt.Errorf("append %s: %w", path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}
