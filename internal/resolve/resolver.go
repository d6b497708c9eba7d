package resolve

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"StockPulse/internal/ports"
)

// Resolver maps ticker symbols to stock row identifiers, creating rows
// lazily on first sight. The cache is keyed by lowercase abbreviation and
// hydrated once per run.
type Resolver struct {
	stocks ports.StockStore
	cache  map[string]int64
	logger *slog.Logger
}

var _ ports.StockResolver = (*Resolver)(nil)

// New builds an unhydrated resolver over the given store.
func New(stocks ports.StockStore, logger *slog.Logger) *Resolver {
	return &Resolver{stocks: stocks, logger: logger}
}

// Hydrate loads the existing abbreviation-to-id mapping from the store.
// Must succeed before Resolve is called.
func (r *Resolver) Hydrate(ctx context.Context) error {
	if r.stocks == nil {
		return fmt.Errorf("stock store is not configured")
	}

	cache, err := r.stocks.Abbreviations(ctx)
	if err != nil {
		return fmt.Errorf("hydrate stock cache: %w", err)
	}
	if cache == nil {
		cache = map[string]int64{}
	}
	r.cache = cache
	return nil
}

// Resolve returns the stable identifier for a symbol. Lookup is
// case-insensitive; creation stores the canonical uppercase abbreviation
// with the raw symbol as placeholder name. A create that loses a race to a
// concurrent writer falls back to a re-query before reporting failure.
func (r *Resolver) Resolve(ctx context.Context, symbol string) (int64, error) {
	if r.cache == nil {
		return 0, fmt.Errorf("resolver is not hydrated")
	}

	key := strings.ToLower(strings.TrimSpace(symbol))
	if key == "" {
		return 0, fmt.Errorf("empty symbol")
	}

	if id, ok := r.cache[key]; ok {
		return id, nil
	}

	id, err := r.stocks.Insert(ctx, strings.ToUpper(key), strings.TrimSpace(symbol))
	if err != nil {
		// Another writer may have created the abbreviation since
		// hydration; the store is authoritative, not the cache.
		found, findErr := r.stocks.FindByAbbreviation(ctx, strings.ToUpper(key))
		if findErr != nil {
			return 0, fmt.Errorf("resolve %s: insert: %w (re-query: %v)", symbol, err, findErr)
		}
		r.debug("stock created concurrently", "symbol", symbol, "id", found)
		r.cache[key] = found
		return found, nil
	}

	r.cache[key] = id
	return id, nil
}

func (r *Resolver) debug(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}
