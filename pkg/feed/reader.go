package feed

import (
	"context"
	"sort"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/dailybrief/dailybrief/pkg/domain"
)

// Fetcher pulls entries from a single feed source
type Fetcher interface {
	Fetch(ctx context.Context, src domain.Source) ([]domain.Entry, error)
}

// Reader collects fresh entries across all configured sources.
// Each source is fetched independently, a failing source contributes
// nothing and does not affect the others.
type Reader struct {
	fetcher  Fetcher
	sources  []domain.Source
	maxAge   time.Duration
	maxItems int
	now      func() time.Time
}

// NewReader creates a reader over the configured sources. maxItems is the
// digest target, the reader returns up to twice that as slack for
// downstream per-entry failures.
func NewReader(fetcher Fetcher, sources []domain.Source, maxAge time.Duration, maxItems int) *Reader {
	return &Reader{
		fetcher:  fetcher,
		sources:  sources,
		maxAge:   maxAge,
		maxItems: maxItems,
		now:      time.Now,
	}
}

// Recent returns qualifying entries from all sources, newest first,
// capped at 2x the digest target. Entries with no parseable publication
// time are dropped, unknown age is treated as stale. An entry exactly at
// the cutoff age is included.
func (r *Reader) Recent(ctx context.Context) []domain.Entry {
	cutoff := r.now().Add(-r.maxAge)

	var entries []domain.Entry
	for _, src := range r.sources {
		fetched, err := r.fetcher.Fetch(ctx, src)
		if err != nil {
			lgr.Printf("[WARN] skipping source %q: %v", src.Name, err)
			continue
		}

		fresh := 0
		for _, e := range fetched {
			if e.Published.IsZero() {
				continue
			}
			if e.Published.Before(cutoff) {
				continue
			}
			entries = append(entries, e)
			fresh++
		}
		lgr.Printf("[DEBUG] source %q: %d fresh of %d entries", src.Name, fresh, len(fetched))
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Published.After(entries[j].Published)
	})

	// extra slack in case some entries fail model calls later
	if limit := r.maxItems * 2; len(entries) > limit {
		entries = entries[:limit]
	}

	return entries
}
