package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/dailybrief/dailybrief/pkg/domain"
)

// HTTPFetcher fetches RSS/Atom feeds via HTTP
type HTTPFetcher struct {
	parser  *gofeed.Parser
	timeout time.Duration
}

// NewHTTPFetcher creates a new feed fetcher
func NewHTTPFetcher(timeout time.Duration, userAgent string) *HTTPFetcher {
	parser := gofeed.NewParser()
	if userAgent != "" {
		parser.UserAgent = userAgent
	}
	return &HTTPFetcher{
		parser:  parser,
		timeout: timeout,
	}
}

// Fetch retrieves and parses a feed, returning entries attributed to the source.
// Entries without a parseable publication time keep a zero Published and are
// filtered out by the reader.
func (f *HTTPFetcher) Fetch(ctx context.Context, src domain.Source) ([]domain.Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	parsed, err := f.parser.ParseURLWithContext(src.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", src.URL, err)
	}

	entries := make([]domain.Entry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		entry := domain.Entry{
			SourceName: src.Name,
			Title:      item.Title,
			Link:       item.Link,
			RawSummary: item.Description,
		}
		if entry.Title == "" {
			entry.Title = "(no title)"
		}

		if item.PublishedParsed != nil {
			entry.Published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			entry.Published = *item.UpdatedParsed
		}

		entries = append(entries, entry)
	}

	return entries, nil
}
