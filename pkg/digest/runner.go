package digest

import (
	"context"
	"fmt"

	"github.com/go-pkgz/lgr"

	"github.com/dailybrief/dailybrief/pkg/domain"
)

// Reader provides fresh candidate entries, newest first
type Reader interface {
	Recent(ctx context.Context) []domain.Entry
}

// TextProvider returns article text for an entry, it never fails
type TextProvider interface {
	Text(ctx context.Context, entry domain.Entry) string
}

// Summarizer runs the two model calls
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
	TranslatePersian(ctx context.Context, summary string) (string, error)
}

// Notifier delivers the final digest message
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// EntryResult is the outcome of processing one entry, success with an item
// or failure with a reason. Dropping failed entries is an explicit filter,
// not silent suppression.
type EntryResult struct {
	Entry domain.Entry
	Item  domain.ProcessedItem
	Err   error
}

// Runner executes one full pipeline run: fetch, extract, summarize,
// translate, format, deliver. Strictly sequential, no state across runs.
type Runner struct {
	reader     Reader
	texts      TextProvider
	summarizer Summarizer
	notifier   Notifier
	maxItems   int
	maxLength  int
}

// NewRunner wires the pipeline components
func NewRunner(reader Reader, texts TextProvider, summarizer Summarizer, notifier Notifier, maxItems, maxLength int) *Runner {
	return &Runner{
		reader:     reader,
		texts:      texts,
		summarizer: summarizer,
		notifier:   notifier,
		maxItems:   maxItems,
		maxLength:  maxLength,
	}
}

// Run performs a single digest run. A run with zero processed items logs a
// warning and completes without a delivery attempt. A delivery failure is
// fatal for the run.
func (r *Runner) Run(ctx context.Context) error {
	lgr.Printf("[INFO] fetching recent entries")
	entries := r.reader.Recent(ctx)
	lgr.Printf("[INFO] %d candidate entries", len(entries))

	results := r.process(ctx, entries)

	items := make([]domain.ProcessedItem, 0, r.maxItems)
	for _, res := range results {
		if res.Err != nil {
			lgr.Printf("[ERROR] model calls failed for %q: %v", res.Entry.Title, res.Err)
			continue
		}
		items = append(items, res.Item)
	}

	if len(items) == 0 {
		lgr.Printf("[WARN] no items processed, skipping delivery")
		return nil
	}

	msg := Build(items, r.maxLength)
	if err := r.notifier.Send(ctx, msg); err != nil {
		return fmt.Errorf("deliver digest: %w", err)
	}

	lgr.Printf("[INFO] digest sent, %d items, length %d", len(items), len(msg))
	return nil
}

// process runs extraction and both model calls per entry, stopping once
// enough entries succeeded. Per-entry failures drop only that entry.
func (r *Runner) process(ctx context.Context, entries []domain.Entry) []EntryResult {
	var results []EntryResult
	processed := 0

	for _, entry := range entries {
		if processed >= r.maxItems {
			break
		}
		if err := ctx.Err(); err != nil {
			lgr.Printf("[WARN] run interrupted: %v", err)
			break
		}

		lgr.Printf("[INFO] processing: %s", entry.Title)
		text := r.texts.Text(ctx, entry)

		res := EntryResult{Entry: entry}
		en, err := r.summarizer.Summarize(ctx, text)
		if err != nil {
			res.Err = err
			results = append(results, res)
			continue
		}

		fa, err := r.summarizer.TranslatePersian(ctx, en)
		if err != nil {
			res.Err = err
			results = append(results, res)
			continue
		}

		res.Item = domain.ProcessedItem{Title: entry.Title, EnglishSummary: en, PersianSummary: fa}
		results = append(results, res)
		processed++
	}

	return results
}
