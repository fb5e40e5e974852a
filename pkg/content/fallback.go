package content

import (
	"context"
	"html"
	"strings"

	"github.com/go-pkgz/lgr"
	"github.com/microcosm-cc/bluemonday"

	"github.com/dailybrief/dailybrief/pkg/domain"
)

// Sanitizer turns raw feed summary HTML into bounded plain text.
// Strips all markup, decodes entities, collapses whitespace and truncates.
type Sanitizer struct {
	policy *bluemonday.Policy
	limit  int
}

// NewSanitizer creates a sanitizer truncating output to limit runes
func NewSanitizer(limit int) *Sanitizer {
	return &Sanitizer{
		policy: bluemonday.StrictPolicy(),
		limit:  limit,
	}
}

// Clean returns plain text for the given HTML fragment
func (s *Sanitizer) Clean(rawHTML string) string {
	stripped := s.policy.Sanitize(rawHTML)
	decoded := html.UnescapeString(stripped)
	collapsed := strings.Join(strings.Fields(decoded), " ")

	runes := []rune(collapsed)
	if len(runes) <= s.limit {
		return collapsed
	}
	return string(runes[:s.limit-1]) + "…"
}

// BestEffort tries full-page extraction first and falls back to the
// sanitized feed summary. It never fails: every entry gets some text.
type BestEffort struct {
	extractor Extractor
	sanitizer *Sanitizer
}

// NewBestEffort creates the extraction pipeline used for each entry
func NewBestEffort(extractor Extractor, sanitizer *Sanitizer) *BestEffort {
	return &BestEffort{extractor: extractor, sanitizer: sanitizer}
}

// Text returns the article text for an entry, preferring the full page
func (b *BestEffort) Text(ctx context.Context, entry domain.Entry) string {
	if b.extractor != nil && entry.Link != "" {
		text, err := b.extractor.Extract(ctx, entry.Link)
		if err == nil && text != "" {
			return text
		}
		if err != nil {
			lgr.Printf("[WARN] full-text extraction failed for %s: %v", entry.Link, err)
		}
	}
	return b.sanitizer.Clean(entry.RawSummary)
}
