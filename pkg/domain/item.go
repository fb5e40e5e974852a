package domain

import "time"

// Source is a configured feed source, immutable after startup
type Source struct {
	Name string `yaml:"name" json:"name" jsonschema:"required,description=Human-readable source name"`
	URL  string `yaml:"url" json:"url" jsonschema:"required,description=Feed URL (RSS or Atom)"`
}

// Entry is a candidate article pulled from a feed. RawSummary keeps the
// feed-provided HTML snippet used as extraction fallback.
type Entry struct {
	SourceName string
	Title      string
	Link       string
	RawSummary string
	Published  time.Time
}

// ProcessedItem is an entry that passed both model calls
type ProcessedItem struct {
	Title          string
	EnglishSummary string
	PersianSummary string
}
