package ingest

import "time"

// timestampLayouts covers the formats seen in marketplace exports. Day-first
// layouts come first: Thai exports write 25/12/2024, not 12/25/2024.
var timestampLayouts = []string{
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2/1/2006",
	"2-1-2006 15:04:05",
	"2-1-2006",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	time.RFC3339,
}

// ParseTimestamp parses an export timestamp cell, returning nil when no
// layout matches. Rows with unparsable timestamps are retained and sort as
// the minimum key; they are never rejected.
func ParseTimestamp(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
