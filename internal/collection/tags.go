// Package collection provides pure query and derivation helpers over
// the tracked item list. Nothing here performs I/O.
package collection

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/amaumene/gistarr/internal/models"
)

// newCollator builds the locale-aware, case-insensitive ordering used
// for titles and tags. Collators carry mutable sort buffers and are
// not safe to share across goroutines, so every caller gets its own.
func newCollator() *collate.Collator {
	return collate.New(language.English, collate.IgnoreCase)
}

// UniqueTags collects every user tag across the items, deduplicated
// and sorted. Ratings and episode markers are typed fields rather than
// tags, so they never appear here.
func UniqueTags(items []*models.Item) []string {
	seen := make(map[string]bool)
	var tags []string
	for _, item := range items {
		for _, tag := range item.Tags {
			if tag != "" && !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}

	newCollator().SortStrings(tags)
	return tags
}
