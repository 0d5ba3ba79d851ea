package models

// SearchResult represents one entry returned by the external metadata
// source, used both for search and for backfilling decoded items.
type SearchResult struct {
	TMDBID    int64
	Category  Category
	Title     string
	Year      int
	PosterURL string
	Overview  string
}

// NewItemFromSearchResult builds a freshly-tracked item from a result
func NewItemFromSearchResult(r *SearchResult) *Item {
	return &Item{
		ID:        ItemID(r.Category, r.TMDBID),
		TMDBID:    r.TMDBID,
		Category:  r.Category,
		Title:     r.Title,
		Year:      r.Year,
		PosterURL: r.PosterURL,
		Overview:  r.Overview,
	}
}
