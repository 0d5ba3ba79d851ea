package collection

import (
	"sort"

	"github.com/amaumene/gistarr/internal/models"
)

// SortField selects the key for ordering the collection
type SortField string

const (
	SortByAdded  SortField = "added"
	SortByTitle  SortField = "title"
	SortByYear   SortField = "year"
	SortByRating SortField = "rating"
)

// Order selects the direction of a sort
type Order string

const (
	Ascending  Order = "asc"
	Descending Order = "desc"
)

// Sort orders the items by the given field. The sort is stable: ties
// keep their original relative order. Absent fields sort as zero. The
// input slice is not modified.
func Sort(items []*models.Item, field SortField, order Order) []*models.Item {
	sorted := make([]*models.Item, len(items))
	copy(sorted, items)

	less := lessFunc(field)
	sort.SliceStable(sorted, func(i, j int) bool {
		if order == Descending {
			i, j = j, i
		}
		return less(sorted[i], sorted[j])
	})

	return sorted
}

func lessFunc(field SortField) func(a, b *models.Item) bool {
	switch field {
	case SortByTitle:
		collator := newCollator()
		return func(a, b *models.Item) bool {
			return collator.CompareString(a.Title, b.Title) < 0
		}
	case SortByYear:
		return func(a, b *models.Item) bool {
			return a.Year < b.Year
		}
	case SortByRating:
		return func(a, b *models.Item) bool {
			return a.Rating < b.Rating
		}
	default:
		return func(a, b *models.Item) bool {
			return a.AddedAt.Before(b.AddedAt)
		}
	}
}
