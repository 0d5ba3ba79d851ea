package collection

import (
	"strings"

	"github.com/amaumene/gistarr/internal/models"
)

// Filter describes the active selections. Category and status are
// mutually-exclusive groups; tags are conjunctive; the text query is a
// case-insensitive substring match.
type Filter struct {
	Categories []models.Category
	Statuses   []models.Status
	Tags       []string
	Query      string
}

// Apply returns the items satisfying every active group of the filter
func (f Filter) Apply(items []*models.Item) []*models.Item {
	query := strings.ToLower(strings.TrimSpace(f.Query))

	var matched []*models.Item
	for _, item := range items {
		if !f.matchCategory(item) || !f.matchStatus(item) || !f.matchTags(item) {
			continue
		}
		if query != "" && !matchQuery(item, query) {
			continue
		}
		matched = append(matched, item)
	}
	return matched
}

func (f Filter) matchCategory(item *models.Item) bool {
	if len(f.Categories) == 0 {
		return true
	}
	for _, c := range f.Categories {
		if item.Category == c {
			return true
		}
	}
	return false
}

func (f Filter) matchStatus(item *models.Item) bool {
	if len(f.Statuses) == 0 {
		return true
	}
	status := item.Status()
	for _, s := range f.Statuses {
		if status == s {
			return true
		}
	}
	return false
}

// matchTags requires every selected tag to be present on the item
func (f Filter) matchTags(item *models.Item) bool {
	for _, tag := range f.Tags {
		if !item.HasTag(tag) {
			return false
		}
	}
	return true
}

func matchQuery(item *models.Item, query string) bool {
	return strings.Contains(strings.ToLower(item.Title), query) ||
		strings.Contains(strings.ToLower(item.Overview), query)
}
