package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EpisodeMark records the last watched episode of a show
type EpisodeMark struct {
	Season  int
	Episode int
}

// Item represents one tracked entry in the user's collection
type Item struct {
	ID     string `boltholdKey:"ID"`
	TMDBID int64  `boltholdIndex:"TMDBID"` // 0 for manual entries

	Category Category
	Title    string
	Year     int

	PosterURL    string
	CachedPoster string // inline copy for offline display, never synced
	Overview     string

	// User annotations
	Tags        []string
	Rating      int // 1-10, 0 when unset
	LastEpisode *EpisodeMark // nil for movies or unstarted shows

	// Timestamps
	AddedAt     time.Time
	CompletedAt *time.Time
}

// ItemID derives the stable identifier for a synced item
func ItemID(category Category, tmdbID int64) string {
	return fmt.Sprintf("%s:%d", category, tmdbID)
}

// ManualItemID generates an identifier for a manually-entered item
func ManualItemID() string {
	return "manual:" + uuid.NewString()
}

// Syncable reports whether the item can appear in the remote document.
// Manual entries have no TMDB ID and exist only locally.
func (i *Item) Syncable() bool {
	return i.TMDBID > 0
}

// Status derives the lifecycle stage from the item's timestamps
func (i *Item) Status() Status {
	switch {
	case i.CompletedAt != nil:
		return StatusCompleted
	case i.Category == CategoryTV && i.LastEpisode != nil:
		return StatusWatching
	case !i.AddedAt.IsZero():
		return StatusPending
	default:
		return StatusNone
	}
}

// LastActivity returns the most recent of the item's set timestamps.
// Merge conflicts between two copies of the same item are resolved by
// comparing this value.
func (i *Item) LastActivity() time.Time {
	if i.CompletedAt != nil && i.CompletedAt.After(i.AddedAt) {
		return *i.CompletedAt
	}
	return i.AddedAt
}

// MarkCompleted sets the completion timestamp and repairs ordering
func (i *Item) MarkCompleted(at time.Time) {
	i.CompletedAt = &at
	i.RepairTimestamps()
}

// ClearCompleted reverts a completed item to its prior stage
func (i *Item) ClearCompleted() {
	i.CompletedAt = nil
}

// RepairTimestamps enforces AddedAt <= CompletedAt. A violated ordering
// is repaired by copying the later-stage timestamp backward, never by
// rejecting the mutation.
func (i *Item) RepairTimestamps() {
	if i.CompletedAt == nil {
		return
	}
	if i.AddedAt.IsZero() || i.AddedAt.After(*i.CompletedAt) {
		i.AddedAt = *i.CompletedAt
	}
}

// HasTag reports whether the item carries the given tag
func (i *Item) HasTag(tag string) bool {
	for _, t := range i.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// AddTag appends a tag if not already present
func (i *Item) AddTag(tag string) {
	if tag == "" || i.HasTag(tag) {
		return
	}
	i.Tags = append(i.Tags, tag)
}

// RemoveTag deletes a tag if present
func (i *Item) RemoveTag(tag string) {
	for idx, t := range i.Tags {
		if t == tag {
			i.Tags = append(i.Tags[:idx], i.Tags[idx+1:]...)
			return
		}
	}
}
