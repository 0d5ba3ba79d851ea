package models

import (
	"testing"
	"time"
)

func TestStatusDerivation(t *testing.T) {
	added := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	completed := added.Add(48 * time.Hour)

	tests := []struct {
		name string
		item Item
		want Status
	}{
		{
			name: "untracked item has no status",
			item: Item{Category: CategoryMovie},
			want: StatusNone,
		},
		{
			name: "added movie is pending",
			item: Item{Category: CategoryMovie, AddedAt: added},
			want: StatusPending,
		},
		{
			name: "added show is pending",
			item: Item{Category: CategoryTV, AddedAt: added},
			want: StatusPending,
		},
		{
			name: "show with episode marker is watching",
			item: Item{Category: CategoryTV, AddedAt: added, LastEpisode: &EpisodeMark{Season: 1, Episode: 3}},
			want: StatusWatching,
		},
		{
			name: "completion wins over episode marker",
			item: Item{Category: CategoryTV, AddedAt: added, LastEpisode: &EpisodeMark{Season: 1, Episode: 3}, CompletedAt: &completed},
			want: StatusCompleted,
		},
		{
			name: "completed movie is completed",
			item: Item{Category: CategoryMovie, AddedAt: added, CompletedAt: &completed},
			want: StatusCompleted,
		},
		{
			name: "episode marker on a movie does not make it watching",
			item: Item{Category: CategoryMovie, AddedAt: added, LastEpisode: &EpisodeMark{Season: 1, Episode: 1}},
			want: StatusPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.Status(); got != tt.want {
				t.Errorf("Status() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMarkCompletedRepairsOrdering(t *testing.T) {
	added := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("completion before addition copies backward", func(t *testing.T) {
		item := Item{Category: CategoryMovie, AddedAt: added}
		earlier := added.Add(-time.Hour)
		item.MarkCompleted(earlier)

		if !item.AddedAt.Equal(earlier) {
			t.Errorf("AddedAt = %v, want repaired to %v", item.AddedAt, earlier)
		}
	})

	t.Run("completion with no addition sets both", func(t *testing.T) {
		item := Item{Category: CategoryTV, LastEpisode: &EpisodeMark{Season: 2, Episode: 5}}
		item.MarkCompleted(added)

		if item.AddedAt.IsZero() {
			t.Error("AddedAt still zero after completion")
		}
		if item.CompletedAt == nil || !item.CompletedAt.Equal(added) {
			t.Errorf("CompletedAt = %v, want %v", item.CompletedAt, added)
		}
		if item.LastEpisode == nil || item.LastEpisode.Season != 2 {
			t.Error("episode marker was disturbed by completion")
		}
	})

	t.Run("ordering already valid is untouched", func(t *testing.T) {
		item := Item{Category: CategoryMovie, AddedAt: added}
		later := added.Add(time.Hour)
		item.MarkCompleted(later)

		if !item.AddedAt.Equal(added) {
			t.Errorf("AddedAt = %v, want unchanged %v", item.AddedAt, added)
		}
	})
}

func TestLastActivity(t *testing.T) {
	added := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	completed := added.Add(24 * time.Hour)

	item := Item{AddedAt: added}
	if got := item.LastActivity(); !got.Equal(added) {
		t.Errorf("LastActivity() = %v, want %v", got, added)
	}

	item.CompletedAt = &completed
	if got := item.LastActivity(); !got.Equal(completed) {
		t.Errorf("LastActivity() = %v, want %v", got, completed)
	}
}

func TestItemIDs(t *testing.T) {
	if got := ItemID(CategoryMovie, 603); got != "movie:603" {
		t.Errorf("ItemID = %q", got)
	}
	if got := ItemID(CategoryTV, 1399); got != "tv:1399" {
		t.Errorf("ItemID = %q", got)
	}

	a, b := ManualItemID(), ManualItemID()
	if a == b {
		t.Error("manual item ids must be unique")
	}
}

func TestTagHelpers(t *testing.T) {
	item := Item{}
	item.AddTag("sci-fi")
	item.AddTag("sci-fi")
	item.AddTag("")
	if len(item.Tags) != 1 {
		t.Fatalf("Tags = %v, want single sci-fi", item.Tags)
	}

	item.AddTag("rewatch")
	item.RemoveTag("sci-fi")
	if len(item.Tags) != 1 || item.Tags[0] != "rewatch" {
		t.Errorf("Tags = %v, want [rewatch]", item.Tags)
	}
}
