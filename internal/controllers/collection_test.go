package controllers

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/gistarr/internal/codec"
	"github.com/amaumene/gistarr/internal/models"
)

func testDB(t *testing.T) *models.Database {
	t.Helper()
	db, err := models.NewDatabase(filepath.Join(t.TempDir(), "gistarr.db"))
	if err != nil {
		t.Fatalf("NewDatabase: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func TestAddFromSearchThenEncode(t *testing.T) {
	db := testDB(t)
	ctrl := NewCollectionController(db, testLogger())

	item, err := ctrl.AddFromSearch(&models.SearchResult{
		TMDBID:   603,
		Category: models.CategoryMovie,
		Title:    "The Matrix",
		Year:     1999,
	})
	if err != nil {
		t.Fatalf("AddFromSearch: %v", err)
	}

	if item.Status() != models.StatusPending {
		t.Errorf("freshly-added item status = %q, want pending", item.Status())
	}

	items, _ := ctrl.List()
	text := codec.Encode(items)
	lines := strings.Split(text, "\n")
	if len(lines) != 2 {
		t.Fatalf("encoded %d lines, want header + 1 row", len(lines))
	}
	fields := strings.Split(lines[1], "\t")
	if fields[len(fields)-1] != "" {
		t.Errorf("pending item has non-empty completion field: %q", fields[len(fields)-1])
	}
}

func TestAddFromSearchRejectsDuplicates(t *testing.T) {
	db := testDB(t)
	ctrl := NewCollectionController(db, testLogger())

	result := &models.SearchResult{TMDBID: 603, Category: models.CategoryMovie, Title: "The Matrix"}
	if _, err := ctrl.AddFromSearch(result); err != nil {
		t.Fatalf("first add: %v", err)
	}

	existing, err := ctrl.AddFromSearch(result)
	if !errors.Is(err, ErrAlreadyTracked) {
		t.Fatalf("second add err = %v, want ErrAlreadyTracked", err)
	}
	if existing == nil || existing.ID != "movie:603" {
		t.Errorf("duplicate add did not return the existing item")
	}

	items, _ := ctrl.List()
	if len(items) != 1 {
		t.Errorf("collection holds %d items, want 1", len(items))
	}
}

func TestSetCompletedSetsBothTimestamps(t *testing.T) {
	db := testDB(t)
	ctrl := NewCollectionController(db, testLogger())

	added, err := ctrl.AddFromSearch(&models.SearchResult{
		TMDBID:   1399,
		Category: models.CategoryTV,
		Title:    "Game of Thrones",
	})
	if err != nil {
		t.Fatalf("AddFromSearch: %v", err)
	}

	marked, err := ctrl.SetEpisode(added.ID, 2, 5)
	if err != nil {
		t.Fatalf("SetEpisode: %v", err)
	}
	if marked.Status() != models.StatusWatching {
		t.Errorf("status = %q, want watching", marked.Status())
	}

	done, err := ctrl.SetCompleted(added.ID)
	if err != nil {
		t.Fatalf("SetCompleted: %v", err)
	}
	if done.CompletedAt == nil || done.AddedAt.IsZero() {
		t.Error("completion must leave both timestamps set")
	}
	if done.AddedAt.After(*done.CompletedAt) {
		t.Error("timestamp ordering violated after completion")
	}
	if done.LastEpisode == nil || done.LastEpisode.Season != 2 || done.LastEpisode.Episode != 5 {
		t.Errorf("episode marker disturbed by completion: %+v", done.LastEpisode)
	}
}

func TestManualEntryValidation(t *testing.T) {
	db := testDB(t)
	ctrl := NewCollectionController(db, testLogger())

	if _, err := ctrl.AddManual(models.CategoryMovie, "   ", 0, ""); !errors.Is(err, ErrValidation) {
		t.Errorf("empty title err = %v, want ErrValidation", err)
	}

	items, _ := ctrl.List()
	if len(items) != 0 {
		t.Error("rejected mutation left partial state")
	}

	item, err := ctrl.AddManual(models.CategoryMovie, "Holiday Footage", 2023, "")
	if err != nil {
		t.Fatalf("AddManual: %v", err)
	}
	if item.Syncable() {
		t.Error("manual entry must not be sync-eligible")
	}
}

func TestRatingBounds(t *testing.T) {
	db := testDB(t)
	ctrl := NewCollectionController(db, testLogger())

	item, _ := ctrl.AddFromSearch(&models.SearchResult{TMDBID: 603, Category: models.CategoryMovie, Title: "The Matrix"})

	for _, bad := range []int{0, 11, -3} {
		if _, err := ctrl.SetRating(item.ID, bad); !errors.Is(err, ErrValidation) {
			t.Errorf("SetRating(%d) err = %v, want ErrValidation", bad, err)
		}
	}

	rated, err := ctrl.SetRating(item.ID, 10)
	if err != nil {
		t.Fatalf("SetRating: %v", err)
	}
	if rated.Rating != 10 {
		t.Errorf("Rating = %d", rated.Rating)
	}

	cleared, _ := ctrl.ClearRating(item.ID)
	if cleared.Rating != 0 {
		t.Errorf("Rating after clear = %d", cleared.Rating)
	}
}

func TestAddTagRejectsReservedTokens(t *testing.T) {
	db := testDB(t)
	ctrl := NewCollectionController(db, testLogger())

	item, _ := ctrl.AddFromSearch(&models.SearchResult{TMDBID: 603, Category: models.CategoryMovie, Title: "The Matrix"})

	for _, reserved := range []string{"rating:3", "S1E2"} {
		if _, err := ctrl.AddTag(item.ID, reserved); !errors.Is(err, ErrValidation) {
			t.Errorf("AddTag(%q) err = %v, want ErrValidation", reserved, err)
		}
	}

	tagged, err := ctrl.AddTag(item.ID, "sci-fi")
	if err != nil {
		t.Fatalf("AddTag: %v", err)
	}
	if len(tagged.Tags) != 1 || tagged.Tags[0] != "sci-fi" {
		t.Errorf("Tags = %v", tagged.Tags)
	}
}

func TestEpisodeMarkerOnMovieRejected(t *testing.T) {
	db := testDB(t)
	ctrl := NewCollectionController(db, testLogger())

	item, _ := ctrl.AddFromSearch(&models.SearchResult{TMDBID: 603, Category: models.CategoryMovie, Title: "The Matrix"})
	if _, err := ctrl.SetEpisode(item.ID, 1, 1); !errors.Is(err, ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
}

func TestDeleteRemovesItem(t *testing.T) {
	db := testDB(t)
	ctrl := NewCollectionController(db, testLogger())

	item, _ := ctrl.AddFromSearch(&models.SearchResult{TMDBID: 603, Category: models.CategoryMovie, Title: "The Matrix"})
	if err := ctrl.Delete(item.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	items, _ := ctrl.List()
	if len(items) != 0 {
		t.Errorf("collection holds %d items after delete", len(items))
	}
}
