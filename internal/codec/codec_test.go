package codec

import (
	"strings"
	"testing"
	"time"

	"github.com/amaumene/gistarr/internal/models"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("bad test timestamp %q: %v", value, err)
	}
	return parsed
}

func TestEncodeSingleRow(t *testing.T) {
	item := &models.Item{
		ID:       models.ItemID(models.CategoryMovie, 603),
		TMDBID:   603,
		Category: models.CategoryMovie,
		Title:    "The Matrix",
		Year:     1999,
		AddedAt:  mustTime(t, "2024-03-01T12:00:00Z"),
	}

	text := Encode([]*models.Item{item})
	lines := strings.Split(text, "\n")
	if len(lines) != 2 {
		t.Fatalf("encoded %d lines, want header + 1 row", len(lines))
	}
	if lines[0] != strings.Join(canonicalColumns, "\t") {
		t.Errorf("header = %q", lines[0])
	}

	fields := strings.Split(lines[1], "\t")
	if len(fields) != len(canonicalColumns) {
		t.Fatalf("row has %d fields, want %d", len(fields), len(canonicalColumns))
	}
	if fields[0] != "603" || fields[2] != "The Matrix" || fields[3] != "1999" {
		t.Errorf("row = %q", lines[1])
	}
	// A pending item has an empty completion timestamp field.
	if fields[len(fields)-1] != "" {
		t.Errorf("completed_at = %q, want empty", fields[len(fields)-1])
	}
}

func TestEncodeSkipsLocalOnlyItems(t *testing.T) {
	items := []*models.Item{
		{ID: models.ManualItemID(), Category: models.CategoryMovie, Title: "Home Movie", AddedAt: time.Now()},
		{ID: "tv:1399", TMDBID: 1399, Category: models.CategoryTV, Title: "Game of Thrones", AddedAt: time.Now(), CachedPoster: "data:image/png;base64,xxxx"},
	}

	text := Encode(items)
	if strings.Contains(text, "Home Movie") {
		t.Error("manual entry leaked into the synced document")
	}
	if strings.Contains(text, "base64") {
		t.Error("cached poster leaked into the synced document")
	}
}

func TestRoundTrip(t *testing.T) {
	completed := mustTime(t, "2024-04-02T08:30:00Z")
	original := []*models.Item{
		{
			ID:        "movie:603",
			TMDBID:    603,
			Category:  models.CategoryMovie,
			Title:     "The Matrix",
			Year:      1999,
			PosterURL: "https://image.tmdb.org/t/p/w500/matrix.jpg",
			Overview:  "A hacker learns the truth.",
			Tags:      []string{"sci-fi", "rewatch"},
			Rating:    9,
			AddedAt:   mustTime(t, "2024-03-01T12:00:00Z"),
		},
		{
			ID:          "tv:1399",
			TMDBID:      1399,
			Category:    models.CategoryTV,
			Title:       "Game of Thrones",
			Year:        2011,
			PosterURL:   "https://image.tmdb.org/t/p/w500/got.jpg",
			Overview:    "Noble families vie for the throne.",
			Tags:        []string{"fantasy"},
			Rating:      7,
			LastEpisode: &models.EpisodeMark{Season: 2, Episode: 5},
			AddedAt:     mustTime(t, "2024-03-10T09:00:00Z"),
			CompletedAt: &completed,
		},
	}

	result := Decode(Encode(original))
	if result.NeedsRewrite() {
		t.Errorf("clean round trip flagged for rewrite: %v", result.Reasons)
	}
	if len(result.Items) != len(original) {
		t.Fatalf("decoded %d items, want %d", len(result.Items), len(original))
	}
	if len(result.NeedsBackfill) != 0 {
		t.Errorf("fully-populated items flagged for backfill")
	}

	for i, got := range result.Items {
		want := original[i]
		if got.ID != want.ID || got.TMDBID != want.TMDBID || got.Category != want.Category {
			t.Errorf("item %d identity = %s/%d/%s", i, got.ID, got.TMDBID, got.Category)
		}
		if got.Title != want.Title || got.Year != want.Year || got.Overview != want.Overview || got.PosterURL != want.PosterURL {
			t.Errorf("item %d metadata mismatch", i)
		}
		if got.Rating != want.Rating {
			t.Errorf("item %d rating = %d, want %d", i, got.Rating, want.Rating)
		}
		if len(got.Tags) != len(want.Tags) {
			t.Errorf("item %d tags = %v, want %v", i, got.Tags, want.Tags)
		}
		if !got.AddedAt.Equal(want.AddedAt) {
			t.Errorf("item %d AddedAt = %v, want %v", i, got.AddedAt, want.AddedAt)
		}
	}

	show := result.Items[1]
	if show.LastEpisode == nil || show.LastEpisode.Season != 2 || show.LastEpisode.Episode != 5 {
		t.Errorf("episode marker did not round trip: %+v", show.LastEpisode)
	}
	if show.CompletedAt == nil || !show.CompletedAt.Equal(completed) {
		t.Errorf("completion timestamp did not round trip")
	}
}

func TestEncodeDropsTokenShapedTags(t *testing.T) {
	item := &models.Item{
		ID:       models.ItemID(models.CategoryMovie, 603),
		TMDBID:   603,
		Category: models.CategoryMovie,
		Title:    "The Matrix",
		Rating:   9,
		Tags:     []string{"rating:3", "S1E2", "sci-fi"},
		AddedAt:  mustTime(t, "2024-03-01T12:00:00Z"),
	}

	text := Encode([]*models.Item{item})
	row := strings.Split(text, "\n")[1]
	tags := strings.Split(row, "\t")[6]

	if tags != "sci-fi,rating:9" {
		t.Errorf("tags column = %q, want %q", tags, "sci-fi,rating:9")
	}
	if strings.Count(tags, "rating:") != 1 {
		t.Errorf("tags column holds %d rating tokens, want exactly one", strings.Count(tags, "rating:"))
	}
}

func TestReservedTag(t *testing.T) {
	for _, tag := range []string{"rating:1", "rating:10", "S1E2", "S10E200"} {
		if !ReservedTag(tag) {
			t.Errorf("ReservedTag(%q) = false, want true", tag)
		}
	}
	for _, tag := range []string{"rating:0", "rating:11", "rating:high", "S1", "sci-fi", "seasonal"} {
		if ReservedTag(tag) {
			t.Errorf("ReservedTag(%q) = true, want false", tag)
		}
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{
		"plain title",
		"tab\there",
		"line\nbreak",
		"quoted \"title\"",
		"mixed\t\"all\"\r\nof it",
		"",
	}

	for _, in := range inputs {
		once := Sanitize(in)
		if twice := Sanitize(once); twice != once {
			t.Errorf("Sanitize not idempotent for %q: %q != %q", in, once, twice)
		}
		if strings.ContainsAny(once, "\t\n\r\"") {
			t.Errorf("Sanitize(%q) = %q still contains forbidden characters", in, once)
		}
	}
}

func TestDecodeToleratesColumnReorder(t *testing.T) {
	text := "title\ttmdb_id\tcategory\tyear\tposter_url\toverview\ttags\tadded_at\tcompleted_at\n" +
		"The Matrix\t603\tmovie\t1999\tp.jpg\tdesc\t\t2024-03-01T12:00:00Z\t"

	result := Decode(text)
	if len(result.Items) != 1 {
		t.Fatalf("decoded %d items, want 1", len(result.Items))
	}
	if result.Items[0].Title != "The Matrix" || result.Items[0].TMDBID != 603 {
		t.Errorf("reordered columns misread: %+v", result.Items[0])
	}
	if !result.Reasons[ReasonColumnOrder] {
		t.Error("column reorder not flagged for rewrite")
	}
}

func TestDecodeUnknownSchema(t *testing.T) {
	text := "id\tname\n1\tThe Matrix"

	result := Decode(text)
	if len(result.Items) != 0 {
		t.Errorf("decoded %d items from unrecognized schema, want 0", len(result.Items))
	}
	if !result.NeedsRewrite() {
		t.Error("unrecognized schema not flagged for rewrite")
	}
	if !result.Reasons[ReasonUnknownSchema] {
		t.Errorf("reasons = %v, want unknown-schema", result.Reasons)
	}
}

func TestDecodeLegacyMigration(t *testing.T) {
	text := "tmdb_id\tcategory\ttitle\tyear\tposter_url\toverview\ttags\n" +
		"603\tmovie\tThe Matrix\t1999\tp.jpg\tdesc\tsci-fi,completed\n" +
		"1399\ttv\tGame of Thrones\t2011\tg.jpg\tdesc\twatching,S1E4,fantasy"

	result := Decode(text)
	if !result.Reasons[ReasonLegacyMigration] {
		t.Fatalf("legacy schema not detected: %v", result.Reasons)
	}
	if len(result.Items) != 2 {
		t.Fatalf("decoded %d items, want 2", len(result.Items))
	}

	movie, show := result.Items[0], result.Items[1]
	if movie.Status() != models.StatusCompleted {
		t.Errorf("legacy completed tag not migrated, status = %q", movie.Status())
	}
	if movie.HasTag(legacyTagCompleted) {
		t.Error("legacy status tag left in tag set")
	}
	if movie.Tags[0] != "sci-fi" || len(movie.Tags) != 1 {
		t.Errorf("movie tags = %v, want [sci-fi]", movie.Tags)
	}

	if show.Status() != models.StatusWatching {
		t.Errorf("show status = %q, want watching", show.Status())
	}
	if show.HasTag(legacyTagWatching) {
		t.Error("legacy watching tag left in tag set")
	}
	if show.LastEpisode == nil || show.LastEpisode.Season != 1 || show.LastEpisode.Episode != 4 {
		t.Errorf("episode marker = %+v", show.LastEpisode)
	}
}

func TestDecodeSkipsMalformedRows(t *testing.T) {
	text := strings.Join(canonicalColumns, "\t") + "\n" +
		"not-a-number\tmovie\tBroken\t\t\t\t\t\t\n" +
		"603\tmovie\tThe Matrix\t1999\tp.jpg\tdesc\t\t2024-03-01T12:00:00Z\t\n" +
		"garbage line without tabs"

	result := Decode(text)
	if len(result.Items) != 1 {
		t.Fatalf("decoded %d items, want 1 (bad rows skipped)", len(result.Items))
	}
	if result.Items[0].TMDBID != 603 {
		t.Errorf("surviving item = %+v", result.Items[0])
	}
}

func TestDecodeDefaultsMissingAddedAt(t *testing.T) {
	text := strings.Join(canonicalColumns, "\t") + "\n" +
		"603\tmovie\tThe Matrix\t1999\tp.jpg\tdesc\t\t\t"

	before := time.Now().Add(-time.Second)
	result := Decode(text)
	if len(result.Items) != 1 {
		t.Fatalf("decoded %d items, want 1", len(result.Items))
	}
	if result.Items[0].AddedAt.Before(before) {
		t.Errorf("AddedAt = %v, want defaulted to now", result.Items[0].AddedAt)
	}
}

func TestDecodeRepairsTimestampOrdering(t *testing.T) {
	text := strings.Join(canonicalColumns, "\t") + "\n" +
		"603\tmovie\tThe Matrix\t1999\tp.jpg\tdesc\t\t2024-05-01T12:00:00Z\t2024-04-01T12:00:00Z"

	result := Decode(text)
	item := result.Items[0]
	if item.CompletedAt == nil {
		t.Fatal("completion timestamp lost")
	}
	if item.AddedAt.After(*item.CompletedAt) {
		t.Errorf("ordering not repaired: added %v > completed %v", item.AddedAt, item.CompletedAt)
	}
}

func TestDecodeTracksSanitization(t *testing.T) {
	text := strings.Join(canonicalColumns, "\t") + "\n" +
		"603\tmovie\tThe \"Matrix\"\t1999\tp.jpg\tdesc\t\t2024-03-01T12:00:00Z\t"

	result := Decode(text)
	if !result.Reasons[ReasonSanitized] {
		t.Error("dirty field not flagged for rewrite")
	}
	if result.Items[0].Title != "The 'Matrix'" {
		t.Errorf("Title = %q", result.Items[0].Title)
	}
}

func TestDecodeFlagsBackfill(t *testing.T) {
	text := strings.Join(canonicalColumns, "\t") + "\n" +
		"603\tmovie\t\t\t\t\t\t2024-03-01T12:00:00Z\t"

	result := Decode(text)
	if len(result.NeedsBackfill) != 1 {
		t.Fatalf("NeedsBackfill = %d items, want 1", len(result.NeedsBackfill))
	}
	if result.NeedsBackfill[0].TMDBID != 603 {
		t.Errorf("wrong item flagged: %+v", result.NeedsBackfill[0])
	}
}
