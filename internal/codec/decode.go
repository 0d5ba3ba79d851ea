package codec

import (
	"strconv"
	"strings"
	"time"

	"github.com/amaumene/gistarr/internal/models"
)

// Legacy status tags from the first document revision, which had no
// timestamp columns and encoded the lifecycle stage directly in the
// tag list.
const (
	legacyTagCompleted = "completed"
	legacyTagWatching  = "watching"
)

// Decode parses a remote document into items. It is tolerant: column
// order is irrelevant, only tmdb_id is required, malformed rows are
// skipped and legacy schema revisions are migrated in place.
func Decode(text string) *Result {
	result := &Result{}

	lines := splitLines(text)
	if len(lines) == 0 {
		return result
	}

	columns := parseHeader(lines[0])
	if _, ok := columns["tmdb_id"]; !ok {
		// Unrecognized schema: nothing can be salvaged, but a decode
		// never fails outright. The write-back replaces the document.
		result.addReason(ReasonUnknownSchema)
		return result
	}

	if lines[0] != strings.Join(canonicalColumns, "\t") {
		result.addReason(ReasonColumnOrder)
	}

	_, legacy := columns["added_at"]
	legacy = !legacy
	if legacy {
		result.addReason(ReasonLegacyMigration)
	}

	seen := make(map[string]bool)
	for _, line := range lines[1:] {
		item := decodeRow(line, columns, legacy, result)
		if item == nil || seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		result.Items = append(result.Items, item)

		if item.Title == "" || item.Overview == "" || item.PosterURL == "" || item.Year == 0 {
			result.NeedsBackfill = append(result.NeedsBackfill, item)
		}
	}

	return result
}

func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// parseHeader maps column names to their index, making column order
// irrelevant on read.
func parseHeader(header string) map[string]int {
	columns := make(map[string]int)
	for idx, name := range strings.Split(header, "\t") {
		columns[strings.TrimSpace(name)] = idx
	}
	return columns
}

// decodeRow parses one data row, nil when the row is unusable
func decodeRow(line string, columns map[string]int, legacy bool, result *Result) *models.Item {
	fields := strings.Split(line, "\t")

	field := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(fields) {
			return ""
		}
		return strings.TrimSpace(fields[idx])
	}

	tmdbID, err := strconv.ParseInt(field("tmdb_id"), 10, 64)
	if err != nil || tmdbID <= 0 {
		return nil
	}

	category := models.Category(field("category"))
	if !models.ValidCategory(category) {
		category = models.CategoryMovie
	}

	item := &models.Item{
		ID:        models.ItemID(category, tmdbID),
		TMDBID:    tmdbID,
		Category:  category,
		Title:     sanitizeTracked(field("title"), result),
		PosterURL: sanitizeTracked(field("poster_url"), result),
		Overview:  sanitizeTracked(field("overview"), result),
	}

	if year, err := strconv.Atoi(field("year")); err == nil && year > 0 {
		item.Year = year
	}

	decodeTags(item, field("tags"), legacy, result)

	if at, err := time.Parse(time.RFC3339, field("added_at")); err == nil {
		item.AddedAt = at
	} else {
		// An otherwise-valid row without an addition timestamp is
		// adopted as of now rather than rejected.
		item.AddedAt = time.Now().UTC()
	}

	if item.CompletedAt == nil {
		if at, err := time.Parse(time.RFC3339, field("completed_at")); err == nil {
			item.CompletedAt = &at
		}
	}

	item.RepairTimestamps()
	return item
}

// decodeTags extracts the rating and episode-marker tokens out of the
// generic tag list into their typed fields, and converts legacy
// status-as-tag encodings into the timestamp representation.
func decodeTags(item *models.Item, raw string, legacy bool, result *Result) {
	for _, tag := range strings.Split(raw, ",") {
		tag = SanitizeTag(tag)
		if tag == "" {
			continue
		}

		if rating := parseRatingToken(tag); rating > 0 {
			item.Rating = rating
			continue
		}

		if season, episode, ok := parseEpisodeToken(tag); ok {
			if item.Category == models.CategoryTV {
				item.LastEpisode = &models.EpisodeMark{Season: season, Episode: episode}
			}
			continue
		}

		if legacy {
			switch tag {
			case legacyTagCompleted:
				now := time.Now().UTC()
				item.CompletedAt = &now
				continue
			case legacyTagWatching:
				// Stripped: the watching stage is derived from the
				// episode marker once migrated.
				continue
			}
		}

		item.AddTag(tag)
	}
}

// sanitizeTracked sanitizes a decoded field and records whether the
// document held unsanitized text.
func sanitizeTracked(s string, result *Result) string {
	clean := Sanitize(s)
	if clean != s {
		result.addReason(ReasonSanitized)
	}
	return clean
}
