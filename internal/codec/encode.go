package codec

import (
	"strconv"
	"strings"
	"time"

	"github.com/amaumene/gistarr/internal/models"
)

// Column names in canonical order. Decoding is tolerant of reordering,
// encoding always emits this order.
var canonicalColumns = []string{
	"tmdb_id",
	"category",
	"title",
	"year",
	"poster_url",
	"overview",
	"tags",
	"added_at",
	"completed_at",
}

// Encode serializes the collection into the tab-separated document
// form. Items without a TMDB id exist only locally and are excluded.
// The cached poster never round-trips.
func Encode(items []*models.Item) string {
	var b strings.Builder
	b.WriteString(strings.Join(canonicalColumns, "\t"))

	for _, item := range items {
		if !item.Syncable() {
			continue
		}
		b.WriteString("\n")
		b.WriteString(encodeRow(item))
	}

	return b.String()
}

func encodeRow(item *models.Item) string {
	year := ""
	if item.Year > 0 {
		year = strconv.Itoa(item.Year)
	}

	addedAt := ""
	if !item.AddedAt.IsZero() {
		addedAt = item.AddedAt.UTC().Format(time.RFC3339)
	}

	completedAt := ""
	if item.CompletedAt != nil {
		completedAt = item.CompletedAt.UTC().Format(time.RFC3339)
	}

	fields := []string{
		strconv.FormatInt(item.TMDBID, 10),
		string(item.Category),
		Sanitize(item.Title),
		year,
		Sanitize(item.PosterURL),
		Sanitize(item.Overview),
		encodeTags(item),
		addedAt,
		completedAt,
	}

	return strings.Join(fields, "\t")
}

// encodeTags re-injects the typed rating and episode-marker fields into
// the generic tag list as their token forms. Stored tags that read as
// tokens are dropped: the typed fields are the single source for both,
// and emitting a look-alike would duplicate the token in the column.
func encodeTags(item *models.Item) string {
	tags := make([]string, 0, len(item.Tags)+2)
	for _, tag := range item.Tags {
		if tag = SanitizeTag(tag); tag != "" && !ReservedTag(tag) {
			tags = append(tags, tag)
		}
	}

	if item.Rating > 0 {
		tags = append(tags, ratingToken(item.Rating))
	}
	if item.Category == models.CategoryTV && item.LastEpisode != nil {
		tags = append(tags, episodeToken(item.LastEpisode.Season, item.LastEpisode.Episode))
	}

	return strings.Join(tags, ",")
}
