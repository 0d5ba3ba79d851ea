package codec

import (
	"context"

	"github.com/amaumene/gistarr/internal/models"
	"github.com/sirupsen/logrus"
)

// MetadataSource provides lookups against the external metadata API
// for filling missing denormalized fields.
type MetadataSource interface {
	FetchByID(ctx context.Context, category models.Category, tmdbID int64) (*models.SearchResult, error)
}

// Backfill fills the missing descriptive fields of decoded items from
// the metadata source. Values already present always take precedence
// over fetched ones. A failed lookup leaves the item with its decoded
// defaults; it never blocks the rest of the batch.
func Backfill(ctx context.Context, source MetadataSource, items []*models.Item, logger *logrus.Logger) {
	for _, item := range items {
		meta, err := source.FetchByID(ctx, item.Category, item.TMDBID)
		if err != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"item_id": item.ID,
				"title":   item.Title,
			}).Warn("Failed to backfill item metadata")
			continue
		}

		if item.Title == "" {
			item.Title = Sanitize(meta.Title)
		}
		if item.Overview == "" {
			item.Overview = Sanitize(meta.Overview)
		}
		if item.PosterURL == "" {
			item.PosterURL = Sanitize(meta.PosterURL)
		}
		if item.Year == 0 {
			item.Year = meta.Year
		}
	}
}
