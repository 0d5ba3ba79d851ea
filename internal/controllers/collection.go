package controllers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/gistarr/internal/codec"
	"github.com/amaumene/gistarr/internal/models"
)

// Mutation failures surfaced to the caller before any state change.
var (
	ErrValidation     = errors.New("validation failed")
	ErrAlreadyTracked = errors.New("item already tracked")
)

// CollectionController owns all mutations of the tracked collection.
// Every mutation is a synchronous store write; propagating the change
// to the remote document is a separate, explicit call on the
// SyncController at the call site.
type CollectionController struct {
	db     *models.Database
	logger *logrus.Logger
}

// NewCollectionController creates a new collection controller
func NewCollectionController(db *models.Database, logger *logrus.Logger) *CollectionController {
	return &CollectionController{
		db:     db,
		logger: logger,
	}
}

// List returns every tracked item
func (c *CollectionController) List() ([]*models.Item, error) {
	return c.db.GetAllItems()
}

// Get returns one tracked item by id
func (c *CollectionController) Get(id string) (*models.Item, error) {
	return c.db.GetItemByID(id)
}

// AddFromSearch tracks a search result. An item already tracked under
// the same category and TMDB id is not duplicated.
func (c *CollectionController) AddFromSearch(result *models.SearchResult) (*models.Item, error) {
	if result.TMDBID <= 0 || !models.ValidCategory(result.Category) {
		return nil, fmt.Errorf("%w: search result needs a TMDB id and category", ErrValidation)
	}

	if existing, err := c.db.GetItemByExternalID(result.Category, result.TMDBID); err == nil {
		return existing, ErrAlreadyTracked
	}

	item := models.NewItemFromSearchResult(result)
	item.AddedAt = time.Now().UTC()

	if err := c.db.SaveItem(item); err != nil {
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{
		"item_id": item.ID,
		"title":   item.Title,
	}).Info("Tracked new item")
	return item, nil
}

// AddManual tracks a locally-entered item with no external identifier.
// Manual entries never sync; they exist only in the local store.
func (c *CollectionController) AddManual(category models.Category, title string, year int, overview string) (*models.Item, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if !models.ValidCategory(category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, category)
	}

	item := &models.Item{
		ID:       models.ManualItemID(),
		Category: category,
		Title:    title,
		Year:     year,
		Overview: overview,
		AddedAt:  time.Now().UTC(),
	}

	if err := c.db.SaveItem(item); err != nil {
		return nil, err
	}

	c.logger.WithField("title", title).Info("Tracked manual entry")
	return item, nil
}

// Delete removes an item from the collection
func (c *CollectionController) Delete(id string) error {
	if err := c.db.DeleteItem(id); err != nil {
		return err
	}
	c.logger.WithField("item_id", id).Info("Deleted item")
	return nil
}

// UpdateMetadata edits the display metadata of an item. Empty values
// leave the corresponding field untouched.
func (c *CollectionController) UpdateMetadata(id, title string, year int, overview string) (*models.Item, error) {
	item, err := c.db.GetItemByID(id)
	if err != nil {
		return nil, err
	}

	if title = strings.TrimSpace(title); title != "" {
		item.Title = title
	}
	if year > 0 {
		item.Year = year
	}
	if overview != "" {
		item.Overview = overview
	}

	return item, c.db.SaveItem(item)
}

// SetCompleted marks the item as finished, repairing timestamp
// ordering where needed.
func (c *CollectionController) SetCompleted(id string) (*models.Item, error) {
	item, err := c.db.GetItemByID(id)
	if err != nil {
		return nil, err
	}

	item.MarkCompleted(time.Now().UTC())
	return item, c.db.SaveItem(item)
}

// ClearCompleted reverts a finished item to its prior stage
func (c *CollectionController) ClearCompleted(id string) (*models.Item, error) {
	item, err := c.db.GetItemByID(id)
	if err != nil {
		return nil, err
	}

	item.ClearCompleted()
	return item, c.db.SaveItem(item)
}

// SetRating records a 1-10 score, replacing any prior one
func (c *CollectionController) SetRating(id string, rating int) (*models.Item, error) {
	if rating < 1 || rating > 10 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 10", ErrValidation)
	}

	item, err := c.db.GetItemByID(id)
	if err != nil {
		return nil, err
	}

	item.Rating = rating
	return item, c.db.SaveItem(item)
}

// ClearRating removes the item's score
func (c *CollectionController) ClearRating(id string) (*models.Item, error) {
	item, err := c.db.GetItemByID(id)
	if err != nil {
		return nil, err
	}

	item.Rating = 0
	return item, c.db.SaveItem(item)
}

// AddTag attaches a user tag to the item
func (c *CollectionController) AddTag(id, tag string) (*models.Item, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil, fmt.Errorf("%w: tag must not be empty", ErrValidation)
	}
	if codec.ReservedTag(tag) {
		return nil, fmt.Errorf("%w: %q is reserved for ratings and episode markers", ErrValidation, tag)
	}

	item, err := c.db.GetItemByID(id)
	if err != nil {
		return nil, err
	}

	item.AddTag(tag)
	return item, c.db.SaveItem(item)
}

// RemoveTag detaches a user tag from the item
func (c *CollectionController) RemoveTag(id, tag string) (*models.Item, error) {
	item, err := c.db.GetItemByID(id)
	if err != nil {
		return nil, err
	}

	item.RemoveTag(tag)
	return item, c.db.SaveItem(item)
}

// SetEpisode records the last watched episode of a show, replacing any
// prior marker.
func (c *CollectionController) SetEpisode(id string, season, episode int) (*models.Item, error) {
	if season < 0 || episode < 1 {
		return nil, fmt.Errorf("%w: invalid episode reference S%dE%d", ErrValidation, season, episode)
	}

	item, err := c.db.GetItemByID(id)
	if err != nil {
		return nil, err
	}
	if item.Category != models.CategoryTV {
		return nil, fmt.Errorf("%w: episode markers only apply to shows", ErrValidation)
	}

	item.LastEpisode = &models.EpisodeMark{Season: season, Episode: episode}
	return item, c.db.SaveItem(item)
}

// ClearEpisode removes the last-watched marker
func (c *CollectionController) ClearEpisode(id string) (*models.Item, error) {
	item, err := c.db.GetItemByID(id)
	if err != nil {
		return nil, err
	}

	item.LastEpisode = nil
	return item, c.db.SaveItem(item)
}
