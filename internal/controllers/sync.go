package controllers

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/gistarr/internal/codec"
	"github.com/amaumene/gistarr/internal/models"
	"github.com/amaumene/gistarr/internal/services/gist"
)

// ErrSyncInProgress is returned when a sync is requested while another
// one is still in flight. Requests are dropped, not queued.
var ErrSyncInProgress = errors.New("sync already in progress")

// DocumentStore is the remote document transport consumed by the sync
// engine.
type DocumentStore interface {
	Fetch(ctx context.Context, id string) (*gist.Document, error)
	Create(ctx context.Context, text string) (string, error)
	Update(ctx context.Context, id, text string) error
}

// SyncController reconciles the local collection with the remote
// document. Full reconciliation (pull-merge-push) runs on startup, on
// schedule and on manual trigger; push-only propagation runs after
// local mutations so a just-deleted item cannot be resurrected by an
// interleaved pull.
type SyncController struct {
	db       *models.Database
	docs     DocumentStore
	metadata codec.MetadataSource
	logger   *logrus.Logger
	syncing  atomic.Bool
}

// NewSyncController creates a new sync controller
func NewSyncController(db *models.Database, docs DocumentStore, metadata codec.MetadataSource, logger *logrus.Logger) *SyncController {
	return &SyncController{
		db:       db,
		docs:     docs,
		metadata: metadata,
		logger:   logger,
	}
}

// FullSync runs the pull-merge-push cycle. The last-sync timestamp
// advances only when the whole cycle succeeds.
func (c *SyncController) FullSync(ctx context.Context) error {
	if !c.syncing.CompareAndSwap(false, true) {
		return ErrSyncInProgress
	}
	defer c.syncing.Store(false)

	state, err := c.db.GetSyncState()
	if err != nil {
		return fmt.Errorf("failed to load sync state: %w", err)
	}

	remote, remoteUsable, err := c.pull(ctx, state)
	if err != nil {
		return err
	}

	local, err := c.db.GetAllItems()
	if err != nil {
		return fmt.Errorf("failed to load local collection: %w", err)
	}

	// Remote presence is only authoritative when a readable document
	// was actually there. A missing or unreadable document must not be
	// mistaken for "everything was deleted remotely".
	merged := local
	if remoteUsable {
		merged = Merge(local, remote, state.LastSyncAt)
	}
	if err := c.db.ReplaceAllItems(merged); err != nil {
		return fmt.Errorf("failed to apply merged collection: %w", err)
	}

	// The push is unconditional: it is idempotent when nothing changed
	// and it self-heals documents flagged for rewrite by the decoder.
	if err := c.push(ctx, state, merged); err != nil {
		return err
	}

	state.LastSyncAt = time.Now().UTC()
	if err := c.db.SaveSyncState(state); err != nil {
		return fmt.Errorf("failed to save sync state: %w", err)
	}

	c.logger.WithField("items", len(merged)).Info("Full sync completed")
	return nil
}

// PushOnly re-serializes the current local state and writes it to the
// remote document without pulling or merging first. It deliberately
// does not advance the last-sync timestamp.
func (c *SyncController) PushOnly(ctx context.Context) error {
	if !c.syncing.CompareAndSwap(false, true) {
		return ErrSyncInProgress
	}
	defer c.syncing.Store(false)

	state, err := c.db.GetSyncState()
	if err != nil {
		return fmt.Errorf("failed to load sync state: %w", err)
	}

	items, err := c.db.GetAllItems()
	if err != nil {
		return fmt.Errorf("failed to load local collection: %w", err)
	}

	if err := c.push(ctx, state, items); err != nil {
		return err
	}

	return c.db.SaveSyncState(state)
}

// TriggerPush propagates local state in the background. Failures are
// logged, never surfaced: the next mutation or scheduled sync retries
// naturally. A push racing another sync is simply dropped.
func (c *SyncController) TriggerPush() {
	go func() {
		err := c.PushOnly(context.Background())
		switch {
		case errors.Is(err, ErrSyncInProgress):
			c.logger.Debug("Background push skipped, sync in flight")
		case err != nil:
			c.logger.WithError(err).Error("Background push failed")
		}
	}()
}

// pull fetches and decodes the remote document. It reports whether a
// usable remote existed: a missing document or one with an
// unrecognized schema is "no remote", not an empty collection, and in
// both cases the push writes a fresh canonical document.
func (c *SyncController) pull(ctx context.Context, state *models.SyncState) ([]*models.Item, bool, error) {
	if state.GistID == "" {
		c.logger.Debug("No remote document yet, treating remote as empty")
		return nil, false, nil
	}

	doc, err := c.docs.Fetch(ctx, state.GistID)
	if errors.Is(err, gist.ErrNotFound) {
		c.logger.WithField("gist_id", state.GistID).Warn("Remote document missing, a new one will be created")
		state.GistID = ""
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to fetch remote document: %w", err)
	}
	if !doc.Exists {
		return nil, false, nil
	}

	result := codec.Decode(doc.Text)
	if result.Reasons[codec.ReasonUnknownSchema] {
		c.logger.WithField("gist_id", state.GistID).Warn("Remote document has an unrecognized schema, keeping local state and rewriting it")
		return nil, false, nil
	}
	if result.NeedsRewrite() {
		c.logger.WithField("reasons", fmt.Sprintf("%v", result.Reasons)).Info("Remote document will be rewritten in canonical form")
	}

	if len(result.NeedsBackfill) > 0 && c.metadata != nil {
		codec.Backfill(ctx, c.metadata, result.NeedsBackfill, c.logger)
	}

	return result.Items, true, nil
}

// push writes the serialized collection, creating the document when
// none exists yet and persisting the returned id.
func (c *SyncController) push(ctx context.Context, state *models.SyncState, items []*models.Item) error {
	text := codec.Encode(items)

	if state.GistID == "" {
		id, err := c.docs.Create(ctx, text)
		if err != nil {
			return fmt.Errorf("failed to create remote document: %w", err)
		}
		state.GistID = id
		return nil
	}

	err := c.docs.Update(ctx, state.GistID, text)
	if errors.Is(err, gist.ErrNotFound) {
		// The document disappeared under our persisted id.
		c.logger.WithField("gist_id", state.GistID).Warn("Remote document vanished, creating a new one")
		id, createErr := c.docs.Create(ctx, text)
		if createErr != nil {
			return fmt.Errorf("failed to recreate remote document: %w", createErr)
		}
		state.GistID = id
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to update remote document: %w", err)
	}

	return nil
}

// Syncing reports whether a sync cycle is currently in flight
func (c *SyncController) Syncing() bool {
	return c.syncing.Load()
}

// LastSyncAt returns the time of the last successful full sync
func (c *SyncController) LastSyncAt() (time.Time, error) {
	state, err := c.db.GetSyncState()
	if err != nil {
		return time.Time{}, err
	}
	return state.LastSyncAt, nil
}
