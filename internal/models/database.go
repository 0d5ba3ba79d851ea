package models

import (
	"fmt"
	"time"

	"github.com/timshannon/bolthold"
	"go.etcd.io/bbolt"
)

// SyncState holds per-client sync bookkeeping: the remote document id
// and the time of the last successful full reconciliation.
type SyncState struct {
	ID         string `boltholdKey:"ID"` // always syncStateKey
	GistID     string
	LastSyncAt time.Time
}

const syncStateKey = "sync"

// Database wraps the bolthold store
type Database struct {
	store *bolthold.Store
}

// NewDatabase creates a new database connection
func NewDatabase(path string) (*Database, error) {
	store, err := bolthold.Open(path, 0600, &bolthold.Options{
		Options: &bbolt.Options{
			Timeout: 1 * time.Second,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Database{store: store}, nil
}

// Close closes the database connection
func (db *Database) Close() error {
	return db.store.Close()
}

// Item operations

// SaveItem inserts or updates an item
func (db *Database) SaveItem(item *Item) error {
	return db.store.Upsert(item.ID, item)
}

// GetItemByID retrieves an item by its identifier
func (db *Database) GetItemByID(id string) (*Item, error) {
	var item Item
	if err := db.store.Get(id, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// GetItemByExternalID retrieves an item by category and TMDB id.
// Search results are matched against existing items through this key.
func (db *Database) GetItemByExternalID(category Category, tmdbID int64) (*Item, error) {
	var item Item
	err := db.store.Get(ItemID(category, tmdbID), &item)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetAllItems retrieves every tracked item
func (db *Database) GetAllItems() ([]*Item, error) {
	var items []*Item
	err := db.store.Find(&items, nil)
	return items, err
}

// DeleteItem removes an item by its identifier
func (db *Database) DeleteItem(id string) error {
	return db.store.Delete(id, &Item{})
}

// ReplaceAllItems swaps the stored collection for the merged one,
// preserving the local-only cached poster of surviving items.
func (db *Database) ReplaceAllItems(items []*Item) error {
	existing, err := db.GetAllItems()
	if err != nil {
		return err
	}

	posters := make(map[string]string, len(existing))
	for _, item := range existing {
		if item.CachedPoster != "" {
			posters[item.ID] = item.CachedPoster
		}
		if err := db.store.Delete(item.ID, &Item{}); err != nil {
			return err
		}
	}

	for _, item := range items {
		if item.CachedPoster == "" {
			item.CachedPoster = posters[item.ID]
		}
		if err := db.store.Insert(item.ID, item); err != nil {
			return err
		}
	}

	return nil
}

// Sync state operations

// GetSyncState retrieves the sync bookkeeping record, zero-valued when
// the client has never synced.
func (db *Database) GetSyncState() (*SyncState, error) {
	var state SyncState
	err := db.store.Get(syncStateKey, &state)
	if err == bolthold.ErrNotFound {
		return &SyncState{ID: syncStateKey}, nil
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// SaveSyncState persists the sync bookkeeping record
func (db *Database) SaveSyncState(state *SyncState) error {
	state.ID = syncStateKey
	return db.store.Upsert(syncStateKey, state)
}
