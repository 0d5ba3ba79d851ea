package controllers

import (
	"time"

	"github.com/amaumene/gistarr/internal/models"
)

// Merge reconciles the local collection with the decoded remote one.
//
// The remote list is authoritative for presence: a synced item absent
// from it was deleted on another client and is dropped, unless its
// addition is newer than this client's last successful sync, in which
// case it is a genuinely new local addition that the remote has simply
// not seen yet. This is what lets deletions propagate without
// tombstones, at the cost of every client tracking its own lastSync.
//
// An item present on both sides is resolved whole-copy: the copy with
// the later activity timestamp wins with all its fields, never a
// field-by-field union.
//
// Manual entries can never appear remotely, so the deletion heuristic
// does not apply to them; they are always kept.
func Merge(local, remote []*models.Item, lastSync time.Time) []*models.Item {
	localByID := make(map[string]*models.Item, len(local))
	for _, item := range local {
		localByID[item.ID] = item
	}

	merged := make([]*models.Item, 0, len(remote))
	for _, remoteItem := range remote {
		if localItem, ok := localByID[remoteItem.ID]; ok {
			delete(localByID, remoteItem.ID)
			if localItem.LastActivity().After(remoteItem.LastActivity()) {
				merged = append(merged, localItem)
				continue
			}
		}
		merged = append(merged, remoteItem)
	}

	// Local items the remote does not know about, in original order.
	for _, item := range local {
		survivor, ok := localByID[item.ID]
		if !ok {
			continue
		}
		if !survivor.Syncable() || survivor.AddedAt.After(lastSync) {
			merged = append(merged, survivor)
		}
	}

	return merged
}
