package handlers

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/gistarr/internal/controllers"
	"github.com/amaumene/gistarr/internal/models"
)

// StatusHandler reports collection and sync statistics
type StatusHandler struct {
	db       *models.Database
	syncCtrl *controllers.SyncController
	logger   *logrus.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(db *models.Database, syncCtrl *controllers.SyncController, logger *logrus.Logger) *StatusHandler {
	return &StatusHandler{
		db:       db,
		syncCtrl: syncCtrl,
		logger:   logger,
	}
}

// StatusResponse represents the status response
type StatusResponse struct {
	TotalItems      int            `json:"total_items"`
	Pending         int            `json:"pending"`
	Watching        int            `json:"watching"`
	Completed       int            `json:"completed"`
	ItemsByCategory map[string]int `json:"items_by_category"`
	Syncing         bool           `json:"syncing"`
	LastSyncAt      *time.Time     `json:"last_sync_at,omitempty"`
}

// ServeHTTP handles the status endpoint
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	items, err := h.db.GetAllItems()
	if err != nil {
		h.logger.WithError(err).Error("Failed to get items")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	response := StatusResponse{
		TotalItems:      len(items),
		ItemsByCategory: make(map[string]int),
		Syncing:         h.syncCtrl.Syncing(),
	}

	for _, item := range items {
		switch item.Status() {
		case models.StatusPending:
			response.Pending++
		case models.StatusWatching:
			response.Watching++
		case models.StatusCompleted:
			response.Completed++
		}

		response.ItemsByCategory[string(item.Category)]++
	}

	if lastSync, err := h.syncCtrl.LastSyncAt(); err == nil && !lastSync.IsZero() {
		response.LastSyncAt = &lastSync
	}

	writeJSON(w, http.StatusOK, response)
}
