package handlers

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/gistarr/internal/controllers"
	"github.com/amaumene/gistarr/internal/services/gist"
)

// SyncHandler runs a user-initiated full reconciliation. Unlike
// background pushes, its failures are surfaced to the caller with a
// message per failure class.
type SyncHandler struct {
	syncCtrl *controllers.SyncController
	logger   *logrus.Logger
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(syncCtrl *controllers.SyncController, logger *logrus.Logger) *SyncHandler {
	return &SyncHandler{
		syncCtrl: syncCtrl,
		logger:   logger,
	}
}

// ServeHTTP handles the manual sync endpoint
func (h *SyncHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	err := h.syncCtrl.FullSync(r.Context())
	if err == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "synced"})
		return
	}

	h.logger.WithError(err).Error("Manual sync failed")

	switch {
	case errors.Is(err, controllers.ErrSyncInProgress):
		writeError(w, http.StatusConflict, "a sync is already in progress")
	case errors.Is(err, gist.ErrUnauthorized):
		writeError(w, http.StatusBadGateway, "sync credential rejected, check your gist token")
	case errors.Is(err, gist.ErrForbidden):
		writeError(w, http.StatusBadGateway, "gist access forbidden or rate limited, try again later")
	case errors.Is(err, gist.ErrBadRequest):
		writeError(w, http.StatusBadGateway, "gist request rejected, check your sync configuration")
	default:
		writeError(w, http.StatusBadGateway, "sync failed, will retry on the next trigger")
	}
}
