package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/timshannon/bolthold"

	"github.com/amaumene/gistarr/internal/controllers"
	"github.com/amaumene/gistarr/internal/models"
)

// ItemResponse is the JSON shape of a tracked item, with the derived
// status included for the UI.
type ItemResponse struct {
	ID          string              `json:"id"`
	TMDBID      int64               `json:"tmdb_id,omitempty"`
	Category    models.Category     `json:"category"`
	Title       string              `json:"title"`
	Year        int                 `json:"year,omitempty"`
	PosterURL   string              `json:"poster_url,omitempty"`
	Overview    string              `json:"overview,omitempty"`
	Tags        []string            `json:"tags,omitempty"`
	Rating      int                 `json:"rating,omitempty"`
	LastEpisode *models.EpisodeMark `json:"last_episode,omitempty"`
	Status      models.Status       `json:"status"`
	AddedAt     time.Time           `json:"added_at"`
	CompletedAt *time.Time          `json:"completed_at,omitempty"`
}

func toItemResponse(item *models.Item) ItemResponse {
	return ItemResponse{
		ID:          item.ID,
		TMDBID:      item.TMDBID,
		Category:    item.Category,
		Title:       item.Title,
		Year:        item.Year,
		PosterURL:   item.PosterURL,
		Overview:    item.Overview,
		Tags:        item.Tags,
		Rating:      item.Rating,
		LastEpisode: item.LastEpisode,
		Status:      item.Status(),
		AddedAt:     item.AddedAt,
		CompletedAt: item.CompletedAt,
	}
}

func toItemResponses(items []*models.Item) []ItemResponse {
	responses := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, toItemResponse(item))
	}
	return responses
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeMutationError maps controller failures to HTTP statuses
func writeMutationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, controllers.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, controllers.ErrAlreadyTracked):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, bolthold.ErrNotFound):
		writeError(w, http.StatusNotFound, "item not found")
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
