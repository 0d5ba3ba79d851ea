package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/gistarr/internal/collection"
	"github.com/amaumene/gistarr/internal/controllers"
	"github.com/amaumene/gistarr/internal/models"
)

// ItemsHandler exposes the collection to the UI: listing with filter
// and sort parameters, adding, editing and deleting tracked items.
// Every successful mutation triggers a background push so the remote
// document follows local state.
type ItemsHandler struct {
	coll     *controllers.CollectionController
	syncCtrl *controllers.SyncController
	logger   *logrus.Logger
}

// NewItemsHandler creates a new items handler
func NewItemsHandler(coll *controllers.CollectionController, syncCtrl *controllers.SyncController, logger *logrus.Logger) *ItemsHandler {
	return &ItemsHandler{
		coll:     coll,
		syncCtrl: syncCtrl,
		logger:   logger,
	}
}

// Register wires the item routes onto the mux
func (h *ItemsHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/items", h.list)
	mux.HandleFunc("POST /api/items", h.add)
	mux.HandleFunc("GET /api/items/{id}", h.get)
	mux.HandleFunc("PATCH /api/items/{id}", h.updateMetadata)
	mux.HandleFunc("DELETE /api/items/{id}", h.delete)
	mux.HandleFunc("POST /api/items/{id}/complete", h.complete)
	mux.HandleFunc("DELETE /api/items/{id}/complete", h.uncomplete)
	mux.HandleFunc("PUT /api/items/{id}/rating", h.setRating)
	mux.HandleFunc("DELETE /api/items/{id}/rating", h.clearRating)
	mux.HandleFunc("POST /api/items/{id}/tags", h.addTag)
	mux.HandleFunc("DELETE /api/items/{id}/tags/{tag}", h.removeTag)
	mux.HandleFunc("PUT /api/items/{id}/episode", h.setEpisode)
	mux.HandleFunc("DELETE /api/items/{id}/episode", h.clearEpisode)
	mux.HandleFunc("GET /api/tags", h.tags)
}

// list returns the collection, filtered and sorted per query params
func (h *ItemsHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.coll.List()
	if err != nil {
		h.logger.WithError(err).Error("Failed to list items")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	q := r.URL.Query()
	filter := collection.Filter{Query: q.Get("q")}
	for _, c := range splitParam(q.Get("category")) {
		filter.Categories = append(filter.Categories, models.Category(c))
	}
	for _, s := range splitParam(q.Get("status")) {
		filter.Statuses = append(filter.Statuses, models.Status(s))
	}
	filter.Tags = splitParam(q.Get("tags"))

	items = filter.Apply(items)

	if field := q.Get("sort"); field != "" {
		order := collection.Ascending
		if q.Get("order") == string(collection.Descending) {
			order = collection.Descending
		}
		items = collection.Sort(items, collection.SortField(field), order)
	}

	writeJSON(w, http.StatusOK, toItemResponses(items))
}

func splitParam(value string) []string {
	if value == "" {
		return nil
	}
	var parts []string
	for _, p := range strings.Split(value, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// AddItemRequest tracks either a search result (tmdb_id set) or a
// manual entry (tmdb_id absent).
type AddItemRequest struct {
	TMDBID    int64           `json:"tmdb_id"`
	Category  models.Category `json:"category"`
	Title     string          `json:"title"`
	Year      int             `json:"year"`
	PosterURL string          `json:"poster_url"`
	Overview  string          `json:"overview"`
}

func (h *ItemsHandler) add(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var item *models.Item
	var err error
	if req.TMDBID > 0 {
		item, err = h.coll.AddFromSearch(&models.SearchResult{
			TMDBID:    req.TMDBID,
			Category:  req.Category,
			Title:     req.Title,
			Year:      req.Year,
			PosterURL: req.PosterURL,
			Overview:  req.Overview,
		})
	} else {
		item, err = h.coll.AddManual(req.Category, req.Title, req.Year, req.Overview)
	}
	if err != nil {
		writeMutationError(w, err)
		return
	}

	h.syncCtrl.TriggerPush()
	writeJSON(w, http.StatusCreated, toItemResponse(item))
}

func (h *ItemsHandler) get(w http.ResponseWriter, r *http.Request) {
	item, err := h.coll.Get(r.PathValue("id"))
	if err != nil {
		writeMutationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(item))
}

// UpdateMetadataRequest carries partial display-metadata edits
type UpdateMetadataRequest struct {
	Title    string `json:"title"`
	Year     int    `json:"year"`
	Overview string `json:"overview"`
}

func (h *ItemsHandler) updateMetadata(w http.ResponseWriter, r *http.Request) {
	var req UpdateMetadataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.coll.UpdateMetadata(r.PathValue("id"), req.Title, req.Year, req.Overview)
	if err != nil {
		writeMutationError(w, err)
		return
	}

	h.syncCtrl.TriggerPush()
	writeJSON(w, http.StatusOK, toItemResponse(item))
}

func (h *ItemsHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.coll.Delete(r.PathValue("id")); err != nil {
		writeMutationError(w, err)
		return
	}

	h.syncCtrl.TriggerPush()
	w.WriteHeader(http.StatusNoContent)
}

func (h *ItemsHandler) complete(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, func() (*models.Item, error) {
		return h.coll.SetCompleted(r.PathValue("id"))
	})
}

func (h *ItemsHandler) uncomplete(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, func() (*models.Item, error) {
		return h.coll.ClearCompleted(r.PathValue("id"))
	})
}

// RatingRequest carries a 1-10 score
type RatingRequest struct {
	Rating int `json:"rating"`
}

func (h *ItemsHandler) setRating(w http.ResponseWriter, r *http.Request) {
	var req RatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.mutate(w, func() (*models.Item, error) {
		return h.coll.SetRating(r.PathValue("id"), req.Rating)
	})
}

func (h *ItemsHandler) clearRating(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, func() (*models.Item, error) {
		return h.coll.ClearRating(r.PathValue("id"))
	})
}

// TagRequest carries a single tag value
type TagRequest struct {
	Tag string `json:"tag"`
}

func (h *ItemsHandler) addTag(w http.ResponseWriter, r *http.Request) {
	var req TagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.mutate(w, func() (*models.Item, error) {
		return h.coll.AddTag(r.PathValue("id"), req.Tag)
	})
}

func (h *ItemsHandler) removeTag(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, func() (*models.Item, error) {
		return h.coll.RemoveTag(r.PathValue("id"), r.PathValue("tag"))
	})
}

// EpisodeRequest carries a season/episode pair
type EpisodeRequest struct {
	Season  int `json:"season"`
	Episode int `json:"episode"`
}

func (h *ItemsHandler) setEpisode(w http.ResponseWriter, r *http.Request) {
	var req EpisodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.mutate(w, func() (*models.Item, error) {
		return h.coll.SetEpisode(r.PathValue("id"), req.Season, req.Episode)
	})
}

func (h *ItemsHandler) clearEpisode(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, func() (*models.Item, error) {
		return h.coll.ClearEpisode(r.PathValue("id"))
	})
}

func (h *ItemsHandler) tags(w http.ResponseWriter, r *http.Request) {
	items, err := h.coll.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	tags := collection.UniqueTags(items)
	if tags == nil {
		tags = []string{}
	}
	writeJSON(w, http.StatusOK, tags)
}

// mutate runs one mutation, propagates it and writes the updated item
func (h *ItemsHandler) mutate(w http.ResponseWriter, fn func() (*models.Item, error)) {
	item, err := fn()
	if err != nil {
		writeMutationError(w, err)
		return
	}

	h.syncCtrl.TriggerPush()
	writeJSON(w, http.StatusOK, toItemResponse(item))
}
