package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/gistarr/internal/models"
)

// Searcher queries the external metadata source
type Searcher interface {
	Search(ctx context.Context, query string) ([]*models.SearchResult, error)
}

// SearchHandler proxies metadata searches for the UI
type SearchHandler struct {
	searcher Searcher
	logger   *logrus.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searcher Searcher, logger *logrus.Logger) *SearchHandler {
	return &SearchHandler{
		searcher: searcher,
		logger:   logger,
	}
}

// SearchResultResponse is the JSON shape of one search hit
type SearchResultResponse struct {
	TMDBID    int64           `json:"tmdb_id"`
	Category  models.Category `json:"category"`
	Title     string          `json:"title"`
	Year      int             `json:"year,omitempty"`
	PosterURL string          `json:"poster_url,omitempty"`
	Overview  string          `json:"overview,omitempty"`
}

// ServeHTTP handles the search endpoint
func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}

	results, err := h.searcher.Search(r.Context(), query)
	if err != nil {
		h.logger.WithError(err).Error("Metadata search failed")
		writeError(w, http.StatusBadGateway, "metadata search failed")
		return
	}

	responses := make([]SearchResultResponse, 0, len(results))
	for _, result := range results {
		responses = append(responses, SearchResultResponse{
			TMDBID:    result.TMDBID,
			Category:  result.Category,
			Title:     result.Title,
			Year:      result.Year,
			PosterURL: result.PosterURL,
			Overview:  result.Overview,
		})
	}

	writeJSON(w, http.StatusOK, responses)
}
