package tmdb

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/amaumene/gistarr/internal/models"
)

type searchResponse struct {
	Results []searchHit `json:"results"`
}

type searchHit struct {
	ID           int64  `json:"id"`
	MediaType    string `json:"media_type"`
	Title        string `json:"title"` // movies
	Name         string `json:"name"`  // tv shows
	ReleaseDate  string `json:"release_date"`
	FirstAirDate string `json:"first_air_date"`
	PosterPath   string `json:"poster_path"`
	Overview     string `json:"overview"`
}

type detailResponse struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Name         string `json:"name"`
	ReleaseDate  string `json:"release_date"`
	FirstAirDate string `json:"first_air_date"`
	PosterPath   string `json:"poster_path"`
	Overview     string `json:"overview"`
}

// Search queries both categories at once through the multi-search
// endpoint. Non-media hits (people) are dropped.
func (c *Client) Search(ctx context.Context, query string) ([]*models.SearchResult, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")

	var resp searchResponse
	if err := c.getJSON(ctx, "/search/multi", params, &resp); err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	var results []*models.SearchResult
	for _, hit := range resp.Results {
		result := convertHit(hit)
		if result != nil {
			results = append(results, result)
		}
	}

	c.logger.WithField("count", len(results)).Debug("TMDB search completed")
	return results, nil
}

// FetchByID retrieves metadata for one known item, used to backfill
// missing denormalized fields during decode.
func (c *Client) FetchByID(ctx context.Context, category models.Category, tmdbID int64) (*models.SearchResult, error) {
	endpoint := fmt.Sprintf("/%s/%d", categoryPath(category), tmdbID)

	var resp detailResponse
	if err := c.getJSON(ctx, endpoint, nil, &resp); err != nil {
		return nil, fmt.Errorf("metadata lookup failed: %w", err)
	}

	return &models.SearchResult{
		TMDBID:    resp.ID,
		Category:  category,
		Title:     firstNonEmpty(resp.Title, resp.Name),
		Year:      yearOf(firstNonEmpty(resp.ReleaseDate, resp.FirstAirDate)),
		PosterURL: posterURL(resp.PosterPath),
		Overview:  resp.Overview,
	}, nil
}

func convertHit(hit searchHit) *models.SearchResult {
	var category models.Category
	switch hit.MediaType {
	case "movie":
		category = models.CategoryMovie
	case "tv":
		category = models.CategoryTV
	default:
		return nil
	}

	return &models.SearchResult{
		TMDBID:    hit.ID,
		Category:  category,
		Title:     firstNonEmpty(hit.Title, hit.Name),
		Year:      yearOf(firstNonEmpty(hit.ReleaseDate, hit.FirstAirDate)),
		PosterURL: posterURL(hit.PosterPath),
		Overview:  hit.Overview,
	}
}

func categoryPath(category models.Category) string {
	if category == models.CategoryTV {
		return "tv"
	}
	return "movie"
}

// yearOf extracts the year from a TMDB date string ("2010-07-16")
func yearOf(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}

func posterURL(path string) string {
	if path == "" {
		return ""
	}
	return imageBaseURL + path
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
