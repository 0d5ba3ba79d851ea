package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

const (
	defaultBaseURL = "https://api.themoviedb.org/3"
	imageBaseURL   = "https://image.tmdb.org/t/p/w500"
)

// Client wraps the TMDB API for search and metadata backfill. Lookups
// are cached in memory since backfill may re-request the same item on
// every full sync until the document is healed.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cache      *cache.Cache
	logger     *logrus.Logger
}

// NewClient creates a new TMDB client
func NewClient(apiKey string, logger *logrus.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("TMDB API key is required")
	}

	return &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		cache:      cache.New(30*time.Minute, 10*time.Minute),
		logger:     logger,
	}, nil
}

// makeRequest performs a GET against the TMDB API and returns the body
func (c *Client) makeRequest(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)

	fullURL := c.baseURL + endpoint + "?" + params.Encode()
	c.logger.WithField("endpoint", endpoint).Debug("Making TMDB API request")

	req, err := http.NewRequestWithContext(ctx, "GET", fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "gistarr/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("TMDB API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("TMDB API returned status %d: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}

// getJSON fetches and unmarshals an endpoint, consulting the cache
func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, result interface{}) error {
	key := endpoint
	if params != nil {
		key += "?" + params.Encode()
	}
	if cached, ok := c.cache.Get(key); ok {
		return json.Unmarshal(cached.([]byte), result)
	}

	body, err := c.makeRequest(ctx, endpoint, params)
	if err != nil {
		return err
	}

	c.cache.Set(key, body, cache.DefaultExpiration)
	return json.Unmarshal(body, result)
}
