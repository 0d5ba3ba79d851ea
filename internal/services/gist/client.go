package gist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultBaseURL = "https://api.github.com"
	apiVersion     = "2022-11-28"

	// DocumentFilename is the single file inside the gist holding the
	// serialized collection.
	DocumentFilename = "collection.tsv"
)

// Document is the result of fetching the remote document
type Document struct {
	Exists bool
	Text   string
}

// Client stores and retrieves the collection document through the
// GitHub Gist API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a new gist client using the given bearer token
func NewClient(token string, logger *logrus.Logger) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

type gistFile struct {
	Content   string `json:"content"`
	Truncated bool   `json:"truncated,omitempty"`
	RawURL    string `json:"raw_url,omitempty"`
}

type gistPayload struct {
	ID          string              `json:"id,omitempty"`
	Description string              `json:"description,omitempty"`
	Public      bool                `json:"public"`
	Files       map[string]gistFile `json:"files"`
}

// Fetch retrieves the document. A missing gist is reported through
// ErrNotFound so the caller can treat it as "no remote yet".
func (c *Client) Fetch(ctx context.Context, gistID string) (*Document, error) {
	var payload gistPayload
	if err := c.doRequest(ctx, "GET", "/gists/"+gistID, nil, &payload); err != nil {
		return nil, err
	}

	file, ok := payload.Files[DocumentFilename]
	if !ok {
		// The gist exists but does not hold our document yet.
		return &Document{Exists: false}, nil
	}

	text := file.Content
	if file.Truncated && file.RawURL != "" {
		full, err := c.fetchRaw(ctx, file.RawURL)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch truncated document: %w", err)
		}
		text = full
	}

	return &Document{Exists: true, Text: text}, nil
}

// Create stores the document in a new secret gist and returns its id
func (c *Client) Create(ctx context.Context, text string) (string, error) {
	payload := gistPayload{
		Description: "gistarr collection",
		Public:      false,
		Files: map[string]gistFile{
			DocumentFilename: {Content: text},
		},
	}

	var created gistPayload
	if err := c.doRequest(ctx, "POST", "/gists", payload, &created); err != nil {
		return "", err
	}
	if created.ID == "" {
		return "", fmt.Errorf("gist API returned no id for created gist")
	}

	c.logger.WithField("gist_id", created.ID).Info("Created remote document")
	return created.ID, nil
}

// Update overwrites the document in an existing gist
func (c *Client) Update(ctx context.Context, gistID, text string) error {
	payload := gistPayload{
		Files: map[string]gistFile{
			DocumentFilename: {Content: text},
		},
	}

	return c.doRequest(ctx, "PATCH", "/gists/"+gistID, payload, nil)
}

// doRequest performs an authenticated request against the gist API
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	fullURL := c.baseURL + path
	c.logger.WithFields(logrus.Fields{
		"method": method,
		"url":    fullURL,
	}).Debug("Making gist API request")

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return classifyStatus(resp.StatusCode, string(bodyBytes))
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// fetchRaw downloads the full document content when the API response
// was truncated.
func (c *Client) fetchRaw(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", classifyStatus(resp.StatusCode, "")
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
