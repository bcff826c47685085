package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ImageSearchTool finds images with the Google Custom Search API.
type ImageSearchTool struct {
	apiKey   string
	cseID    string
	endpoint string
	httpc    *http.Client
}

func NewImageSearch(apiKey, cseID string) *ImageSearchTool {
	return &ImageSearchTool{
		apiKey:   apiKey,
		cseID:    cseID,
		endpoint: "https://www.googleapis.com/customsearch/v1",
		httpc:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (t *ImageSearchTool) Name() string { return "ImageSearchTool" }

func (t *ImageSearchTool) Description() string {
	return "Search Google Images using custom search engine by providing a query and number of results."
}

type imageResult struct {
	Title     string `json:"Title"`
	ImageLink string `json:"Image Link"`
	Thumbnail string `json:"Thumbnail"`
}

func (t *ImageSearchTool) Run(ctx context.Context, args map[string]any) (string, error) {
	query := stringArg(args, "query")
	if query == "" {
		return "", fmt.Errorf("image search: no query provided")
	}
	k := intArg(args, "k", 5)

	q := url.Values{}
	q.Set("q", query)
	q.Set("key", t.apiKey)
	q.Set("cx", t.cseID)
	q.Set("num", strconv.Itoa(k))
	q.Set("searchType", "image")
	q.Set("gl", "in")
	q.Set("safe", "off")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build image search request: %w", err)
	}
	resp, err := t.httpc.Do(req)
	if err != nil {
		return fmt.Sprintf("Error: %v", err), nil
	}
	defer resp.Body.Close()

	var payload struct {
		Items []struct {
			Title string `json:"title"`
			Link  string `json:"link"`
			Image struct {
				ThumbnailLink string `json:"thumbnailLink"`
			} `json:"image"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Sprintf("Error: %v", err), nil
	}

	results := make([]imageResult, 0, len(payload.Items))
	for _, item := range payload.Items {
		title := item.Title
		if title == "" {
			title = "No title"
		}
		results = append(results, imageResult{
			Title:     title,
			ImageLink: item.Link,
			Thumbnail: item.Image.ThumbnailLink,
		})
	}
	raw, err := json.Marshal(results)
	if err != nil {
		return "", fmt.Errorf("marshal image results: %w", err)
	}
	return string(raw), nil
}
