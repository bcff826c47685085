package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const tavilyEndpoint = "https://api.tavily.com/search"

// SearchResult is one web search hit in the shape the prompts describe.
type SearchResult struct {
	Title   string `json:"Title"`
	Link    string `json:"Link"`
	Snippet string `json:"Snippet"`
	Favicon string `json:"Favicon"`
	Success bool   `json:"Success"`
	Error   string `json:"Error"`
	Content string `json:"Content"`
}

// WebSearchTool searches the web through the Tavily API. A failed search is
// reported as a single error record rather than a tool error, so the model
// can read what went wrong.
type WebSearchTool struct {
	apiKey   string
	endpoint string
	httpc    *http.Client
}

func NewWebSearch(apiKey string) *WebSearchTool {
	return &WebSearchTool{
		apiKey:   apiKey,
		endpoint: tavilyEndpoint,
		httpc:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (t *WebSearchTool) Name() string { return "WebSearchTool" }

func (t *WebSearchTool) Description() string {
	return "Search the web by providing a query and number of search results. Returns a list of results with title, link, snippet, favicon, and raw content."
}

func (t *WebSearchTool) Run(ctx context.Context, args map[string]any) (string, error) {
	query := stringArg(args, "query")
	k := intArg(args, "k", 5)
	if k <= 0 {
		k = 3
	}

	results, err := t.Search(ctx, query, k)
	if err != nil {
		results = []SearchResult{{
			Title:   "Search Error",
			Snippet: fmt.Sprintf("Error during search: %v", err),
			Error:   err.Error(),
			Content: fmt.Sprintf("Error during search: %v", err),
		}}
	}
	b, err := json.Marshal(results)
	if err != nil {
		return "", fmt.Errorf("marshal search results: %w", err)
	}
	return string(b), nil
}

func (t *WebSearchTool) Search(ctx context.Context, query string, k int) ([]SearchResult, error) {
	body, err := json.Marshal(map[string]any{
		"api_key":             t.apiKey,
		"query":               query,
		"search_depth":        "basic",
		"include_favicon":     true,
		"include_raw_content": "text",
		"max_results":         k,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tavily search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tavily search status %d", resp.StatusCode)
	}

	var payload struct {
		Results []struct {
			Title      string `json:"title"`
			URL        string `json:"url"`
			Content    string `json:"content"`
			RawContent string `json:"raw_content"`
			Favicon    string `json:"favicon"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode tavily response: %w", err)
	}

	results := make([]SearchResult, 0, len(payload.Results))
	for _, item := range payload.Results {
		content := item.RawContent
		if content == "" {
			content = item.Content
		}
		results = append(results, SearchResult{
			Title:   item.Title,
			Link:    item.URL,
			Snippet: item.Content,
			Favicon: item.Favicon,
			Success: true,
			Content: content,
		})
	}
	return results, nil
}
