// Package dataclient is the HTTP client for the document data service.
// Documents are whole JSON blobs keyed by collection name + id; writes are
// full-document replacements except for keyed PUT updates on user_inputs.
package dataclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

type Client struct {
	baseURL string
	httpc   *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 15 * time.Second},
	}
}

type envelope struct {
	Status string         `json:"status"`
	Data   map[string]any `json:"data"`
}

// Get fetches a document. A missing document is returned as (nil, nil):
// callers treat absence as an empty starting state, not a failure.
func (c *Client) Get(ctx context.Context, collection, id string, params map[string]string) (map[string]any, error) {
	q := url.Values{}
	q.Set("collection_name", collection)
	q.Set("_id", id)
	for k, v := range params {
		q.Set(k, v)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build get request: %w", err)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("data service get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("data service get status %d: %s", resp.StatusCode, string(body))
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode data service response: %w", err)
	}
	return env.Data, nil
}

// Post replaces (or creates) the whole document.
func (c *Client) Post(ctx context.Context, collection, id string, doc any) error {
	q := url.Values{}
	q.Set("collection_name", collection)
	q.Set("_id", id)

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"?"+q.Encode(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build post request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("data service post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("data service post status %d: %s", resp.StatusCode, string(b))
	}
	return nil
}

// Put updates one key inside a document (user_inputs fields only on the
// service side).
func (c *Client) Put(ctx context.Context, collection, id, key string, value any) error {
	q := url.Values{}
	q.Set("collection_name", collection)
	q.Set("_id", id)
	q.Set("key", key)

	body, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal value: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"?"+q.Encode(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build put request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("data service put: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("data service put status %d: %s", resp.StatusCode, string(b))
	}
	return nil
}
