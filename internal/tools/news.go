package tools

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// NewsFetcherTool scrapes the main article text from a news URL.
type NewsFetcherTool struct {
	httpc *http.Client
}

func NewNewsFetcher() *NewsFetcherTool {
	return &NewsFetcherTool{httpc: &http.Client{Timeout: 20 * time.Second}}
}

func (t *NewsFetcherTool) Name() string { return "NewsFetcherTool" }

func (t *NewsFetcherTool) Description() string {
	return "Scrapes news from a URL. Takes a news URL as input."
}

func (t *NewsFetcherTool) Run(ctx context.Context, args map[string]any) (string, error) {
	u := stringArg(args, "url")
	if u == "" {
		u = stringArg(args, "query")
	}
	if u == "" {
		return "", fmt.Errorf("news fetcher: no url provided")
	}
	return t.Scrape(ctx, u)
}

// Scrape downloads the page and extracts readable article text, preferring
// semantic article containers over the raw body.
func (t *NewsFetcherTool) Scrape(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("build news request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := t.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", rawURL, err)
	}
	doc.Find("script, style, nav, header, footer, aside, form, noscript").Remove()

	for _, sel := range []string{"article", "[itemprop=articleBody]", "main", ".article-body", ".story-content", "#content"} {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if text := collapseText(node.Text()); len(text) > 200 {
				return text, nil
			}
		}
	}
	text := collapseText(doc.Find("body").Text())
	if text == "" {
		return "", fmt.Errorf("no article text found at %s", rawURL)
	}
	return text, nil
}

func collapseText(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
