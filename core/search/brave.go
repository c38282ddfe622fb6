package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"
)

const defaultBraveBaseURL = "https://api.search.brave.com/res/v1/web/search"

// braveProvider queries the Brave Search API.
type braveProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func newBraveProvider(apiKey, baseURL string, client *http.Client) *braveProvider {
	if baseURL == "" {
		baseURL = defaultBraveBaseURL
	}
	return &braveProvider{apiKey: apiKey, baseURL: baseURL, client: client}
}

func (b *braveProvider) name() string {
	return "brave"
}

func (b *braveProvider) search(ctx context.Context, query string) ([]Result, error) {
	u, err := url.Parse(b.baseURL)
	if err != nil {
		return nil, fmt.Errorf("brave: %w", err)
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("count", fmt.Sprintf("%d", maxResults))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("brave: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", b.apiKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("brave: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("brave: API returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("brave: %w", err)
	}

	var results []Result
	for _, r := range gjson.GetBytes(body, "web.results").Array() {
		results = append(results, Result{
			Title:   r.Get("title").String(),
			URL:     r.Get("url").String(),
			Snippet: r.Get("description").String(),
		})
	}
	return results, nil
}
