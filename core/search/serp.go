package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"
)

const defaultSerpBaseURL = "https://serpapi.com/search.json"

// serpProvider queries SerpAPI (Google results).
type serpProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func newSerpProvider(apiKey, baseURL string, client *http.Client) *serpProvider {
	if baseURL == "" {
		baseURL = defaultSerpBaseURL
	}
	return &serpProvider{apiKey: apiKey, baseURL: baseURL, client: client}
}

func (s *serpProvider) name() string {
	return "serpapi"
}

func (s *serpProvider) search(ctx context.Context, query string) ([]Result, error) {
	u, err := url.Parse(s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("serpapi: %w", err)
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("api_key", s.apiKey)
	q.Set("num", fmt.Sprintf("%d", maxResults))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("serpapi: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serpapi: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serpapi: API returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("serpapi: %w", err)
	}

	var results []Result
	for _, r := range gjson.GetBytes(body, "organic_results").Array() {
		results = append(results, Result{
			Title:   r.Get("title").String(),
			URL:     r.Get("link").String(),
			Snippet: r.Get("snippet").String(),
		})
	}
	return results, nil
}
