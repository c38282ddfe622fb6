// Package search implements the web-search tool adapter used to ground
// generated data in real results. The adapter degrades rather than fails:
// Search always returns model-consumable text, so callers never need a
// special case for "search unavailable".
package search

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// maxResults caps how many results are formatted per query.
const maxResults = 5

// Result is one web search hit.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// provider executes a query against one search backend.
type provider interface {
	name() string
	search(ctx context.Context, query string) ([]Result, error)
}

// Adapter selects a search backend by configured credential and formats its
// results as text for the model. With no credential configured it returns
// the documented fallback text instead of erroring.
type Adapter struct {
	provider provider
	logger   *slog.Logger
	now      func() time.Time
}

// Config holds search backend credentials. At most one backend is used;
// Brave wins when both keys are set.
type Config struct {
	BraveAPIKey string `json:"brave_api_key" yaml:"brave_api_key"`
	SerpAPIKey  string `json:"serp_api_key" yaml:"serp_api_key"`

	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client `json:"-" yaml:"-"`

	// BraveBaseURL and SerpBaseURL override the provider endpoints,
	// mainly for tests.
	BraveBaseURL string `json:"-" yaml:"-"`
	SerpBaseURL  string `json:"-" yaml:"-"`
}

// NewAdapter creates an Adapter from the given credentials.
func NewAdapter(cfg Config, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	a := &Adapter{logger: logger, now: time.Now}

	switch {
	case cfg.BraveAPIKey != "":
		a.provider = newBraveProvider(cfg.BraveAPIKey, cfg.BraveBaseURL, client)
	case cfg.SerpAPIKey != "":
		a.provider = newSerpProvider(cfg.SerpAPIKey, cfg.SerpBaseURL, client)
	}

	return a
}

// Search executes the query and returns formatted result text. It never
// returns an error: provider failures and missing configuration both
// degrade to text instructing the model to fall back on prior knowledge.
func (a *Adapter) Search(ctx context.Context, query string) string {
	if a.provider == nil {
		return a.unavailableText(query)
	}

	results, err := a.provider.search(ctx, query)
	if err != nil {
		a.logger.Warn("web search failed",
			"provider", a.provider.name(),
			"query", query,
			"error", err)
		return a.failedText(err)
	}

	return formatResults(query, results)
}

func (a *Adapter) unavailableText(query string) string {
	return fmt.Sprintf(`[Search unavailable — no search API key configured]
The user asked about: %q
Please generate the DNA using your training knowledge, but mark sources as "AI Knowledge Base" with today's date (%s).
Note: In production, real web search would ground this data.`,
		query, a.now().Format("2006-01-02"))
}

func (a *Adapter) failedText(err error) string {
	return fmt.Sprintf(`[Search failed: %s]
Please generate the DNA using your training knowledge, but mark sources as "AI Knowledge Base (search unavailable)" with today's date (%s).`,
		err, a.now().Format("2006-01-02"))
}

// formatResults renders up to maxResults hits as a numbered list prefixed by
// the original query.
func formatResults(query string, results []Result) string {
	if len(results) == 0 {
		return fmt.Sprintf("No results found for: %q", query)
	}
	if len(results) > maxResults {
		results = results[:maxResults]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Search results for: %q\n", query)
	for i, r := range results {
		fmt.Fprintf(&b, "\n[%d] %s\n    URL: %s\n    %s\n", i+1, r.Title, r.URL, r.Snippet)
	}
	return b.String()
}
