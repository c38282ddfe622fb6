// Package generate drives the DNA generation pipeline: a bounded
// tool-calling conversation with the model, schema validation of the final
// answer, and a single self-correction round on failure. The result is
// exclusively a validated complete document or a typed error, never a
// partial state.
package generate

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/tidwall/gjson"

	"github.com/Kesaramb/infographedia/core/config"
	"github.com/Kesaramb/infographedia/core/dna"
	"github.com/Kesaramb/infographedia/core/parse"
	"github.com/Kesaramb/infographedia/core/prompt"
	"github.com/Kesaramb/infographedia/core/providers"
	"github.com/Kesaramb/infographedia/core/search"
)

// Searcher executes one web search and always returns model-consumable
// text. *search.Adapter satisfies it.
type Searcher interface {
	Search(ctx context.Context, query string) string
}

var _ Searcher = (*search.Adapter)(nil)

// Generator orchestrates DNA generation. Safe for concurrent use; requests
// share nothing but the read-mostly config source.
type Generator struct {
	provider providers.Provider
	search   Searcher
	config   config.Source
	logger   *slog.Logger
}

// New creates a Generator. source may be nil, in which case the hardcoded
// defaults govern every call.
func New(provider providers.Provider, searcher Searcher, source config.Source, logger *slog.Logger) *Generator {
	if source == nil {
		source = &config.StaticSource{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		provider: provider,
		search:   searcher,
		config:   source,
		logger:   logger,
	}
}

// Generate turns a free-text user prompt (plus an optional parent document
// for iteration) into a validated DNA document. All failures are returned
// as *Error with a Stage; the model transport's errors never leak through
// untyped.
func (g *Generator) Generate(ctx context.Context, userPrompt string, parent *dna.DNA) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("generation panicked", "panic", r)
			result = nil
			err = stageError(StageAPI, "internal error: %v", r)
		}
	}()

	cfg, cfgErr := g.config.Load(ctx)
	if cfgErr != nil {
		g.logger.Warn("ai config unavailable, using defaults", "error", cfgErr)
		cfg = config.DefaultAIConfig()
	}

	userMessage := prompt.BuildNewPrompt(userPrompt)
	if parent != nil {
		userMessage = prompt.BuildIterationPrompt(userPrompt, parent)
	}

	var tools []providers.Tool
	if cfg.EnableWebSearch {
		tools = []providers.Tool{WebSearchTool()}
	}

	systemPrompt := prompt.BuildSystemPrompt(cfg)
	temperature := cfg.Temperature

	messages := []providers.Message{
		{Role: providers.RoleUser, Content: userMessage},
	}

	newRequest := func(withTools bool) *providers.Request {
		req := &providers.Request{
			Model:        cfg.Model,
			MaxTokens:    cfg.MaxTokens,
			Temperature:  &temperature,
			SystemPrompt: systemPrompt,
			Messages:     messages,
		}
		if withTools {
			req.Tools = tools
		}
		return req
	}

	g.logger.Info("generation started",
		"model", cfg.Model,
		"iteration", parent != nil,
		"web_search", cfg.EnableWebSearch)

	resp, callErr := g.provider.Generate(ctx, newRequest(true))
	if callErr != nil {
		return nil, stageError(StageAPI, "model API error: %v", callErr)
	}

	// Tool-calling loop: an explicit round counter with a hard upper bound,
	// so termination is structurally guaranteed.
	var searchQueries []string
	rounds := 0
	for resp.WantsTools() && rounds < cfg.MaxToolRounds {
		rounds++

		toolResults, queries := g.executeToolCalls(ctx, resp.ToolCalls)
		searchQueries = append(searchQueries, queries...)

		messages = append(messages, assistantTurn(resp))
		messages = append(messages, toolResults...)

		g.logger.Info("tool round complete", "round", rounds, "calls", len(resp.ToolCalls))

		resp, callErr = g.provider.Generate(ctx, newRequest(true))
		if callErr != nil {
			return nil, stageError(StageAPI, "model API error: %v", callErr)
		}
	}

	if resp.WantsTools() {
		g.logger.Warn("tool round budget exhausted", "rounds", rounds)
		return nil, stageError(StageToolLoop,
			"AI entered an infinite tool-calling loop. Please try a simpler prompt.")
	}

	if strings.TrimSpace(resp.Content) == "" {
		// Retrying the identical conversation is unlikely to change an
		// empty answer.
		return nil, stageError(StageParse, "AI returned an empty response. Please try again.")
	}

	doc, parseErr := parse.Parse(resp.Content)
	if parseErr == nil {
		g.logger.Info("generation succeeded",
			"title", doc.Content.Title,
			"chart_type", doc.Presentation.ChartType,
			"searches", len(searchQueries))
		return &Result{DNA: doc, SearchQueries: searchQueries}, nil
	}

	// Exactly one repair attempt. Tools are omitted: the repair step only
	// needs corrected text, not new searches.
	g.logger.Info("first answer rejected, attempting repair", "kind", parseErr.Kind)

	messages = append(messages,
		assistantTurn(resp),
		providers.Message{Role: providers.RoleUser, Content: parse.BuildCorrectionPrompt(parseErr)},
	)

	retryResp, callErr := g.provider.Generate(ctx, newRequest(false))
	if callErr != nil {
		return nil, stageError(StageAPI, "model API error: %v", callErr)
	}

	retryDoc, retryErr := parse.Parse(retryResp.Content)
	if retryErr == nil {
		g.logger.Info("generation succeeded after repair",
			"title", retryDoc.Content.Title,
			"chart_type", retryDoc.Presentation.ChartType,
			"searches", len(searchQueries))
		return &Result{DNA: retryDoc, SearchQueries: searchQueries}, nil
	}

	stage := StageValidation
	if retryErr.Kind == parse.KindInvalidJSON {
		stage = StageParse
	}
	g.logger.Warn("generation failed after repair", "stage", stage)
	return nil, stageError(stage, "Failed after retry: %s", retryErr.Message)
}

// executeToolCalls runs every tool invocation from one model turn. The
// calls are independent idempotent reads, so they run concurrently; results
// stay index-correlated to their invocation IDs and are submitted together.
func (g *Generator) executeToolCalls(ctx context.Context, calls []providers.ToolCall) ([]providers.Message, []string) {
	results := make([]providers.Message, len(calls))
	var queries []string

	var wg sync.WaitGroup
	for i, call := range calls {
		if call.Name != WebSearchToolName {
			results[i] = providers.Message{
				Role:       providers.RoleTool,
				ToolCallID: call.ID,
				Content:    "Unknown tool: " + call.Name,
				ToolError:  true,
			}
			continue
		}

		query := gjson.Get(call.Arguments, "query").String()
		if query == "" {
			results[i] = providers.Message{
				Role:       providers.RoleTool,
				ToolCallID: call.ID,
				Content:    "web_search requires a non-empty \"query\" argument",
				ToolError:  true,
			}
			continue
		}

		queries = append(queries, query)

		wg.Add(1)
		go func(i int, id, query string) {
			defer wg.Done()
			results[i] = providers.Message{
				Role:       providers.RoleTool,
				ToolCallID: id,
				Content:    g.search.Search(ctx, query),
			}
		}(i, call.ID, query)
	}
	wg.Wait()

	return results, queries
}

// assistantTurn converts a model response back into a history message.
func assistantTurn(resp *providers.Response) providers.Message {
	return providers.Message{
		Role:      providers.RoleAssistant,
		Content:   resp.Content,
		ToolCalls: resp.ToolCalls,
	}
}
