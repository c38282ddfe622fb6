package generate

import (
	"github.com/Kesaramb/infographedia/core/providers"
)

// WebSearchToolName is the only tool offered to the model.
const WebSearchToolName = "web_search"

// WebSearchTool declares the web-search tool for model tool calling. The
// model calls it whenever it needs real-world data to ground the
// infographic.
func WebSearchTool() providers.Tool {
	return providers.Tool{
		Name: WebSearchToolName,
		Description: "Search the web for current, factual data to use in infographic generation. " +
			"Use this for any statistics, facts, numbers, or recent data the user requests. " +
			"Always search before generating data — never hallucinate numbers.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "The search query to find relevant data. Be specific — include the year, topic, and metric.",
				},
			},
			"required": []any{"query"},
		},
	}
}
