// Package prompt assembles the system instructions and per-call user
// messages for DNA generation. System text is stable policy; user messages
// carry the task, so the same generation loop serves both "create" and
// "iterate" with no branching beyond which builder is called.
package prompt

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Kesaramb/infographedia/core/config"
	"github.com/Kesaramb/infographedia/core/dna"
)

// fewShotWarnBytes is the example payload size above which assembly logs a
// scaling warning. Examples are never truncated; truncation would silently
// change behavior.
const fewShotWarnBytes = 64 * 1024

// DefaultSystemPrompt is the base instruction text: the full schema
// description, theme color guidelines, and per-chart-type authoring rules.
const DefaultSystemPrompt = `You are a JSON Architect for Infographedia, an AI-powered infographic platform.
Your ONLY job is to generate structured infographic DNA as valid JSON.

RULES:
1. You MUST output ONLY valid JSON matching the DNA schema below. No markdown, no explanation, no code fences — just pure JSON.
2. If the user requests data (statistics, facts, numbers), you MUST call the web_search tool FIRST to find real, current data. NEVER hallucinate numbers.
3. If the user only requests style changes (colors, theme, chart type), do NOT search. Reuse the existing content data.
4. Every DNA output MUST have at least one source in content.sources[].
5. When iterating on a parent DNA, MUTATE the relevant fields. Do not rebuild from scratch unless the topic changes entirely.
6. Data array must have at least 1 item. Each item needs a "label" (string) and "value" (number).
7. The "components" array defines the rendering order. Always include at minimum: title, the chart type, and source-badge.
8. All hex colors must be exactly 6 digits with # prefix (e.g. #1a1a2e).

DNA SCHEMA:
{
  "content": {
    "title": "string (1-120 chars, the main headline)",
    "subtitle": "string (optional, max 200 chars, supporting context)",
    "hook": "string (optional, max 100 chars, a punchy one-line finding)",
    "data": [
      {
        "label": "string (category or axis label)",
        "value": "number (the data point value)",
        "unit": "string (optional, e.g. '%', 'M', 'GW')",
        "metadata": { "key": "value" } // optional, used for grouping in grouped-bar-chart
      }
    ],
    "sources": [
      {
        "name": "string (source display name)",
        "url": "string (valid URL)",
        "accessedAt": "YYYY-MM-DD"
      }
    ],
    "footnotes": "string (optional, max 500 chars, additional context or caveats)"
  },
  "presentation": {
    "theme": "glass-dark | glass-light | neon-cyberpunk | minimalist | editorial | warm-earth | ocean-depth",
    "chartType": "bar-chart | pie-chart | line-chart | area-chart | timeline | stat-card | grouped-bar-chart | donut-chart",
    "layout": "centered | left-aligned | split | stacked",
    "colors": {
      "primary": "#hex6 (main data color)",
      "secondary": "#hex6 (optional, second data series)",
      "background": "#hex6 (card background)",
      "text": "#hex6 (text color)",
      "accent": "#hex6 (optional, highlights)"
    },
    "components": [
      { "type": "title | subtitle | [chartType] | footnote | source-badge" }
    ]
  }
}

THEME COLOR GUIDELINES:
- glass-dark: dark bg (#0a0a0f to #1a1a2e), light text (#e0e0e0+), vibrant primary
- glass-light: light bg (#f0f0f5 to #ffffff), dark text (#1a1a2e), subtle primary
- neon-cyberpunk: very dark bg (#0d0d1a), neon primary (#00ff88, #ff00ff, #00ffff)
- minimalist: white bg (#ffffff), near-black text (#1a1a1a), muted primary
- editorial: warm bg (#faf5ef to #fef9f0), dark text (#2d1b0e), deep primary (#8b2500)
- warm-earth: dark warm bg (#1a1508), warm text (#d4c5a0), earthy primary (#4a7c3f)
- ocean-depth: deep blue bg (#0a1628), blue-white text (#b0c4de), teal primary (#1a8a7d)

STAT-CARD NOTES:
- For stat-card, the data array should have exactly 1 item
- The value should be the main statistic (e.g., 4.88 for "$4.88M")
- Use the unit field for the unit display (e.g., "M", "%", "B")

TIMELINE NOTES:
- For timeline, each data point's label is the event name
- The value is the year (e.g., 2020)
- Data points are rendered chronologically

GROUPED-BAR-CHART NOTES:
- Each data point needs metadata.group to define the grouping
- Labels should include the group (e.g., "India 2020", "India 2026")
- Groups are extracted from metadata and shown as separate bar series`

// BuildSystemPrompt composes the system message for one generation call:
// the configured (or default) base text, allow-list constraint lines when
// the admin restricted chart types or themes, and any few-shot examples as
// labeled JSON blocks.
func BuildSystemPrompt(cfg *config.AIConfig) string {
	base := cfg.SystemPrompt
	if base == "" {
		base = DefaultSystemPrompt
	}

	var b strings.Builder
	b.WriteString(base)

	if len(cfg.AllowedChartTypes) > 0 && len(cfg.AllowedChartTypes) < len(dna.AllChartTypes) {
		b.WriteString("\n\nALLOWED CHART TYPES: only use these chartType values: ")
		b.WriteString(strings.Join(cfg.AllowedChartTypes, ", "))
	}

	if len(cfg.AllowedThemes) > 0 && len(cfg.AllowedThemes) < len(dna.AllThemes) {
		b.WriteString("\n\nALLOWED THEMES: only use these theme values: ")
		b.WriteString(strings.Join(cfg.AllowedThemes, ", "))
	}

	if len(cfg.FewShotExamples) > 0 {
		b.WriteString("\n\nEXAMPLES:")
		exampleBytes := 0
		for _, ex := range cfg.FewShotExamples {
			exampleBytes += len(ex.DNAJSON)
			fmt.Fprintf(&b, "\n\nExample (%s):\n%s", ex.Label, ex.DNAJSON)
		}
		if exampleBytes > fewShotWarnBytes {
			slog.Warn("few-shot examples exceed practical prompt size",
				"bytes", exampleBytes,
				"examples", len(cfg.FewShotExamples))
		}
	}

	return b.String()
}

// BuildNewPrompt builds the user message for a new generation (no parent).
func BuildNewPrompt(userPrompt string) string {
	return fmt.Sprintf(`Create an infographic about: %s

Search for real data first, then generate the DNA JSON.`, userPrompt)
}

// BuildIterationPrompt builds the user message for an iteration. The parent
// document is embedded verbatim; the model is told to mutate only what the
// user asked for and keep the parent's data unless new data is required.
func BuildIterationPrompt(userPrompt string, parent *dna.DNA) string {
	parentJSON, _ := json.MarshalIndent(parent, "", "  ")

	return fmt.Sprintf(`PARENT DNA (the infographic being iterated on):
%s

USER REQUEST: %s

Generate the mutated DNA. Only change what the user asked for. Keep everything else from the parent.
If the user requests new data, search for it. If they only want style changes, reuse the parent's content.data.`,
		parentJSON, userPrompt)
}
