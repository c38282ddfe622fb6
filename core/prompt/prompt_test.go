package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kesaramb/infographedia/core/config"
	"github.com/Kesaramb/infographedia/core/dna"
)

func TestBuildSystemPromptDefaults(t *testing.T) {
	got := BuildSystemPrompt(config.DefaultAIConfig())

	assert.True(t, strings.HasPrefix(got, DefaultSystemPrompt))
	// Unrestricted allow-lists add no constraint lines.
	assert.NotContains(t, got, "ALLOWED CHART TYPES")
	assert.NotContains(t, got, "ALLOWED THEMES")
	assert.NotContains(t, got, "EXAMPLES:")
}

func TestBuildSystemPromptCustomBase(t *testing.T) {
	cfg := config.DefaultAIConfig()
	cfg.SystemPrompt = "You only speak JSON."

	got := BuildSystemPrompt(cfg)
	assert.True(t, strings.HasPrefix(got, "You only speak JSON."))
	assert.NotContains(t, got, DefaultSystemPrompt)
}

func TestBuildSystemPromptAllowLists(t *testing.T) {
	cfg := config.DefaultAIConfig()
	cfg.AllowedChartTypes = []string{"bar-chart", "pie-chart"}
	cfg.AllowedThemes = []string{"minimalist"}

	got := BuildSystemPrompt(cfg)
	assert.Contains(t, got, "ALLOWED CHART TYPES: only use these chartType values: bar-chart, pie-chart")
	assert.Contains(t, got, "ALLOWED THEMES: only use these theme values: minimalist")
}

func TestBuildSystemPromptFewShot(t *testing.T) {
	cfg := config.DefaultAIConfig()
	cfg.FewShotExamples = []config.FewShotExample{
		{Label: "stat card", DNAJSON: `{"content": {"title": "CO2 per capita"}}`},
		{Label: "timeline", DNAJSON: `{"content": {"title": "Space race"}}`},
	}

	got := BuildSystemPrompt(cfg)
	assert.Contains(t, got, "EXAMPLES:")
	assert.Contains(t, got, "Example (stat card):\n"+cfg.FewShotExamples[0].DNAJSON)
	assert.Contains(t, got, "Example (timeline):\n"+cfg.FewShotExamples[1].DNAJSON)

	// Order is preserved.
	assert.Less(t,
		strings.Index(got, "Example (stat card)"),
		strings.Index(got, "Example (timeline)"))
}

func TestBuildNewPrompt(t *testing.T) {
	got := BuildNewPrompt("top 5 tallest buildings")
	assert.Contains(t, got, "top 5 tallest buildings")
	assert.Contains(t, got, "Search for real data first")
}

func TestBuildIterationPrompt(t *testing.T) {
	parent := &dna.DNA{
		Content: dna.Content{
			Title: "Tallest Buildings in the World",
			Data:  []dna.DataPoint{{Label: "Burj Khalifa", Value: dna.Number(828), Unit: "m"}},
			Sources: []dna.Source{
				{Name: "CTBUH", URL: "https://www.ctbuh.org", AccessedAt: "2026-01-20"},
			},
		},
		Presentation: dna.Presentation{
			Theme:      dna.ThemeMinimalist,
			ChartType:  dna.ChartBar,
			Layout:     dna.LayoutCentered,
			Colors:     dna.Colors{Primary: "#333333", Background: "#ffffff", Text: "#1a1a1a"},
			Components: []dna.ComponentSlot{{Type: "title"}, {Type: "bar-chart"}, {Type: "source-badge"}},
		},
	}

	got := BuildIterationPrompt("make it ocean-depth themed", parent)

	require.Contains(t, got, "PARENT DNA")
	assert.Contains(t, got, `"title": "Tallest Buildings in the World"`)
	assert.Contains(t, got, `"Burj Khalifa"`)
	assert.Contains(t, got, "USER REQUEST: make it ocean-depth themed")
	assert.Contains(t, got, "Only change what the user asked for")
}
