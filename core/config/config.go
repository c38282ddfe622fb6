// Package config holds the admin-tunable generation parameters (AIConfig)
// and the read interface the orchestrator loads them through. The pipeline
// works against hardcoded defaults whenever the configured source is
// unavailable.
package config

import (
	"fmt"

	"github.com/Kesaramb/infographedia/core/dna"
)

// FewShotExample is one labeled example DNA document appended to the system
// prompt. DNAJSON is stored as raw JSON text so admins can paste documents
// without re-encoding.
type FewShotExample struct {
	Label   string `json:"label" yaml:"label"`
	DNAJSON string `json:"dnaJson" yaml:"dna_json"`
}

// AIConfig governs every generation call.
type AIConfig struct {
	// Model is the model identifier passed to the provider.
	Model string `json:"model" yaml:"model"`

	// Temperature is the sampling temperature (0.0-2.0).
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// MaxTokens bounds the model's output per call.
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// MaxToolRounds bounds the tool-calling loop.
	MaxToolRounds int `json:"max_tool_rounds" yaml:"max_tool_rounds"`

	// EnableWebSearch controls whether the web-search tool is offered.
	EnableWebSearch bool `json:"enable_web_search" yaml:"enable_web_search"`

	// SystemPrompt overrides the built-in base instruction text when set.
	SystemPrompt string `json:"system_prompt,omitempty" yaml:"system_prompt,omitempty"`

	// AllowedChartTypes restricts chart types at generation time. Enforced
	// by prompting, not schema.
	AllowedChartTypes []string `json:"allowed_chart_types" yaml:"allowed_chart_types"`

	// AllowedThemes restricts themes the same way.
	AllowedThemes []string `json:"allowed_themes" yaml:"allowed_themes"`

	// FewShotExamples are appended to the system prompt in order.
	FewShotExamples []FewShotExample `json:"few_shot_examples,omitempty" yaml:"few_shot_examples,omitempty"`
}

// DefaultAIConfig returns the hardcoded defaults the pipeline falls back to.
func DefaultAIConfig() *AIConfig {
	return &AIConfig{
		Model:             "claude-sonnet-4-20250514",
		Temperature:       1.0,
		MaxTokens:         4096,
		MaxToolRounds:     5,
		EnableWebSearch:   true,
		AllowedChartTypes: dna.ChartTypeNames(),
		AllowedThemes:     dna.ThemeNames(),
	}
}

// Validate checks the configuration bounds.
func (c *AIConfig) Validate() error {
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got %v", c.Temperature)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive, got %d", c.MaxTokens)
	}
	if c.MaxToolRounds <= 0 {
		return fmt.Errorf("max_tool_rounds must be positive, got %d", c.MaxToolRounds)
	}
	if len(c.AllowedChartTypes) == 0 {
		return fmt.Errorf("allowed_chart_types must not be empty")
	}
	if len(c.AllowedThemes) == 0 {
		return fmt.Errorf("allowed_themes must not be empty")
	}
	return nil
}
