package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kesaramb/infographedia/core/dna"
)

func TestDefaultAIConfig(t *testing.T) {
	cfg := DefaultAIConfig()

	assert.Equal(t, "claude-sonnet-4-20250514", cfg.Model)
	assert.Equal(t, 1.0, cfg.Temperature)
	assert.Equal(t, 4096, cfg.MaxTokens)
	assert.Equal(t, 5, cfg.MaxToolRounds)
	assert.True(t, cfg.EnableWebSearch)
	assert.Equal(t, dna.ChartTypeNames(), cfg.AllowedChartTypes)
	assert.Equal(t, dna.ThemeNames(), cfg.AllowedThemes)
	require.NoError(t, cfg.Validate())
}

func TestAIConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AIConfig)
	}{
		{"negative temperature", func(c *AIConfig) { c.Temperature = -0.1 }},
		{"temperature above 2", func(c *AIConfig) { c.Temperature = 2.5 }},
		{"zero max tokens", func(c *AIConfig) { c.MaxTokens = 0 }},
		{"zero tool rounds", func(c *AIConfig) { c.MaxToolRounds = 0 }},
		{"empty chart types", func(c *AIConfig) { c.AllowedChartTypes = nil }},
		{"empty themes", func(c *AIConfig) { c.AllowedThemes = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultAIConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestStaticSource(t *testing.T) {
	src := &StaticSource{}
	cfg, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultAIConfig(), cfg)

	custom := DefaultAIConfig()
	custom.Model = "gpt-4o"
	src = &StaticSource{Config: custom}
	cfg, err = src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", cfg.Model)
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ai.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileSourceLayersOverDefaults(t *testing.T) {
	path := writeConfigFile(t, `
model: claude-opus-4-20250514
temperature: 0.7
allowed_chart_types:
  - bar-chart
  - stat-card
`)

	cfg, err := (&FileSource{Path: path}).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "claude-opus-4-20250514", cfg.Model)
	assert.Equal(t, 0.7, cfg.Temperature)
	assert.Equal(t, []string{"bar-chart", "stat-card"}, cfg.AllowedChartTypes)

	// Fields the file omits keep their defaults.
	assert.Equal(t, 4096, cfg.MaxTokens)
	assert.Equal(t, 5, cfg.MaxToolRounds)
	assert.Equal(t, dna.ThemeNames(), cfg.AllowedThemes)
}

func TestFileSourceEmptyAllowListsMeanUnrestricted(t *testing.T) {
	path := writeConfigFile(t, `
allowed_chart_types: []
allowed_themes: []
`)

	cfg, err := (&FileSource{Path: path}).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, dna.ChartTypeNames(), cfg.AllowedChartTypes)
	assert.Equal(t, dna.ThemeNames(), cfg.AllowedThemes)
}

func TestFileSourceRejectsInvalidConfig(t *testing.T) {
	path := writeConfigFile(t, "temperature: 9.0\n")
	_, err := (&FileSource{Path: path}).Load(context.Background())
	assert.Error(t, err)
}

func TestFileSourceMissingFile(t *testing.T) {
	_, err := (&FileSource{Path: filepath.Join(t.TempDir(), "absent.yaml")}).Load(context.Background())
	assert.Error(t, err)
}

// countingSource tracks how often the underlying source is hit.
type countingSource struct {
	loads int
	cfg   *AIConfig
	err   error
}

func (c *countingSource) Load(_ context.Context) (*AIConfig, error) {
	c.loads++
	if c.err != nil {
		return nil, c.err
	}
	return c.cfg, nil
}

func TestCachedSourceServesFromCache(t *testing.T) {
	inner := &countingSource{cfg: DefaultAIConfig()}
	cached := NewCachedSource(inner, time.Minute, nil)

	for i := 0; i < 3; i++ {
		cfg, err := cached.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, inner.cfg, cfg)
	}
	assert.Equal(t, 1, inner.loads)
}

func TestCachedSourceInvalidate(t *testing.T) {
	inner := &countingSource{cfg: DefaultAIConfig()}
	cached := NewCachedSource(inner, time.Minute, nil)

	_, err := cached.Load(context.Background())
	require.NoError(t, err)
	cached.Invalidate()
	_, err = cached.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, inner.loads)
}

func TestCachedSourceFallsBackToDefaults(t *testing.T) {
	inner := &countingSource{err: os.ErrNotExist}
	cached := NewCachedSource(inner, time.Minute, nil)

	cfg, err := cached.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultAIConfig(), cfg)

	// Failures are not cached; the next Load retries the source.
	_, err = cached.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, inner.loads)
}
