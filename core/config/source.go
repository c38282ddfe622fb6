package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"gopkg.in/yaml.v3"
)

// Source is the read interface the orchestrator loads AIConfig through.
type Source interface {
	Load(ctx context.Context) (*AIConfig, error)
}

// StaticSource always returns the same config. Used for defaults and tests.
type StaticSource struct {
	Config *AIConfig
}

func (s *StaticSource) Load(_ context.Context) (*AIConfig, error) {
	if s.Config == nil {
		return DefaultAIConfig(), nil
	}
	return s.Config, nil
}

// FileSource reads the admin-edited AIConfig from a YAML file, layered over
// the defaults so absent fields keep their default values.
type FileSource struct {
	Path string
}

func (f *FileSource) Load(_ context.Context) (*AIConfig, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("ai config: %w", err)
	}

	cfg := DefaultAIConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("ai config: %w", err)
	}

	// Empty allow-lists mean "unrestricted", not "nothing allowed".
	if len(cfg.AllowedChartTypes) == 0 {
		cfg.AllowedChartTypes = DefaultAIConfig().AllowedChartTypes
	}
	if len(cfg.AllowedThemes) == 0 {
		cfg.AllowedThemes = DefaultAIConfig().AllowedThemes
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("ai config: %w", err)
	}
	return cfg, nil
}

// DefaultTTL is how long a loaded config is served before re-reading the
// source. Generation tolerates a slightly stale config.
const DefaultTTL = 30 * time.Second

const cacheKey = "ai-config"

// CachedSource wraps a Source with a TTL cache. Load never fails: when the
// underlying source errors, it logs and serves the hardcoded defaults.
type CachedSource struct {
	src    Source
	cache  *expirable.LRU[string, *AIConfig]
	logger *slog.Logger
}

// NewCachedSource creates a CachedSource with the given TTL (DefaultTTL when
// ttl is zero).
func NewCachedSource(src Source, ttl time.Duration, logger *slog.Logger) *CachedSource {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedSource{
		src:    src,
		cache:  expirable.NewLRU[string, *AIConfig](1, nil, ttl),
		logger: logger,
	}
}

func (c *CachedSource) Load(ctx context.Context) (*AIConfig, error) {
	if cfg, ok := c.cache.Get(cacheKey); ok {
		return cfg, nil
	}

	cfg, err := c.src.Load(ctx)
	if err != nil {
		c.logger.Warn("ai config unavailable, using defaults", "error", err)
		return DefaultAIConfig(), nil
	}

	c.cache.Add(cacheKey, cfg)
	return cfg, nil
}

// Invalidate drops the cached config so the next Load re-reads the source.
func (c *CachedSource) Invalidate() {
	c.cache.Purge()
}
