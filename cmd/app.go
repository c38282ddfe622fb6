// Package cmd provides CLI commands for the Infographedia service.
// This file holds application configuration and the shared pipeline wiring.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Kesaramb/infographedia/core/config"
	"github.com/Kesaramb/infographedia/core/generate"
	"github.com/Kesaramb/infographedia/core/providers"
	"github.com/Kesaramb/infographedia/core/search"
)

// =============================================================================
// Application Configuration
// =============================================================================

const (
	// DefaultAddr is the default HTTP listen address.
	DefaultAddr = ":8080"

	// DefaultDBPath is the default SQLite post database location.
	DefaultDBPath = ".infographedia/posts.db"
)

// AppConfig is the process-level configuration: provider selection,
// credentials, server settings, and the path to the admin-editable AI
// config. Credentials come from the environment; the file never holds keys.
type AppConfig struct {
	// Provider selects the model backend: "anthropic" or "openai".
	Provider providers.ProviderType `yaml:"provider"`

	// Model overrides the AI config's model when set.
	Model string `yaml:"model"`

	// Addr is the HTTP listen address.
	Addr string `yaml:"addr"`

	// DBPath is the SQLite post database path.
	DBPath string `yaml:"db_path"`

	// AIConfigPath points at the admin-editable AI config YAML. Empty means
	// hardcoded defaults.
	AIConfigPath string `yaml:"ai_config_path"`

	// GenerateTimeout bounds one generation request.
	GenerateTimeout time.Duration `yaml:"generate_timeout"`

	// Credentials, environment-only.
	AnthropicAPIKey string `yaml:"-"`
	OpenAIAPIKey    string `yaml:"-"`
	BraveAPIKey     string `yaml:"-"`
	SerpAPIKey      string `yaml:"-"`
}

// DefaultAppConfig returns the built-in defaults.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Provider: providers.ProviderTypeAnthropic,
		Addr:     DefaultAddr,
		DBPath:   DefaultDBPath,
	}
}

// LoadAppConfig layers an optional YAML file over the defaults, then applies
// environment overrides. path may be empty.
func LoadAppConfig(path string) (*AppConfig, error) {
	cfg := DefaultAppConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("app config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("app config: %w", err)
		}
	}

	if v := os.Getenv("INFOGRAPHEDIA_PROVIDER"); v != "" {
		cfg.Provider = providers.ProviderType(v)
	}
	if v := os.Getenv("INFOGRAPHEDIA_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("INFOGRAPHEDIA_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	cfg.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.BraveAPIKey = os.Getenv("BRAVE_SEARCH_API_KEY")
	cfg.SerpAPIKey = os.Getenv("SERPAPI_API_KEY")

	switch cfg.Provider {
	case providers.ProviderTypeAnthropic, providers.ProviderTypeOpenAI:
	default:
		return nil, fmt.Errorf("app config: unknown provider %q", cfg.Provider)
	}

	return cfg, nil
}

// =============================================================================
// Pipeline Wiring
// =============================================================================

// buildProvider constructs the selected model provider from credentials.
func buildProvider(cfg *AppConfig) (providers.Provider, error) {
	switch cfg.Provider {
	case providers.ProviderTypeOpenAI:
		pc := providers.DefaultOpenAIConfig()
		pc.APIKey = cfg.OpenAIAPIKey
		if cfg.Model != "" {
			pc.Model = cfg.Model
		}
		return providers.NewOpenAIProvider(pc)
	default:
		pc := providers.DefaultAnthropicConfig()
		pc.APIKey = cfg.AnthropicAPIKey
		if cfg.Model != "" {
			pc.Model = cfg.Model
		}
		return providers.NewAnthropicProvider(pc)
	}
}

// buildConfigSource constructs the AI config source: a TTL-cached file
// source with a change watcher when a path is configured, hardcoded defaults
// otherwise. The watcher goroutine runs until stop closes.
func buildConfigSource(cfg *AppConfig, stop <-chan struct{}, logger *slog.Logger) config.Source {
	if cfg.AIConfigPath == "" {
		return &config.StaticSource{}
	}

	fileSrc := &config.FileSource{Path: cfg.AIConfigPath}
	cached := config.NewCachedSource(fileSrc, config.DefaultTTL, logger)

	go func() {
		if err := fileSrc.Watch(stop, cached, logger); err != nil {
			logger.Warn("ai config watcher stopped", "error", err)
		}
	}()

	return cached
}

// buildGenerator wires the full generation pipeline.
func buildGenerator(cfg *AppConfig, stop <-chan struct{}, logger *slog.Logger) (*generate.Generator, error) {
	provider, err := buildProvider(cfg)
	if err != nil {
		return nil, err
	}

	searcher := search.NewAdapter(search.Config{
		BraveAPIKey: cfg.BraveAPIKey,
		SerpAPIKey:  cfg.SerpAPIKey,
	}, logger)

	source := buildConfigSource(cfg, stop, logger)

	return generate.New(provider, searcher, source, logger), nil
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}
