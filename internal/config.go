package internal

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type EmbeddingsConfig struct {
	BaseURL   string `yaml:"base_url,omitempty"`
	Model     string `yaml:"model"`
	Dimension int    `yaml:"dimension"`
	APIKeyEnv string `yaml:"api_key_env"`
}

type IndexConfig struct {
	// Backend is "flat" (exact, default) or "annoy" (approximate).
	Backend string `yaml:"backend"`
	Trees   int    `yaml:"trees,omitempty"`
}

type ProviderConfig struct {
	APIKey    string `yaml:"api_key,omitempty"`
	APIKeyEnv string `yaml:"api_key_env,omitempty"`
	BaseURL   string `yaml:"base_url,omitempty"`
	Model     string `yaml:"model"`
}

type MarketDataConfig struct {
	APIKeyEnv string `yaml:"api_key_env"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type Config struct {
	Server          ServerConfig              `yaml:"server"`
	Embeddings      EmbeddingsConfig          `yaml:"embeddings"`
	Index           IndexConfig               `yaml:"index"`
	Providers       map[string]ProviderConfig `yaml:"providers,omitempty"`
	DefaultProvider string                    `yaml:"default_provider,omitempty"`
	MarketData      MarketDataConfig          `yaml:"market_data"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8000"},
		Embeddings: EmbeddingsConfig{
			Model:     "text-embedding-3-small",
			Dimension: 1536,
			APIKeyEnv: "OPENAI_API_KEY",
		},
		Index: IndexConfig{Backend: "flat"},
		Providers: map[string]ProviderConfig{
			"deepseek": {APIKeyEnv: "DEEPSEEK_API_KEY", Model: "deepseek-chat"},
		},
		DefaultProvider: "deepseek",
		MarketData:      MarketDataConfig{APIKeyEnv: "FMP_API_KEY"},
	}
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8000"
	}
	if cfg.Index.Backend == "" {
		cfg.Index.Backend = "flat"
	}
	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderConfig)
	}

	return &cfg, nil
}

// ResolveAPIKey resolves a provider key, preferring the literal value
// over the environment variable.
func (p ProviderConfig) ResolveAPIKey() string {
	if p.APIKey != "" {
		return p.APIKey
	}
	if p.APIKeyEnv != "" {
		return os.Getenv(p.APIKeyEnv)
	}
	return ""
}

// NewIndex builds the vector index the config asks for.
func (c *Config) NewIndex(log *zap.Logger) (VectorIndex, error) {
	switch c.Index.Backend {
	case "", "flat":
		return NewFlatIndex(0), nil
	case "annoy":
		if c.Embeddings.Dimension <= 0 {
			return nil, fmt.Errorf("annoy index requires embeddings.dimension")
		}
		return NewAnnoyIndex(c.Embeddings.Dimension, c.Index.Trees)
	default:
		return nil, fmt.Errorf("unknown index backend: %s", c.Index.Backend)
	}
}

// NewEmbedder builds the embeddings client, or returns nil when no API
// key is available so the engine degrades to rule-based answering.
func (c *Config) NewEmbedder(log *zap.Logger) Embedder {
	key := os.Getenv(c.Embeddings.APIKeyEnv)
	if key == "" {
		if log != nil {
			log.Warn("embeddings API key not set, semantic retrieval disabled",
				zap.String("env", c.Embeddings.APIKeyEnv))
		}
		return nil
	}
	embedder, err := NewOpenAIEmbedder(OpenAIEmbedderConfig{
		BaseURL:   c.Embeddings.BaseURL,
		APIKey:    key,
		Model:     c.Embeddings.Model,
		Dimension: c.Embeddings.Dimension,
	})
	if err != nil {
		if log != nil {
			log.Warn("embedder unavailable, semantic retrieval disabled", zap.Error(err))
		}
		return nil
	}
	return embedder
}
