package v1

import "go.uber.org/zap"

type clientConfig struct {
	embedder Embedder
	index    VectorIndex
	logger   *zap.Logger
}

// Option configures the client.
type Option func(*clientConfig)

// WithEmbedder sets the embedding backend. Without one the client
// answers through keyword classification only.
func WithEmbedder(e Embedder) Option {
	return func(c *clientConfig) { c.embedder = e }
}

// WithIndex overrides the default exact in-memory index.
func WithIndex(idx VectorIndex) Option {
	return func(c *clientConfig) { c.index = idx }
}

// WithLogger sets the logger; the default is a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *clientConfig) { c.logger = log }
}
