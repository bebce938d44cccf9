package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, "flat", cfg.Index.Backend)
	assert.Equal(t, "deepseek", cfg.DefaultProvider)
	assert.Equal(t, "OPENAI_API_KEY", cfg.Embeddings.APIKeyEnv)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9001"
embeddings:
  model: custom-model
  dimension: 8
  api_key_env: CUSTOM_KEY
index:
  backend: annoy
  trees: 25
providers:
  deepseek:
    model: deepseek-chat
    api_key_env: DEEPSEEK_API_KEY
default_provider: deepseek
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":9001", cfg.Server.Addr)
	assert.Equal(t, "annoy", cfg.Index.Backend)
	assert.Equal(t, 25, cfg.Index.Trees)
	assert.Equal(t, 8, cfg.Embeddings.Dimension)
	assert.Equal(t, "deepseek-chat", cfg.Providers["deepseek"].Model)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [broken"), 0o644))
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestConfigNewIndex(t *testing.T) {
	cfg := DefaultConfig()

	idx, err := cfg.NewIndex(nil)
	require.NoError(t, err)
	assert.IsType(t, &FlatIndex{}, idx)

	cfg.Index.Backend = "annoy"
	idx, err = cfg.NewIndex(nil)
	require.NoError(t, err)
	assert.IsType(t, &AnnoyIndex{}, idx)

	cfg.Embeddings.Dimension = 0
	_, err = cfg.NewIndex(nil)
	assert.Error(t, err)

	cfg.Index.Backend = "hnsw"
	_, err = cfg.NewIndex(nil)
	assert.Error(t, err)
}

func TestConfigNewEmbedderWithoutKey(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Embeddings.APIKeyEnv = "PEERSCOPE_TEST_ABSENT_KEY"
	assert.Nil(t, cfg.NewEmbedder(nil))
}

func TestConfigNewEmbedderWithKey(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Embeddings.APIKeyEnv = "PEERSCOPE_TEST_KEY"
	t.Setenv("PEERSCOPE_TEST_KEY", "secret")
	assert.NotNil(t, cfg.NewEmbedder(nil))
}

func TestProviderConfigResolveAPIKey(t *testing.T) {
	assert.Equal(t, "literal", ProviderConfig{APIKey: "literal", APIKeyEnv: "IGNORED"}.ResolveAPIKey())

	t.Setenv("PEERSCOPE_PROVIDER_KEY", "from-env")
	assert.Equal(t, "from-env", ProviderConfig{APIKeyEnv: "PEERSCOPE_PROVIDER_KEY"}.ResolveAPIKey())

	assert.Empty(t, ProviderConfig{}.ResolveAPIKey())
}
