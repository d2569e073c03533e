package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromPathCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.FileExists(t, path)
	assert.Equal(t, "anthropic", cfg.LLM.DefaultProvider)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Analysis.SaveHistory)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromPathReadsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `llm:
  default_provider: openai
  providers:
    openai:
      model: gpt-custom
logging:
  level: debug
server:
  port: 9999
store:
  data_dir: /tmp/docsight-test
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.LLM.DefaultProvider)
	assert.Equal(t, "gpt-custom", cfg.LLM.Providers["openai"].Model)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "/tmp/docsight-test", cfg.Store.DataDir)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())

	cfg.LLM.DefaultProvider = ""
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Logging.Level = "loud"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Server.Port = 70000
	assert.Error(t, cfg.Validate())
}

func TestProviderAPIKeyPrefersFile(t *testing.T) {
	cfg := Default()
	cfg.LLM.Providers["anthropic"] = ProviderConfig{APIKey: "from-file"}
	t.Setenv("ANTHROPIC_API_KEY", "from-env")

	assert.Equal(t, "from-file", cfg.ProviderAPIKey("anthropic"))
}

func TestProviderAPIKeyFallsBackToEnv(t *testing.T) {
	cfg := Default()
	t.Setenv("GROQ_API_KEY", "gsk_test")

	assert.Equal(t, "gsk_test", cfg.ProviderAPIKey("groq"))
	assert.Empty(t, cfg.ProviderAPIKey("unknown-provider"))
}

func TestBackendConfig(t *testing.T) {
	cfg := Default()
	cfg.LLM.Providers["openai"] = ProviderConfig{
		APIKey:   "file-key",
		Model:    "gpt-custom",
		Endpoint: "https://proxy.example.com/v1",
	}
	cfg.Analysis.MaxTokens = 800

	backend := cfg.BackendConfig("openai")
	assert.Equal(t, "openai", backend.Name)
	assert.Equal(t, "file-key", backend.APIKey)
	assert.Equal(t, "gpt-custom", backend.Model)
	assert.Equal(t, "https://proxy.example.com/v1", backend.Endpoint)
	assert.Equal(t, 800, backend.MaxTokens)
}

func TestBackendConfigDefaultsProvider(t *testing.T) {
	cfg := Default()

	backend := cfg.BackendConfig("")
	assert.Equal(t, cfg.LLM.DefaultProvider, backend.Name)
	assert.Equal(t, 1500, backend.MaxTokens)
	assert.NotEmpty(t, backend.Endpoint)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Server.Port = 8999
	require.NoError(t, cfg.SaveToPath(path))

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, 8999, loaded.Server.Port)
}
