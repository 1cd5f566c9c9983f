package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "https://graph.facebook.com", cfg.Graph.BaseURL)
	assert.Equal(t, 25, cfg.Graph.MediaLimit)
	assert.Equal(t, "instagram-insights", cfg.Kafka.InsightsTopic)
	assert.Equal(t, "http://localhost:3000", cfg.Frontend.BaseURL)
	assert.Contains(t, cfg.OAuth.Scopes, "instagram_basic")
	assert.True(t, cfg.Elastic.Enable)
	assert.False(t, cfg.MinIO.Enable)
}

func TestLoadConfig_DisableElastic(t *testing.T) {
	t.Setenv("INSTAGRAPH_ELASTIC_ENABLE", "false")
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.False(t, cfg.Elastic.Enable)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	content := []byte(`
server:
  port: 9090
llm:
  model: gpt-4o-mini
frontend:
  base_url: https://dash.example.com
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o600))

	t.Setenv("INSTAGRAPH_LLM_API_KEY", "sk-test")
	t.Setenv("INSTAGRAPH_SERVER_PORT", "7070")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, "sk-test", cfg.LLM.ApiKey)
	assert.Equal(t, "https://dash.example.com", cfg.Frontend.BaseURL)
}

func TestLoadConfig_BrokenFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [\n"), 0o600))

	_, err := LoadConfig(dir)
	assert.Error(t, err)
}
