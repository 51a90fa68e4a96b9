package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	path := writeTestConfig(t, `
app:
  name: marklet-proxy
apis:
  genai:
    base_url: "https://genai.example.com/v1"
  web_search:
    base_url: "https://search.example.com/v1"
`)

	cfg, err := LoadFromFile(path)

	assert.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "*", cfg.Server.AllowOrigin)
	assert.Equal(t, 100, cfg.Pipeline.HistoryWindow)
	assert.Equal(t, 1024, cfg.Pipeline.MaxTokens)
	assert.Equal(t, 0.7, cfg.Pipeline.Temperature)
	assert.Equal(t, 24, cfg.Pipeline.TitleMaxTokens)
	assert.Equal(t, 0.3, cfg.Pipeline.TitleTemperature)
	assert.Equal(t, "javascript bookmarklet ", cfg.Pipeline.SearchQualifier)
	assert.NotEmpty(t, cfg.Pipeline.SearchTriggers)
	assert.NotEmpty(t, cfg.Pipeline.NetworkPatterns)
	assert.NotEmpty(t, cfg.Pipeline.SensitiveKeywords)
	assert.Equal(t, 4, cfg.APIs.WebSearch.MaxResults)
}

func TestLoadFromFile_ExplicitValuesWin(t *testing.T) {
	path := writeTestConfig(t, `
server:
  port: 9090
apis:
  genai:
    base_url: "https://genai.example.com/v1"
    model: "custom-model"
  web_search:
    base_url: "https://search.example.com/v1"
    max_results: 2
pipeline:
  history_window: 10
  temperature: 0.2
`)

	cfg, err := LoadFromFile(path)

	assert.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "custom-model", cfg.APIs.GenAI.Model)
	assert.Equal(t, 2, cfg.APIs.WebSearch.MaxResults)
	assert.Equal(t, 10, cfg.Pipeline.HistoryWindow)
	assert.Equal(t, 0.2, cfg.Pipeline.Temperature)
}

func TestLoadFromFile_MissingGenAIBaseURLFails(t *testing.T) {
	path := writeTestConfig(t, `
apis:
  web_search:
    base_url: "https://search.example.com/v1"
`)

	_, err := LoadFromFile(path)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "apis.genai.base_url")
}

func TestLoadFromFile_EnvBackfillsSecrets(t *testing.T) {
	t.Setenv("GENAI_API_KEY", "env-genai-key")
	t.Setenv("WEB_SEARCH_API_KEY", "env-search-key")
	t.Setenv("WEB_SEARCH_ENGINE_ID", "env-engine-id")

	path := writeTestConfig(t, `
apis:
  genai:
    base_url: "https://genai.example.com/v1"
  web_search:
    base_url: "https://search.example.com/v1"
`)

	cfg, err := LoadFromFile(path)

	assert.NoError(t, err)
	assert.Equal(t, "env-genai-key", cfg.APIs.GenAI.APIKey)
	assert.Equal(t, "env-search-key", cfg.APIs.WebSearch.APIKey)
	assert.Equal(t, "env-engine-id", cfg.APIs.WebSearch.EngineID)
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, "1.5s", GetDuration(1500).String())
	assert.Equal(t, "0s", GetDuration(0).String())
}
