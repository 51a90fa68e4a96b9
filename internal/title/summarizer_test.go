package title

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"marklet-proxy/internal/common/logger"
	"marklet-proxy/internal/completion"
	"marklet-proxy/internal/models"
)

func newTestSummarizer(t *testing.T, baseURL string) *Summarizer {
	client := completion.NewClient(&completion.Config{
		BaseURL: baseURL,
		Model:   "test-model",
		Timeout: 3 * time.Second,
	}, logger.NewTestLogger(t))
	return NewSummarizer(client, 24, 0.3, logger.NewTestLogger(t))
}

func providerReplying(t *testing.T, content string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Messages    []models.Message `json:"messages"`
			MaxTokens   int              `json:"max_tokens"`
			Temperature float64          `json:"temperature"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, 24, payload.MaxTokens)
		assert.Equal(t, 0.3, payload.Temperature)
		assert.Equal(t, models.RoleSystem, payload.Messages[0].Role)
		assert.Contains(t, payload.Messages[0].Content, "3 to 5 words")

		body, _ := json.Marshal(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": content}},
			},
		})
		w.Write(body)
	}))
}

func TestSummarize_ReturnsTrimmedTitle(t *testing.T) {
	server := providerReplying(t, "  Dark Mode Toggle  ")
	defer server.Close()

	s := newTestSummarizer(t, server.URL)

	label := s.Summarize(context.Background(), []models.Message{
		{Role: models.RoleUser, Content: "make a dark mode bookmarklet"},
	})

	assert.Equal(t, "Dark Mode Toggle", label)
}

func TestSummarize_StripsSurroundingQuotes(t *testing.T) {
	server := providerReplying(t, `"Tab Cleaner"`)
	defer server.Close()

	s := newTestSummarizer(t, server.URL)

	label := s.Summarize(context.Background(), []models.Message{
		{Role: models.RoleUser, Content: "close duplicate tabs"},
	})

	assert.Equal(t, "Tab Cleaner", label)
}

func TestSummarize_EmptyReplyYieldsDefault(t *testing.T) {
	server := providerReplying(t, `""`)
	defer server.Close()

	s := newTestSummarizer(t, server.URL)

	label := s.Summarize(context.Background(), []models.Message{
		{Role: models.RoleUser, Content: "anything"},
	})

	assert.Equal(t, DefaultLabel, label)
}

func TestSummarize_ProviderFailureYieldsDefault(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	s := newTestSummarizer(t, server.URL)

	label := s.Summarize(context.Background(), []models.Message{
		{Role: models.RoleUser, Content: "anything"},
	})

	assert.Equal(t, DefaultLabel, label)
}
