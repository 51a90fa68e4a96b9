// Package title generates a short label for a conversation. Title
// generation is a non-essential enhancement: every failure collapses
// to a fixed default label.
package title

import (
	"context"
	"strings"

	"marklet-proxy/internal/common/logger"
	"marklet-proxy/internal/completion"
	"marklet-proxy/internal/models"
)

// DefaultLabel is returned whenever the provider cannot produce a
// usable title.
const DefaultLabel = "New Bookmarklet"

const instruction = "Summarize this conversation as a title of 3 to 5 words. " +
	"Reply with the title only: no quotes, no punctuation, no explanation."

type Summarizer struct {
	client      *completion.Client
	maxTokens   int
	temperature float64
	logger      logger.Logger
}

func NewSummarizer(client *completion.Client, maxTokens int, temperature float64, log logger.Logger) *Summarizer {
	return &Summarizer{
		client:      client,
		maxTokens:   maxTokens,
		temperature: temperature,
		logger:      log.WithFields(map[string]interface{}{"component": "title-summarizer"}),
	}
}

// Summarize issues one extra completion call with a low token budget
// and low temperature. Never returns an error.
func (s *Summarizer) Summarize(ctx context.Context, conversation []models.Message) string {
	reply, err := s.client.Complete(ctx, instruction, conversation, s.maxTokens, s.temperature)
	if err != nil {
		s.logger.Warn("title generation failed, using default label", map[string]interface{}{
			"error": err.Error(),
		})
		return DefaultLabel
	}

	label := strings.TrimSpace(reply)
	label = strings.Trim(label, `"'`)
	label = strings.TrimSpace(label)
	if label == "" {
		return DefaultLabel
	}
	return label
}
