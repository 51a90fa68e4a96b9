// Package pipeline orchestrates one generation request end to end:
// search augmentation (optional), prompt composition, completion,
// extraction, policy filtering, title generation (optional). Stages
// run sequentially; each network response is fully awaited before the
// next stage starts, because each stage's output feeds the next.
//
// The service is stateless. Concurrency safety across requests follows
// from holding no mutable state.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	stderrors "marklet-proxy/internal/common/errors"
	"marklet-proxy/internal/common/logger"
	"marklet-proxy/internal/common/metrics"
	"marklet-proxy/internal/common/observability"
	"marklet-proxy/internal/completion"
	"marklet-proxy/internal/extract"
	"marklet-proxy/internal/models"
	"marklet-proxy/internal/policy"
	"marklet-proxy/internal/prompt"
	"marklet-proxy/internal/search"
	"marklet-proxy/internal/title"
)

type Service struct {
	augmenter   *search.Augmenter
	composer    *prompt.Composer
	completions *completion.Client
	filter      *policy.Filter
	titles      *title.Summarizer
	obs         *observability.Observability
	maxTokens   int
	temperature float64
	logger      logger.Logger
}

func NewService(
	augmenter *search.Augmenter,
	composer *prompt.Composer,
	completions *completion.Client,
	filter *policy.Filter,
	titles *title.Summarizer,
	obs *observability.Observability,
	maxTokens int,
	temperature float64,
	log logger.Logger,
) *Service {
	return &Service{
		augmenter:   augmenter,
		composer:    composer,
		completions: completions,
		filter:      filter,
		titles:      titles,
		obs:         obs,
		maxTokens:   maxTokens,
		temperature: temperature,
		logger:      log.WithFields(map[string]interface{}{"component": "pipeline"}),
	}
}

// Generate handles the single-shot shape: one prompt in, the artifact
// or the sentinel out.
func (s *Service) Generate(ctx context.Context, req *GenerateRequest) (*Result, error) {
	start := time.Now()

	if strings.TrimSpace(req.Prompt) == "" {
		return nil, stderrors.NewInvalidRequestError("prompt must not be empty")
	}

	ctx, span := s.obs.StartSpan(ctx, "pipeline.generate")
	defer span.End()

	contextText := s.augmenter.MaybeAugment(ctx, req.Prompt)
	instruction := s.composer.Compose(prompt.SingleShot, contextText, nil, nil)

	raw, err := s.completions.Complete(ctx, instruction, []models.Message{
		{Role: models.RoleUser, Content: req.Prompt},
	}, s.maxTokens, s.temperature)
	if err != nil {
		s.recordFailure(ctx, "generate", err, start)
		return nil, err
	}

	result := s.resolveReply(raw, extract.SingleShot)
	s.recordOutcome(ctx, "generate", result, start)
	return result, nil
}

// Chat handles the conversational shape.
func (s *Service) Chat(ctx context.Context, req *ChatRequest) (*Result, error) {
	start := time.Now()

	if err := validateChatRequest(req); err != nil {
		return nil, err
	}

	ctx, span := s.obs.StartSpan(ctx, "pipeline.chat")
	defer span.End()

	history := s.composer.Truncate(req.Messages)

	contextText := s.augmenter.MaybeAugment(ctx, history[len(history)-1].Content)
	instruction := s.composer.Compose(prompt.Conversational, contextText, req.ExistingBookmarklets, req.ExistingWebsites)

	raw, err := s.completions.Complete(ctx, instruction, history, s.maxTokens, s.temperature)
	if err != nil {
		s.recordFailure(ctx, "chat", err, start)
		return nil, err
	}

	result := s.resolveReply(raw, extract.Conversational)

	if req.WantTitle {
		result.Title = s.titles.Summarize(ctx, history)
	}

	s.recordOutcome(ctx, "chat", result, start)
	return result, nil
}

// resolveReply turns a raw reply into the structured result: refusal
// detection first, then extraction, then the post-generation filter.
func (s *Service) resolveReply(raw string, variant extract.PolicyVariant) *Result {
	ex := extract.Extract(raw, variant)

	if ex.ScopeRefused {
		return &Result{
			Reply:        raw,
			ScopeRefused: true,
			Message:      ScopeRefusalMessage,
		}
	}

	result := &Result{Reply: raw}
	if !ex.Present {
		return result
	}

	if !s.filter.Audit(ex.Artifact) {
		// The artifact is discarded, never returned, and the refusal
		// becomes the visible reply so the payload does not leak.
		result.Reply = policy.RefusalMessage
		result.ScopeRefused = true
		result.Message = policy.RefusalMessage
		return result
	}

	result.Bookmarklet = ex.Artifact
	result.HasBookmarklet = true
	return result
}

func validateChatRequest(req *ChatRequest) error {
	if len(req.Messages) == 0 {
		return stderrors.NewInvalidRequestError("messages must not be empty")
	}
	for i, m := range req.Messages {
		if m.Role != models.RoleUser && m.Role != models.RoleAssistant {
			return stderrors.NewInvalidRequestError(fmt.Sprintf("message %d has invalid role %q", i, m.Role))
		}
	}
	return nil
}

func (s *Service) recordOutcome(ctx context.Context, endpoint string, result *Result, start time.Time) {
	outcome := "success"
	if result.ScopeRefused {
		outcome = "scope_refused"
	}
	metrics.GenerationsCompleted.WithLabelValues(endpoint, outcome).Inc()
	metrics.GenerationDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	s.obs.RecordRequest(ctx, outcome)
	s.obs.RecordRequestDuration(ctx, time.Since(start), outcome)

	s.logger.Info("generation completed", map[string]interface{}{
		"endpoint":       endpoint,
		"outcome":        outcome,
		"hasBookmarklet": result.HasBookmarklet,
		"durationMs":     time.Since(start).Milliseconds(),
	})
}

func (s *Service) recordFailure(ctx context.Context, endpoint string, err error, start time.Time) {
	code := string(stderrors.CodeOf(err))
	if code == "" {
		code = "UNKNOWN"
	}
	metrics.GenerationsFailed.WithLabelValues(endpoint, code).Inc()
	s.obs.RecordRequest(ctx, "failure")
	s.obs.RecordRequestDuration(ctx, time.Since(start), "failure")

	s.logger.Error("generation failed", map[string]interface{}{
		"endpoint":  endpoint,
		"errorCode": code,
		"error":     err.Error(),
	})
}
