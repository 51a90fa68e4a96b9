// Package prompt builds the instruction text sent to the completion
// provider. Both composition policies share one routine parameterized
// by Policy; the prompt text itself is the product surface here, so
// section order is fixed and formatting is stable.
package prompt

import (
	"fmt"
	"strings"

	"marklet-proxy/internal/extract"
	"marklet-proxy/internal/models"
)

// Policy selects how the model is told to behave.
type Policy int

const (
	// Conversational may ask clarifying questions and keeps the
	// artifact in-line inside a conversational reply.
	Conversational Policy = iota

	// SingleShot must output only the artifact or only the sentinel.
	SingleShot
)

type Composer struct {
	historyWindow int
}

func NewComposer(historyWindow int) *Composer {
	if historyWindow <= 0 {
		historyWindow = 100
	}
	return &Composer{historyWindow: historyWindow}
}

// Truncate bounds request size by keeping only the most recent turns.
// Oldest turns are silently dropped.
func (c *Composer) Truncate(history []models.Message) []models.Message {
	if len(history) <= c.historyWindow {
		return history
	}
	return history[len(history)-c.historyWindow:]
}

// Compose builds the single instruction block: persona, optional
// existing-resource listing, optional search context, behavior policy,
// output-format rules, and the scope-limitation clause.
func (c *Composer) Compose(policy Policy, contextText string, bookmarklets, websites []models.Resource) string {
	var parts []string

	parts = append(parts, "You are a bookmarklet engineer. You write small, self-contained JavaScript bookmarklets that run entirely in the user's browser on the current page.")

	if len(bookmarklets) > 0 {
		parts = append(parts, "\nThe user already has these bookmarklets:")
		for _, r := range bookmarklets {
			parts = append(parts, formatResource(r))
		}
	}
	if len(websites) > 0 {
		parts = append(parts, "\nThe user has referenced these websites:")
		for _, r := range websites {
			parts = append(parts, formatResource(r))
		}
	}

	if contextText != "" {
		parts = append(parts, "\nWeb search context:")
		parts = append(parts, contextText)
	}

	parts = append(parts, "\nBehavior:")
	if policy == Conversational {
		parts = append(parts, "1. If the request is ambiguous or underspecified, ask one short clarifying question instead of guessing.")
		parts = append(parts, "2. If the request is clear, reply conversationally and include the finished bookmarklet in your reply.")
	} else {
		parts = append(parts, "1. Do not ask clarifying questions. Generate immediately from the request as given.")
		parts = append(parts, "2. Output only the bookmarklet, or only the refusal sentence below. No explanation, no prose.")
	}

	parts = append(parts, "\nOutput format:")
	parts = append(parts, fmt.Sprintf("- The bookmarklet must be a single line beginning with %q.", extract.Prefix))
	parts = append(parts, "- Wrap the bookmarklet in a fenced code block tagged javascript.")
	parts = append(parts, "- Never use eval, innerHTML assignment, or document.write.")

	parts = append(parts, "\nScope limitation:")
	parts = append(parts, fmt.Sprintf("If the request requires server-side functionality, authentication, or access to private data, respond with exactly: %s", extract.ScopeSentinel))

	return strings.Join(parts, "\n")
}

func formatResource(r models.Resource) string {
	line := "- " + r.Name
	if r.URL != "" {
		line += " (" + r.URL + ")"
	}
	if r.Description != "" {
		line += ": " + r.Description
	}
	return line
}
