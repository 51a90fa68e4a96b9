package pipeline

import "marklet-proxy/internal/models"

// GenerateRequest is the single-shot request shape: one prompt, the
// artifact or the sentinel comes back, nothing else.
type GenerateRequest struct {
	Prompt string `json:"prompt"`
}

// ChatRequest is the conversational request shape. The caller owns the
// history and resends it in full each turn.
type ChatRequest struct {
	Messages             []models.Message  `json:"messages"`
	WantTitle            bool              `json:"wantTitle,omitempty"`
	ExistingBookmarklets []models.Resource `json:"existingBookmarklets,omitempty"`
	ExistingWebsites     []models.Resource `json:"existingWebsites,omitempty"`
}

// Result is the structured outcome of one generation request.
// Constructed once, returned, discarded.
type Result struct {
	Reply          string `json:"reply"`
	Bookmarklet    string `json:"bookmarklet,omitempty"`
	HasBookmarklet bool   `json:"hasBookmarklet"`
	ScopeRefused   bool   `json:"scopeRefused"`
	Message        string `json:"message,omitempty"`
	Title          string `json:"title,omitempty"`
}

// ScopeRefusalMessage explains a model-declared refusal to the caller.
const ScopeRefusalMessage = "This request needs server-side functionality, authentication, or private data " +
	"that a bookmarklet running in your browser cannot access."
