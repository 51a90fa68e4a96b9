package models

// Role tags one conversation turn. Order of turns is chronological and
// semantically meaningful.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one immutable conversation turn, owned by the caller and
// resent in full each request.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Resource is a caller-supplied contextual hint: an existing
// bookmarklet or a website reference. Read-only, never mutated.
type Resource struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
}
