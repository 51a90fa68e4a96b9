// Package extract parses the model's free-text reply into a canonical
// bookmarklet artifact. Extraction is a fixed-priority pattern table,
// not a parser; replies the table cannot place yield no artifact.
package extract

import (
	"regexp"
	"strings"
)

const (
	// Prefix is the protocol literal every valid artifact begins with.
	Prefix = "javascript:"

	// ScopeSentinel is the exact string the model is instructed to emit
	// when the requested behavior needs server-side, authenticated, or
	// private data a bookmarklet cannot have.
	ScopeSentinel = "NOT_POSSIBLE_WITH_BOOKMARKLET"
)

// PolicyVariant selects the composition policy the reply was produced
// under. Single-shot replies are expected to contain only the artifact
// or only the sentinel, which permits a last-resort wrap of the whole
// reply; conversational replies are prose and never wrapped whole.
type PolicyVariant int

const (
	Conversational PolicyVariant = iota
	SingleShot
)

// Extraction is the structured verdict for one raw reply.
type Extraction struct {
	Artifact     string `json:"artifact,omitempty"`
	Present      bool   `json:"present"`
	ScopeRefused bool   `json:"scopeRefused"`
}

var (
	taggedFenceRe = regexp.MustCompile("(?s)```(?:javascript|js)[ \t]*\r?\n(.*?)```")
	anyFenceRe    = regexp.MustCompile("(?s)```[a-zA-Z0-9+#-]*[ \t]*\r?\n?(.*?)```")

	// Structural wrapper idioms, in priority order. First match wins.
	structuralRes = []*regexp.Regexp{
		regexp.MustCompile(`(?s)javascript:\(function\s*\([^)]*\)\s*\{.*\}\s*\)\s*\([^)]*\)\s*;?`),
		regexp.MustCompile(`(?s)javascript:\(\s*\([^)]*\)\s*=>\s*\{.*\}\s*\)\s*\([^)]*\)\s*;?`),
		regexp.MustCompile(`(?s)javascript:void\s*\(.*\)\s*;?`),
		regexp.MustCompile(`javascript:\S+`),
	}
)

// Extract locates the bookmarklet artifact inside a raw reply.
// Refusal detection runs before any pattern match: a reply carrying the
// sentinel never yields an artifact.
func Extract(raw string, variant PolicyVariant) Extraction {
	if strings.Contains(raw, ScopeSentinel) {
		return Extraction{ScopeRefused: true}
	}

	// Rule 1: tagged fence whose content already carries the prefix.
	for _, m := range taggedFenceRe.FindAllStringSubmatch(raw, -1) {
		if strings.HasPrefix(strings.TrimSpace(m[1]), Prefix) {
			return found(m[1])
		}
	}

	// Rule 2: the whole reply is the artifact.
	if strings.HasPrefix(strings.TrimSpace(raw), Prefix) {
		return found(raw)
	}

	// Rule 3: structural wrapper idioms anywhere in the reply.
	for _, re := range structuralRes {
		if m := re.FindString(raw); m != "" {
			return found(m)
		}
	}

	// Rule 4: any fenced block without the prefix is a bare script body.
	for _, m := range anyFenceRe.FindAllStringSubmatch(raw, -1) {
		body := strings.TrimSpace(m[1])
		if body == "" || strings.HasPrefix(body, Prefix) {
			continue
		}
		return found(Wrap(body))
	}

	// Single-shot replies carry nothing but the artifact, so treat the
	// remaining text as a bare script body.
	if variant == SingleShot {
		if body := strings.TrimSpace(raw); body != "" {
			return found(Wrap(body))
		}
	}

	return Extraction{}
}

func found(artifact string) Extraction {
	return Extraction{
		Artifact: Normalize(artifact),
		Present:  true,
	}
}

// Normalize collapses an artifact to its canonical single-line form:
// line breaks become spaces, whitespace runs collapse to one space,
// leading and trailing whitespace is trimmed. Idempotent.
func Normalize(s string) string {
	s = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
	s = regexp.MustCompile(`\s+`).ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Wrap turns a bare script body into the canonical self-invoking form
// with the protocol prefix prepended.
func Wrap(body string) string {
	return Prefix + "(function(){" + Normalize(body) + "})();"
}
