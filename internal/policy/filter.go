// Package policy inspects extracted artifacts for network probing of
// credentialed or private endpoints the primary refusal instruction
// may have missed.
//
// The filter is a heuristic safety net, not a security boundary. False
// negatives (disallowed behavior that dodges the patterns) and false
// positives (benign public-API calls containing "api" or "token") are
// expected and acceptable; tightening the match is a product decision,
// not a bug fix.
package policy

import (
	"regexp"
	"strings"

	"marklet-proxy/internal/common/logger"
	"marklet-proxy/internal/common/metrics"
)

// RefusalMessage replaces a discarded artifact. Fixed text so callers
// can render it directly.
const RefusalMessage = "This bookmarklet was withheld because it appears to access authenticated or private data, " +
	"which bookmarklets cannot do reliably or safely. If you believe this is a mistake, " +
	"please send the request through the manual review channel instead."

type Filter struct {
	networkRes []*regexp.Regexp
	keywords   []string
	logger     logger.Logger
}

// NewFilter compiles the configured pattern tables. Invalid network
// patterns are skipped rather than failing construction; the filter is
// best-effort by design.
func NewFilter(networkPatterns, sensitiveKeywords []string, log logger.Logger) *Filter {
	f := &Filter{
		keywords: sensitiveKeywords,
		logger:   log.WithFields(map[string]interface{}{"component": "policy-filter"}),
	}
	for _, p := range networkPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			f.logger.Warn("skipping invalid network pattern", map[string]interface{}{
				"pattern": p,
				"error":   err.Error(),
			})
			continue
		}
		f.networkRes = append(f.networkRes, re)
	}
	return f
}

// Audit reports whether the artifact is allowed. An artifact is flagged
// only when it contains BOTH a network-call construct AND a sensitive
// keyword; either alone is ordinary bookmarklet behavior.
func (f *Filter) Audit(artifact string) bool {
	if !f.matchesNetwork(artifact) {
		return true
	}
	if !f.matchesKeyword(artifact) {
		return true
	}

	metrics.PolicyFilterHits.Inc()
	f.logger.Warn("artifact discarded by post-generation filter", map[string]interface{}{
		"artifactLength": len(artifact),
	})
	return false
}

func (f *Filter) matchesNetwork(artifact string) bool {
	for _, re := range f.networkRes {
		if re.MatchString(artifact) {
			return true
		}
	}
	return false
}

func (f *Filter) matchesKeyword(artifact string) bool {
	lowered := strings.ToLower(artifact)
	for _, kw := range f.keywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}
