// Package search provides best-effort web-search augmentation for
// generation requests. Augmentation never fails the caller: transport
// and parse problems collapse to a fixed fallback string.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"marklet-proxy/internal/common/httpclient"
	"marklet-proxy/internal/common/logger"
	"marklet-proxy/internal/common/metrics"
)

const (
	// FallbackUnavailable is spliced into the prompt when the search
	// provider could not be reached or returned garbage.
	FallbackUnavailable = "search unavailable"

	// FallbackNoResults is distinct from the failure string so prompt
	// text can differentiate an empty result set.
	FallbackNoResults = "no results found"
)

type Config struct {
	BaseURL    string
	APIKey     string
	EngineID   string
	Timeout    time.Duration
	MaxResults int
	Triggers   []string
	Qualifier  string
}

// Result is one search hit in provider relevance order.
type Result struct {
	Title   string
	Snippet string
	URL     string
}

type Augmenter struct {
	config *Config
	client *httpclient.Client
	logger logger.Logger
}

func NewAugmenter(config *Config, log logger.Logger) *Augmenter {
	return &Augmenter{
		config: config,
		client: httpclient.NewClient(config.Timeout),
		logger: log.WithFields(map[string]interface{}{"component": "search-augmenter"}),
	}
}

// MaybeAugment returns formatted search context for the query, or the
// empty string when the query does not look like a lookup request.
func (a *Augmenter) MaybeAugment(ctx context.Context, queryText string) string {
	if !a.shouldAugment(queryText) {
		return ""
	}

	results, err := a.search(ctx, queryText)
	if err != nil {
		metrics.SearchAugmentations.WithLabelValues("failure").Inc()
		a.logger.Warn("search failed, using fallback context", map[string]interface{}{
			"error": err.Error(),
		})
		return FallbackUnavailable
	}

	if len(results) == 0 {
		metrics.SearchAugmentations.WithLabelValues("empty").Inc()
		return FallbackNoResults
	}

	metrics.SearchAugmentations.WithLabelValues("success").Inc()
	a.logger.Info("search augmentation completed", map[string]interface{}{
		"resultCount": len(results),
	})
	return Format(results)
}

// shouldAugment matches the query against the configured trigger
// phrases. A looser trigger set raises augmentation frequency and
// therefore cost; the match itself stays a plain substring check.
func (a *Augmenter) shouldAugment(queryText string) bool {
	lowered := strings.ToLower(queryText)
	for _, trigger := range a.config.Triggers {
		if strings.Contains(lowered, trigger) {
			return true
		}
	}
	return false
}

func (a *Augmenter) search(ctx context.Context, queryText string) ([]Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.buildSearchURL(queryText), nil)
	if err != nil {
		return nil, err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API returned %d", resp.StatusCode)
	}

	var apiResponse struct {
		Items []struct {
			Title   string `json:"title"`
			Snippet string `json:"snippet"`
			Link    string `json:"link"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(apiResponse.Items))
	for _, item := range apiResponse.Items {
		results = append(results, Result{
			Title:   item.Title,
			Snippet: item.Snippet,
			URL:     item.Link,
		})
		if len(results) == a.config.MaxResults {
			break
		}
	}
	return results, nil
}

func (a *Augmenter) buildSearchURL(queryText string) string {
	query := collapseSpaces(a.config.Qualifier + queryText)

	baseURL, _ := url.Parse(a.config.BaseURL)
	params := url.Values{}
	params.Add("key", a.config.APIKey)
	params.Add("cx", a.config.EngineID)
	params.Add("q", query)
	params.Add("num", fmt.Sprintf("%d", a.config.MaxResults))
	baseURL.RawQuery = params.Encode()
	return baseURL.String()
}

// Format renders results as a numbered plain-text list: title, snippet
// and source URL on separate lines, entries separated by a blank line.
// This text is spliced verbatim into the composed prompt, so the shape
// must stay stable.
func Format(results []Result) string {
	var b strings.Builder
	for i, r := range results {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "%d. %s\n%s\n%s", i+1, r.Title, r.Snippet, r.URL)
	}
	return b.String()
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
