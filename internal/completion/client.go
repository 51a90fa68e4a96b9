// Package completion is the single boundary to the hosted
// chat-completion provider. The raw body is read in full and resolved
// into exactly one shape variant here; nothing downstream re-inspects
// provider payloads.
package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	stderrors "marklet-proxy/internal/common/errors"
	"marklet-proxy/internal/common/httpclient"
	"marklet-proxy/internal/common/logger"
	"marklet-proxy/internal/models"
)

type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

type Client struct {
	config *Config
	client *httpclient.Client
	logger logger.Logger
}

func NewClient(config *Config, log logger.Logger) *Client {
	return &Client{
		config: config,
		client: httpclient.NewClient(config.Timeout),
		logger: log.WithFields(map[string]interface{}{"component": "completion-client"}),
	}
}

// bodyShape is the exhaustive set of provider body variants, resolved
// once per call.
type bodyShape int

const (
	shapeSuccess bodyShape = iota
	shapeErrorObject
	shapeUnparsable
)

type resolvedBody struct {
	shape   bodyShape
	content string // shapeSuccess
	message string // shapeErrorObject / shapeUnparsable
}

// Complete sends the composed instruction plus turns and returns the
// raw reply text. Single attempt; callers retry at a higher level if
// at all.
func (c *Client) Complete(ctx context.Context, instruction string, turns []models.Message, maxTokens int, temperature float64) (string, error) {
	payload := map[string]interface{}{
		"model":       c.config.Model,
		"messages":    buildMessages(instruction, turns),
		"max_tokens":  maxTokens,
		"temperature": temperature,
	}

	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(c.config.BaseURL, "/")+"/chat/completions", bytes.NewBuffer(body))
	if err != nil {
		return "", stderrors.NewTransportFailureError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", stderrors.NewTransportFailureError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", stderrors.NewTransportFailureError(err)
	}

	resolved := resolveBody(raw)

	if resp.StatusCode != http.StatusOK {
		detail := resolved.message
		if detail == "" {
			detail = resolved.content
		}
		return "", stderrors.NewProviderError(fmt.Sprintf("status %d: %s", resp.StatusCode, detail))
	}

	switch resolved.shape {
	case shapeErrorObject:
		return "", stderrors.NewProviderError(resolved.message)
	case shapeUnparsable:
		return "", stderrors.NewInvalidResponseError(resolved.message)
	}

	c.logger.Debug("completion received", map[string]interface{}{
		"replyLength": len(resolved.content),
	})
	return resolved.content, nil
}

func buildMessages(instruction string, turns []models.Message) []models.Message {
	messages := make([]models.Message, 0, len(turns)+1)
	messages = append(messages, models.Message{Role: models.RoleSystem, Content: instruction})
	return append(messages, turns...)
}

// resolveBody classifies one raw provider body into its shape variant.
func resolveBody(raw []byte) resolvedBody {
	var parsed struct {
		Error *struct {
			Message string `json:"message"`
			Type    string `json:"type"`
		} `json:"error"`
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.Unmarshal(raw, &parsed); err != nil {
		return resolvedBody{shape: shapeUnparsable, message: fmt.Sprintf("decode error: %v", err)}
	}

	if parsed.Error != nil {
		return resolvedBody{shape: shapeErrorObject, message: parsed.Error.Message}
	}

	if len(parsed.Choices) == 0 {
		return resolvedBody{shape: shapeUnparsable, message: "response had no choices"}
	}

	content := parsed.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return resolvedBody{shape: shapeUnparsable, message: "response content was empty"}
	}

	return resolvedBody{shape: shapeSuccess, content: content}
}
