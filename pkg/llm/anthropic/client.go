/*
Copyright 2025 The AlaudaDevops Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package anthropic implements a version decider backed by the Anthropic Messages API
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/AlaudaDevops/toolbox/auto-release/pkg/decision"
)

const (
	// DefaultBaseURL is the public Anthropic API endpoint
	DefaultBaseURL = "https://api.anthropic.com"
	// DefaultModel is the model used when none is configured
	DefaultModel = "claude-sonnet-4-20250514"
	// DefaultMaxTokens bounds the response size
	DefaultMaxTokens = 2048
	// APIVersion is sent as the anthropic-version header
	APIVersion = "2023-06-01"
)

// Options configures the client
type Options struct {
	// APIKey is the Anthropic API key
	APIKey string
	// BaseURL overrides DefaultBaseURL
	BaseURL string
	// Model overrides DefaultModel
	Model string
	// MaxTokens overrides DefaultMaxTokens
	MaxTokens int
	// Timeout bounds a single request
	Timeout time.Duration
}

// Client asks the model for a structured version decision
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	maxTokens  int
	httpClient *http.Client
	// now returns the date embedded in the prompt
	now func() time.Time
}

// NewClient creates a new client
func NewClient(opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, errors.New("anthropic API key is not set")
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 2 * time.Minute
	}

	return &Client{
		apiKey:    opts.APIKey,
		baseURL:   strings.TrimSuffix(opts.BaseURL, "/"),
		model:     opts.Model,
		maxTokens: opts.MaxTokens,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		now: time.Now,
	}, nil
}

type messageRequest struct {
	Model      string           `json:"model"`
	MaxTokens  int              `json:"max_tokens"`
	Messages   []requestMessage `json:"messages"`
	Tools      []tool           `json:"tools"`
	ToolChoice toolChoice       `json:"tool_choice"`
}

type requestMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

type toolChoice struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

type messageResponse struct {
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
}

type contentBlock struct {
	Type  string          `json:"type"`
	Text  string          `json:"text,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Decide implements decision.Decider
func (c *Client) Decide(ctx context.Context, currentVersion string, pr decision.PRDetails) (*decision.VersionDecision, error) {
	prompt := decision.BuildPrompt(currentVersion, pr, c.now())
	logrus.Debugf("Prompt:\n%s", prompt)

	raw, err := c.createMessage(ctx, prompt)
	if err != nil {
		return nil, err
	}

	structured, err := extractStructured(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "unexpected response: %s", string(raw))
	}
	logrus.Infof("Claude response: %s", string(structured))

	result, err := decision.ParseResponse(structured)
	if err != nil {
		return nil, errors.Wrapf(err, "response: %s", string(structured))
	}
	if err := decision.Validate(currentVersion, result); err != nil {
		return nil, errors.Wrapf(err, "response: %s", string(structured))
	}
	return result, nil
}

// createMessage sends the prompt and returns the raw response body
func (c *Client) createMessage(ctx context.Context, prompt string) ([]byte, error) {
	payload := messageRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []requestMessage{
			{Role: "user", Content: prompt},
		},
		Tools: []tool{
			{
				Name:        decision.SchemaName,
				Description: "Record the semantic version bump, new version and changelog entry for the pull request",
				InputSchema: decision.Schema(),
			},
		},
		ToolChoice: toolChoice{Type: "tool", Name: decision.SchemaName},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal anthropic request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create HTTP request")
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", APIVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to call anthropic API")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read anthropic response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr errorResponse
		if jsonErr := json.Unmarshal(raw, &apiErr); jsonErr == nil && apiErr.Error.Message != "" {
			return nil, errors.Errorf("anthropic API responded with status %d (%s): %s", resp.StatusCode, apiErr.Error.Type, apiErr.Error.Message)
		}
		return nil, errors.Errorf("anthropic API responded with status %d: %s", resp.StatusCode, string(raw))
	}
	return raw, nil
}

// extractStructured returns the tool input, or a text block holding JSON
func extractStructured(raw []byte) ([]byte, error) {
	var msg messageResponse
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, errors.Wrap(err, "failed to decode anthropic response")
	}

	for _, block := range msg.Content {
		if block.Type == "tool_use" && block.Name == decision.SchemaName && len(block.Input) > 0 {
			return block.Input, nil
		}
	}
	for _, block := range msg.Content {
		if block.Type == "text" && strings.HasPrefix(strings.TrimSpace(block.Text), "{") {
			return []byte(strings.TrimSpace(block.Text)), nil
		}
	}
	return nil, errors.Errorf("no %s output in response (stop reason %q)", decision.SchemaName, msg.StopReason)
}

var _ decision.Decider = (*Client)(nil)
