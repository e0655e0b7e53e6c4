// Package llm calls an OpenAI-compatible chat-completion endpoint and
// returns the raw text of the first choice. Providers are interchangeable:
// anything speaking the {model, messages} request shape works, so switching
// vendors is a configuration change, not a code change.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/planweave/planweave/internal/domain"
)

// Provider identifies one chat-completion backend.
type Provider struct {
	// Name is a human-readable label used in logs and errors.
	Name string
	// BaseURL is the scheme+host prefix; the chat-completions path is appended.
	BaseURL string
	// Model is the model identifier sent in the request body.
	Model string
	// APIKey is sent as a bearer token.
	APIKey string
}

// Configured reports whether the provider has enough settings to be called.
func (p Provider) Configured() bool {
	return p.BaseURL != "" && p.Model != "" && p.APIKey != ""
}

// presets are known OpenAI-compatible vendors. They carry default endpoints
// and models; the API key always comes from configuration.
var presets = map[string]Provider{
	"openai":   {Name: "openai", BaseURL: "https://api.openai.com/v1", Model: "gpt-4o-mini"},
	"deepseek": {Name: "deepseek", BaseURL: "https://api.deepseek.com/v1", Model: "deepseek-chat"},
	"moonshot": {Name: "moonshot", BaseURL: "https://api.moonshot.cn/v1", Model: "moonshot-v1-8k"},
}

// Preset returns the named vendor preset, if one exists. Callers typically
// overlay configured base URL and model on top of the returned value.
func Preset(name string) (Provider, bool) {
	p, ok := presets[name]
	return p, ok
}

// Client is an HTTP client for one provider. Timeouts come from the caller's
// context; the embedded http.Client carries only a generous upper bound so a
// forgotten deadline cannot hang forever.
type Client struct {
	provider Provider
	http     *http.Client
}

// NewClient constructs a Client for the given provider.
func NewClient(p Provider) *Client {
	return &Client{
		provider: p,
		http:     &http.Client{Timeout: 120 * time.Second},
	}
}

// chat-completion request/response wire types (OpenAI-compatible shape).

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Chat sends the prompt as a single user message and returns the raw text of
// the first choice. Every failure mode of the endpoint — transport error,
// non-2xx status, an error field in a 200 body, missing choices, empty
// content — surfaces as domain.ErrUpstream: the request produced no usable
// content and is worth retrying as-is.
func (c *Client) Chat(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:    c.provider.Model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("llm.Client.Chat: marshal request: %w", err)
	}

	url := strings.TrimRight(c.provider.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("llm.Client.Chat: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.provider.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm.Client.Chat: %s: %w: %w", c.provider.Name, domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("llm.Client.Chat: %s: read body: %w", c.provider.Name, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("llm.Client.Chat: %s: %w: status %s: %s",
			c.provider.Name, domain.ErrUpstream, resp.Status, snippet(raw))
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("llm.Client.Chat: %s: %w: undecodable body: %s",
			c.provider.Name, domain.ErrUpstream, snippet(raw))
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("llm.Client.Chat: %s: %w: %s",
			c.provider.Name, domain.ErrUpstream, parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("llm.Client.Chat: %s: %w: response contained no content",
			c.provider.Name, domain.ErrUpstream)
	}
	return parsed.Choices[0].Message.Content, nil
}

func snippet(raw []byte) string {
	const max = 200
	s := strings.TrimSpace(string(raw))
	if len(s) > max {
		s = s[:max] + "..."
	}
	return s
}
