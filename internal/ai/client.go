// Package ai wraps the remote OpenAI-compatible provider used for note
// enrichment: embeddings, title generation, and tag generation. Every failure
// is typed and recoverable; callers degrade gracefully rather than block.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Config configures the provider client.
type Config struct {
	BaseURL        string
	APIKey         string
	ChatModel      string
	EmbeddingModel string
	Timeout        time.Duration
	MaxRetries     int
}

// Client talks to an OpenAI-compatible HTTP API.
type Client struct {
	baseURL        string
	apiKey         string
	chatModel      string
	embeddingModel string
	maxRetries     int
	http           *http.Client
}

// NewClient creates a provider client. A missing API key is allowed: the
// client is created in unconfigured mode and every call returns
// ErrNotConfigured until a key is supplied.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = "gpt-4o"
	}
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = "text-embedding-3-small"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	return &Client{
		baseURL:        strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:         cfg.APIKey,
		chatModel:      cfg.ChatModel,
		embeddingModel: cfg.EmbeddingModel,
		maxRetries:     cfg.MaxRetries,
		http:           &http.Client{Timeout: cfg.Timeout},
	}
}

// Configured reports whether a provider credential is available.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Embed returns an embedding vector for the given text.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyInput
	}

	body := map[string]any{
		"model": c.embeddingModel,
		"input": text,
	}
	payload, err := c.post(ctx, "/embeddings", body)
	if err != nil {
		return nil, err
	}

	var out struct {
		Data []struct {
			Embedding []float64 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, fmt.Errorf("%w: decode embeddings response: %v", ErrProvider, err)
	}
	if len(out.Data) == 0 || len(out.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("%w: no embedding returned", ErrProvider)
	}
	return out.Data[0].Embedding, nil
}

// GenerateTitle produces a short, casual, lowercase title for the content.
func (c *Client) GenerateTitle(ctx context.Context, content string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyInput
	}

	raw, err := c.chatComplete(ctx,
		"You are a helpful assistant that creates casual, informal note titles. Return ONLY the title, nothing else.",
		"create a casual lowercase human-style title (max 6 words) for this note: "+content,
		0.7, 20)
	if err != nil {
		return "", err
	}

	title := strings.ToLower(strings.TrimSpace(raw))
	title = strings.Trim(title, `"'`)
	title = strings.TrimRight(title, ".,;:!?")
	if title == "" {
		return "", fmt.Errorf("%w: empty title returned", ErrProvider)
	}
	return title, nil
}

// GenerateTags asks the provider for 3-7 short lowercase hyphenated tags. The
// response is parsed defensively; prose wrapped around the array is tolerated.
func (c *Client) GenerateTags(ctx context.Context, content string) ([]string, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyInput
	}

	raw, err := c.chatComplete(ctx,
		`You are a helpful assistant that extracts tags from notes. Return ONLY a JSON array of tags, nothing else. Example: ["ai", "coding", "learning"]`,
		"extract 3-7 simple lowercase tags describing this note. no spaces, use hyphens if needed. return ONLY a JSON array.\n\nNote content:\n"+content,
		0.5, 100)
	if err != nil {
		return nil, err
	}
	return ParseTagArray(raw), nil
}

// chatComplete issues one chat completion and returns the assistant message.
func (c *Client) chatComplete(ctx context.Context, system, user string, temperature float64, maxTokens int) (string, error) {
	body := map[string]any{
		"model": c.chatModel,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
		"temperature": temperature,
		"max_tokens":  maxTokens,
	}
	payload, err := c.post(ctx, "/chat/completions", body)
	if err != nil {
		return "", err
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		return "", fmt.Errorf("%w: decode chat response: %v", ErrProvider, err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", ErrProvider)
	}
	return out.Choices[0].Message.Content, nil
}

// post sends a JSON request with retry and backoff. 429 and 5xx responses are
// retried, honoring Retry-After when present.
func (c *Client) post(ctx context.Context, path string, body any) ([]byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("ai: marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(retryDelay(attempt - 1)):
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", ErrProvider, ctx.Err())
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrProvider, err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: %v", ErrProvider, err)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			if ra := resp.Header.Get("Retry-After"); ra != "" {
				if secs, err := strconv.Atoi(ra); err == nil {
					select {
					case <-time.After(time.Duration(secs) * time.Second):
					case <-ctx.Done():
						resp.Body.Close()
						return nil, fmt.Errorf("%w: %v", ErrProvider, ctx.Err())
					}
				}
			}
			resp.Body.Close()
			lastErr = fmt.Errorf("%w: %s", ErrProvider, resp.Status)
			continue
		}

		payload, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("%w: read response: %v", ErrProvider, err)
			continue
		}
		if resp.StatusCode >= 300 {
			return nil, fmt.Errorf("%w: %s", ErrProvider, resp.Status)
		}
		return payload, nil
	}
	return nil, lastErr
}

func retryDelay(attempt int) time.Duration {
	base := 200 * time.Millisecond
	d := base << attempt
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}
