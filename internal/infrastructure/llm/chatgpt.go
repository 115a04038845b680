package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"CoreTaxSentiment/internal/config"
	"CoreTaxSentiment/internal/ports"
)

// ErrNotConfigured is returned when the client lacks an endpoint, model or key.
var ErrNotConfigured = errors.New("chatgpt client misconfigured")

// ChatGPTClient implements ports.TopicLabeler backed by OpenAI-compatible APIs.
type ChatGPTClient struct {
	endpoint     string
	model        string
	apiKey       string
	systemPrompt string
	httpClient   *http.Client
}

var _ ports.TopicLabeler = (*ChatGPTClient)(nil)

// NewChatGPTClient builds a client from configuration.
func NewChatGPTClient(cfg config.ChatGPTConfig) *ChatGPTClient {
	return &ChatGPTClient{
		endpoint:     cfg.Endpoint,
		model:        cfg.Model,
		apiKey:       cfg.APIKey,
		systemPrompt: cfg.SystemPrompt,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

// Configured reports whether the client has everything needed to make calls.
func (c *ChatGPTClient) Configured() bool {
	return c != nil && c.apiKey != "" && c.endpoint != "" && c.model != ""
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// LabelTopic asks the model for a short label describing the topic words.
func (c *ChatGPTClient) LabelTopic(ctx context.Context, words []string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}
	if len(words) == 0 {
		return "", fmt.Errorf("no topic words to label")
	}

	body, err := json.Marshal(map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": safePrompt(c.systemPrompt)},
			{"role": "user", "content": "Kata kunci topik: " + strings.Join(words, ", ")},
		},
		"temperature": 0,
	})
	if err != nil {
		return "", fmt.Errorf("marshal chatgpt payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("label topic: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("chatgpt error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode chatgpt response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("chatgpt returned no choices")
	}

	label := strings.TrimSpace(out.Choices[0].Message.Content)
	label = strings.Trim(label, "\"'")
	if label == "" {
		return "", fmt.Errorf("chatgpt returned an empty label")
	}
	return label, nil
}

func safePrompt(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "Give a short label (at most five words) for a topic described by its keywords."
	}
	return prompt
}
