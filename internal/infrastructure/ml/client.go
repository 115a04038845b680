package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"CoreTaxSentiment/internal/config"
	"CoreTaxSentiment/internal/domain"
	"CoreTaxSentiment/internal/ports"
)

// Client talks to a Hugging Face compatible inference service.
type Client struct {
	endpoint  string
	apiKey    string
	maxLength int
	http      *http.Client
	limiter   *rate.Limiter
}

// NewClient creates a reusable HTTP client from the ML configuration.
func NewClient(cfg config.MLConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &Client{
		endpoint:  strings.TrimRight(cfg.InferenceURL, "/"),
		apiKey:    cfg.APIKey,
		maxLength: cfg.MaxLength,
		http:      &http.Client{Timeout: timeout},
		limiter:   limiter,
	}
}

// Classifier returns a text-classification adapter for model.
func (c *Client) Classifier(model string) *Classifier {
	return &Classifier{client: c, model: model}
}

// Embedder returns a feature-extraction adapter for model.
func (c *Client) Embedder(model string) *Embedder {
	return &Embedder{client: c, model: model}
}

// Classifier runs sentiment classification on the inference service.
type Classifier struct {
	client *Client
	model  string
}

var _ ports.Classifier = (*Classifier)(nil)

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classify sends one batch and returns the top label per text.
func (c *Classifier) Classify(ctx context.Context, texts []string) ([]domain.Prediction, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	params := map[string]any{"truncation": true}
	if c.client.maxLength > 0 {
		params["max_length"] = c.client.maxLength
	}
	payload := map[string]any{
		"inputs":     texts,
		"parameters": params,
		"options":    map[string]any{"wait_for_model": true},
	}

	var raw json.RawMessage
	if err := c.client.post(ctx, "/models/"+c.model, payload, &raw); err != nil {
		return nil, err
	}
	return decodePredictions(raw)
}

// decodePredictions accepts either one {label, score} per text or, when the
// service returns all class scores, a list per text from which the best wins.
func decodePredictions(raw json.RawMessage) ([]domain.Prediction, error) {
	var nested [][]labelScore
	if err := json.Unmarshal(raw, &nested); err == nil {
		out := make([]domain.Prediction, len(nested))
		for i, scores := range nested {
			if len(scores) == 0 {
				return nil, fmt.Errorf("empty score list for input %d", i)
			}
			best := scores[0]
			for _, s := range scores[1:] {
				if s.Score > best.Score {
					best = s
				}
			}
			out[i] = domain.Prediction{Label: domain.Label(best.Label), Score: best.Score}
		}
		return out, nil
	}

	var flat []labelScore
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, fmt.Errorf("decode predictions: %w", err)
	}
	out := make([]domain.Prediction, len(flat))
	for i, s := range flat {
		out[i] = domain.Prediction{Label: domain.Label(s.Label), Score: s.Score}
	}
	return out, nil
}

// Embedder produces sentence embeddings on the inference service.
type Embedder struct {
	client *Client
	model  string
}

var _ ports.Embedder = (*Embedder)(nil)

// Embed returns one vector per text.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	payload := map[string]any{
		"inputs":  texts,
		"options": map[string]any{"wait_for_model": true},
	}

	var vectors [][]float64
	if err := e.client.post(ctx, "/pipeline/feature-extraction/"+e.model, payload, &vectors); err != nil {
		return nil, err
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embedding service returned %d vectors for %d texts", len(vectors), len(texts))
	}
	return vectors, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, v any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("unexpected status %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
