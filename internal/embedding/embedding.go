// Package embedding turns chunk and query text into vectors through an
// OpenAI-compatible embeddings endpoint.
package embedding

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
)

// Provider generates embedding vectors for text. A nil Provider disables
// vector indexing and retrieval without error.
type Provider interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Config holds configuration for the embeddings client.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Dimensions int
}

// Client is the resty-backed Provider implementation.
type Client struct {
	client     *resty.Client
	endpoint   string
	model      string
	dimensions int
}

// New creates an embeddings client, or nil when no API key is configured so
// callers can treat the vector path as disabled.
// Parameters:
//   - cfg: embeddings configuration.
//
// Returns:
//   - *Client: initialized client, or nil when cfg.APIKey is empty.
func New(cfg *Config) *Client {
	if cfg == nil || cfg.APIKey == "" {
		return nil
	}

	client := resty.New()
	client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")

	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	return &Client{
		client:     client,
		endpoint:   baseURL + "/embeddings",
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
	}
}

type embedRequest struct {
	Model      string   `json:"model"`
	Input      []string `json:"input"`
	Dimensions int      `json:"dimensions,omitempty"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// EmbedText generates an embedding for a single text.
func (c *Client) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}
	return vectors[0], nil
}

// EmbedTexts generates embeddings for multiple texts in one call. The
// crawler batches its inputs before calling to bound request size.
func (c *Client) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	req := embedRequest{
		Model:      c.model,
		Input:      texts,
		Dimensions: c.dimensions,
	}

	var resp embedResponse
	httpResp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		Post(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to call embeddings API: %w", err)
	}

	if httpResp.StatusCode() != 200 {
		if resp.Error != nil && resp.Error.Message != "" {
			return nil, fmt.Errorf("embeddings API error: %s", resp.Error.Message)
		}
		return nil, fmt.Errorf("embeddings API error: status %d", httpResp.StatusCode())
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("unexpected number of embeddings: got %d, expected %d", len(resp.Data), len(texts))
	}

	// Sort by index to ensure correct order
	vectors := make([][]float32, len(texts))
	for _, item := range resp.Data {
		if item.Index < len(vectors) {
			vectors[item.Index] = item.Embedding
		}
	}
	return vectors, nil
}
