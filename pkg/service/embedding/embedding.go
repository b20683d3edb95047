package embedding

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

// DefaultDimension matches Gemini text-embedding-004
const DefaultDimension = 768

// Client generates embedding vectors through a gollem LLM client. The model
// name and dimension together form the version tag; an index built with one
// version must be queried with the same one.
type Client struct {
	llmClient gollem.LLMClient
	model     string
	dimension int
}

// New creates an embedding client. The model name is descriptive only (the
// backend is chosen when the LLM client is constructed) but participates in
// the version tag, so changing the backend model must change it.
func New(llmClient gollem.LLMClient, model string, dimension int) (*Client, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}
	if model == "" {
		return nil, goerr.New("embedding model name is required")
	}
	if dimension <= 0 {
		return nil, goerr.New("embedding dimension must be positive", goerr.V("dimension", dimension))
	}

	return &Client{
		llmClient: llmClient,
		model:     model,
		dimension: dimension,
	}, nil
}

// Version returns the embedding version tag
func (c *Client) Version() string {
	return fmt.Sprintf("%s/%d", c.model, c.dimension)
}

// Dimension returns the configured vector dimension
func (c *Client) Dimension() int {
	return c.dimension
}

// Embed generates one vector per input text
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	embeddings, err := c.llmClient.GenerateEmbedding(ctx, c.dimension, texts)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate embeddings", goerr.V("count", len(texts)))
	}
	if len(embeddings) != len(texts) {
		return nil, goerr.New("embedding count does not match input count",
			goerr.V("inputs", len(texts)), goerr.V("embeddings", len(embeddings)))
	}

	result := make([][]float32, len(embeddings))
	for i, vec := range embeddings {
		result[i] = make([]float32, len(vec))
		for j, v := range vec {
			result[i][j] = float32(v)
		}
	}

	return result, nil
}
