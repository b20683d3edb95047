package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/m-mizutani/gollem/llm/openai"
	"github.com/urfave/cli/v3"
)

// LLM holds configuration for the LLM backend used for both generation and
// embeddings.
type LLM struct {
	provider          string
	geminiProjectID   string
	geminiLocation    string
	openaiAPIKey      string
	embeddingModel    string
	embeddingDim      int
	generationTimeout time.Duration
}

// Flags returns CLI flags for LLM configuration
func (l *LLM) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "llm-provider",
			Usage:       "LLM backend (gemini or openai)",
			Value:       "gemini",
			Sources:     cli.EnvVars("PANACEA_LLM_PROVIDER"),
			Destination: &l.provider,
		},
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini API",
			Sources:     cli.EnvVars("PANACEA_GEMINI_PROJECT"),
			Destination: &l.geminiProjectID,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini API",
			Value:       "us-central1",
			Sources:     cli.EnvVars("PANACEA_GEMINI_LOCATION"),
			Destination: &l.geminiLocation,
		},
		&cli.StringFlag{
			Name:        "openai-api-key",
			Usage:       "OpenAI API key (required when llm-provider is openai)",
			Sources:     cli.EnvVars("PANACEA_OPENAI_API_KEY"),
			Destination: &l.openaiAPIKey,
		},
		&cli.StringFlag{
			Name:        "embedding-model",
			Usage:       "Embedding model name; participates in the index version tag",
			Value:       "text-embedding-004",
			Sources:     cli.EnvVars("PANACEA_EMBEDDING_MODEL"),
			Destination: &l.embeddingModel,
		},
		&cli.IntFlag{
			Name:        "embedding-dimension",
			Usage:       "Embedding vector dimension",
			Value:       768,
			Sources:     cli.EnvVars("PANACEA_EMBEDDING_DIMENSION"),
			Destination: &l.embeddingDim,
		},
		&cli.DurationFlag{
			Name:        "generation-timeout",
			Usage:       "Timeout per generation call",
			Value:       30 * time.Second,
			Sources:     cli.EnvVars("PANACEA_GENERATION_TIMEOUT"),
			Destination: &l.generationTimeout,
		},
	}
}

// LogAttrs returns log attributes for the LLM configuration. The API key is
// never logged.
func (l *LLM) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("provider", l.provider),
		slog.String("embedding_model", l.embeddingModel),
		slog.Int("embedding_dimension", l.embeddingDim),
		slog.Duration("generation_timeout", l.generationTimeout),
	}
}

// EmbeddingModel returns the configured embedding model name
func (l *LLM) EmbeddingModel() string {
	return l.embeddingModel
}

// EmbeddingDimension returns the configured embedding vector dimension
func (l *LLM) EmbeddingDimension() int {
	return l.embeddingDim
}

// GenerationTimeout returns the per-call generation timeout
func (l *LLM) GenerationTimeout() time.Duration {
	return l.generationTimeout
}

// Configure creates the LLM client from the configured flags
func (l *LLM) Configure(ctx context.Context) (gollem.LLMClient, error) {
	switch l.provider {
	case "gemini":
		if l.geminiProjectID == "" {
			return nil, goerr.New("gemini-project is required when llm-provider is gemini")
		}
		client, err := gemini.New(ctx, l.geminiProjectID, l.geminiLocation)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create Gemini client")
		}
		return client, nil

	case "openai":
		if l.openaiAPIKey == "" {
			return nil, goerr.New("openai-api-key is required when llm-provider is openai")
		}
		client, err := openai.New(ctx, l.openaiAPIKey)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create OpenAI client")
		}
		return client, nil

	default:
		return nil, goerr.New("invalid llm provider", goerr.V("provider", l.provider))
	}
}
