package interfaces

import "context"

// Embedder converts text into fixed-length numeric vectors. The version tag
// identifies the embedding model and dimension together; an index built with
// one version rejects queries embedded with another.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Version() string
}
