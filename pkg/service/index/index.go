package index

import (
	"context"
	"math"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/healthmon-lab/panacea/pkg/domain/interfaces"
	"github.com/healthmon-lab/panacea/pkg/domain/model"
	"github.com/healthmon-lab/panacea/pkg/domain/types"
	"github.com/healthmon-lab/panacea/pkg/service/guideline"
	"github.com/healthmon-lab/panacea/pkg/utils/logging"
)

// Config holds the tunable retrieval parameters
type Config struct {
	// ChunkWindow and ChunkOverlap control passage segmentation (in words)
	ChunkWindow  int
	ChunkOverlap int

	// BruteForceMax is the passage count up to which queries use an exact
	// scan. Larger corpora are searched through the clustered structure.
	BruteForceMax int

	// TieTolerance is the similarity difference below which two passages
	// are considered tied and ordered by ascending passage ID.
	TieTolerance float64
}

// DefaultConfig returns the default retrieval parameters
func DefaultConfig() Config {
	return Config{
		ChunkWindow:   400,
		ChunkOverlap:  50,
		BruteForceMax: 4096,
		TieTolerance:  1e-6,
	}
}

// Validate checks if the Config is valid
func (c *Config) Validate() error {
	if c.ChunkWindow <= 0 {
		return goerr.New("chunk window must be positive", goerr.V("window", c.ChunkWindow))
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkWindow {
		return goerr.New("chunk overlap must be within [0, window)",
			goerr.V("window", c.ChunkWindow), goerr.V("overlap", c.ChunkOverlap))
	}
	if c.BruteForceMax < 0 {
		return goerr.New("brute force max must not be negative", goerr.V("max", c.BruteForceMax))
	}
	if c.TieTolerance < 0 {
		return goerr.New("tie tolerance must not be negative", goerr.V("tolerance", c.TieTolerance))
	}
	return nil
}

// Index is an immutable similarity index over guideline passages. It is built
// once, holds no per-conversation state, and is safe for unbounded concurrent
// reads.
type Index struct {
	embedder interfaces.Embedder
	version  string
	cfg      Config
	passages []*model.GuidelinePassage

	// clusters is nil when the corpus is small enough for exact scans
	clusters *clusterSet
}

var _ interfaces.GuidelineIndex = (*Index)(nil)

// Build segments the document into overlapping passages, embeds them in one
// batch, and constructs the index. The embedder's version is recorded so
// that version skew between build and query is rejected.
func Build(ctx context.Context, embedder interfaces.Embedder, doc *guideline.Document, cfg Config) (*Index, error) {
	if err := cfg.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid index config")
	}

	chunks, err := guideline.Split(doc, cfg.ChunkWindow, cfg.ChunkOverlap)
	if err != nil {
		return nil, err
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	vectors, err := embedder.Embed(ctx, texts)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to embed guideline passages",
			goerr.V("source", doc.Source))
	}

	passages := make([]*model.GuidelinePassage, len(chunks))
	for i, chunk := range chunks {
		passages[i] = &model.GuidelinePassage{
			ID:             types.NewPassageID(i),
			SourceDocument: doc.Source,
			Offset:         chunk.Offset,
			Text:           chunk.Text,
			Embedding:      vectors[i],
		}
	}

	idx := &Index{
		embedder: embedder,
		version:  embedder.Version(),
		cfg:      cfg,
		passages: passages,
	}

	if len(passages) > cfg.BruteForceMax {
		idx.clusters = buildClusters(passages)
		logging.From(ctx).Info("guideline index built with clustered search",
			"passages", len(passages), "clusters", len(idx.clusters.centroids))
	} else {
		logging.From(ctx).Info("guideline index built with exact search",
			"passages", len(passages))
	}

	return idx, nil
}

// Size returns the number of indexed passages
func (x *Index) Size() int {
	return len(x.passages)
}

// Version returns the embedding version the index was built with
func (x *Index) Version() string {
	return x.version
}

// Query embeds the text with the index's own embedder and returns the top-k
// passages.
func (x *Index) Query(ctx context.Context, text string, k int) (model.RetrievalResult, error) {
	return x.QueryWith(ctx, x.embedder, text, k)
}

// QueryWith embeds the text with the given embedder. An embedder whose
// version differs from the build version is rejected; silently mixing
// embedding spaces would degrade retrieval without any visible failure.
func (x *Index) QueryWith(ctx context.Context, embedder interfaces.Embedder, text string, k int) (model.RetrievalResult, error) {
	if k < 1 {
		return nil, goerr.New("k must be at least 1", goerr.V("k", k))
	}
	if embedder.Version() != x.version {
		return nil, goerr.New("embedding version mismatch between index build and query",
			goerr.T(types.ErrTagIndexVersionMismatch),
			goerr.V("built", x.version),
			goerr.V("query", embedder.Version()))
	}

	vectors, err := embedder.Embed(ctx, []string{text})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to embed query")
	}
	query := vectors[0]

	candidates := x.passages
	if x.clusters != nil {
		candidates = x.clusters.candidates(query)
	}

	scored := make([]model.RetrievedPassage, 0, len(candidates))
	for _, p := range candidates {
		scored = append(scored, model.RetrievedPassage{
			Passage:    p,
			Similarity: cosineSimilarity(query, p.Embedding),
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		if math.Abs(scored[i].Similarity-scored[j].Similarity) <= x.cfg.TieTolerance {
			return scored[i].Passage.ID < scored[j].Passage.ID
		}
		return scored[i].Similarity > scored[j].Similarity
	})

	if k > len(scored) {
		k = len(scored)
	}
	return model.RetrievalResult(scored[:k]), nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0
	}

	return dot / denom
}
