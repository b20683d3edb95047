package worker_test

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/healthmon-lab/panacea/pkg/service/guideline"
	"github.com/healthmon-lab/panacea/pkg/service/index"
	"github.com/healthmon-lab/panacea/pkg/service/worker"
)

type staticEmbedder struct{}

func (staticEmbedder) Version() string { return "test/2" }

func (staticEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{1, float32(i) * 0.01}
	}
	return vectors, nil
}

func buildWords(words string) func(ctx context.Context) (*index.Index, error) {
	return func(ctx context.Context) (*index.Index, error) {
		cfg := index.DefaultConfig()
		cfg.ChunkWindow = 1
		cfg.ChunkOverlap = 0
		doc := &guideline.Document{Source: "test", Text: words}
		return index.Build(ctx, staticEmbedder{}, doc, cfg)
	}
}

func TestIndexRefreshWorker_RefreshSwapsIndex(t *testing.T) {
	ctx := context.Background()

	initial, err := buildWords("alpha")(ctx)
	gt.NoError(t, err).Required()
	provider := index.NewProvider(initial)
	gt.Number(t, provider.Size()).Equal(1)

	var grown atomic.Bool
	build := func(ctx context.Context) (*index.Index, error) {
		grown.Store(true)
		return buildWords("alpha beta gamma")(ctx)
	}

	w := worker.NewIndexRefreshWorker(provider, build, 10*time.Millisecond)
	gt.NoError(t, w.Start(ctx)).Required()

	deadline := time.After(2 * time.Second)
	for provider.Size() != 3 {
		select {
		case <-deadline:
			t.Fatal("index was not refreshed in time")
		case <-time.After(5 * time.Millisecond):
		}
	}

	w.Stop()
	gt.Bool(t, grown.Load()).True()
	gt.Number(t, provider.Size()).Equal(3)
}

func TestIndexRefreshWorker_KeepsServingOnBuildFailure(t *testing.T) {
	ctx := context.Background()

	initial, err := buildWords(strings.Repeat("word ", 5))(ctx)
	gt.NoError(t, err).Required()
	provider := index.NewProvider(initial)

	var attempts atomic.Int64
	build := func(ctx context.Context) (*index.Index, error) {
		attempts.Add(1)
		return nil, goerr.New("document unavailable")
	}

	w := worker.NewIndexRefreshWorker(provider, build, 10*time.Millisecond)
	gt.NoError(t, w.Start(ctx)).Required()

	deadline := time.After(2 * time.Second)
	for attempts.Load() < 2 {
		select {
		case <-deadline:
			t.Fatal("refresh was not attempted in time")
		case <-time.After(5 * time.Millisecond):
		}
	}

	w.Stop()

	// The previous index keeps serving
	gt.Number(t, provider.Size()).Equal(5)
}

func TestIndexRefreshWorker_StartRequiresInterval(t *testing.T) {
	provider := index.NewProvider(nil)
	w := worker.NewIndexRefreshWorker(provider, buildWords("alpha"), 0)
	gt.Error(t, w.Start(context.Background()))
}
