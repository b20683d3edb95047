package usecase

import (
	"context"
	"sync/atomic"

	"github.com/m-mizutani/goerr/v2"
	"github.com/healthmon-lab/panacea/pkg/domain/model"
	"github.com/healthmon-lab/panacea/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// Pipeline runs the full per-conversation flow: extraction → scoring →
// recommendation. The stages within one conversation are strictly
// sequential; conversations themselves share no mutable state and can be
// processed in parallel.
type Pipeline struct {
	extractor   *Extractor
	scorer      *Scorer
	recommender *Recommender
}

// NewPipeline creates a Pipeline from its stages
func NewPipeline(extractor *Extractor, scorer *Scorer, recommender *Recommender) *Pipeline {
	return &Pipeline{
		extractor:   extractor,
		scorer:      scorer,
		recommender: recommender,
	}
}

// Process analyzes a single conversation end to end
func (p *Pipeline) Process(ctx context.Context, conv *model.Conversation) (*model.RecommendationResult, error) {
	if conv == nil {
		return nil, goerr.New("conversation is required")
	}

	indicators := p.extractor.Extract(ctx, conv)
	assessment := p.scorer.Score(conv, indicators)

	result, err := p.recommender.Recommend(ctx, conv, assessment)
	if err != nil {
		return nil, goerr.Wrap(err, "recommendation failed",
			goerr.V("conversation_id", conv.ID))
	}

	return result, nil
}

// BatchResult carries the per-conversation results of a batch run plus
// aggregate counters. Counters are maintained with atomics while the batch is
// running, so they are safe to sample from the worker pool.
type BatchResult struct {
	Results []*model.RecommendationResult

	processed atomic.Int64
	fallbacks atomic.Int64
	degraded  atomic.Int64
}

// Processed returns the number of conversations that produced a result
func (b *BatchResult) Processed() int { return int(b.processed.Load()) }

// Fallbacks returns how many results took the fallback path
func (b *BatchResult) Fallbacks() int { return int(b.fallbacks.Load()) }

// Degraded returns how many results were degraded by a recoverable failure
// (generation error or grounding violation), as opposed to an empty corpus.
func (b *BatchResult) Degraded() int { return int(b.degraded.Load()) }

func (b *BatchResult) record(result *model.RecommendationResult) {
	b.processed.Add(1)
	if result.Fallback {
		b.fallbacks.Add(1)
		if result.FallbackReason.Degraded() {
			b.degraded.Add(1)
		}
	}
}

// ProcessBatch analyzes conversations with a bounded worker pool. There is no
// ordering guarantee between conversations; results are returned in input
// order regardless. Cancelling the context stops new conversations from
// starting, but results already computed are returned, not discarded.
func (p *Pipeline) ProcessBatch(ctx context.Context, convs []*model.Conversation, workers int) (*BatchResult, error) {
	if workers < 1 {
		workers = 1
	}

	batch := &BatchResult{}
	slots := make([]*model.RecommendationResult, len(convs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, conv := range convs {
		if gctx.Err() != nil {
			logging.From(ctx).Warn("batch cancelled, returning partial results",
				"remaining", len(convs)-i)
			break
		}

		g.Go(func() error {
			result, err := p.Process(gctx, conv)
			if err != nil {
				return err
			}
			slots[i] = result
			batch.record(result)
			return nil
		})
	}

	err := g.Wait()

	for _, result := range slots {
		if result != nil {
			batch.Results = append(batch.Results, result)
		}
	}

	if err != nil {
		return batch, goerr.Wrap(err, "batch processing aborted",
			goerr.V("processed", batch.Processed()), goerr.V("total", len(convs)))
	}
	return batch, nil
}
