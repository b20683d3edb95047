package usecase_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"
	"github.com/healthmon-lab/panacea/pkg/domain/model"
	"github.com/healthmon-lab/panacea/pkg/domain/types"
	"github.com/healthmon-lab/panacea/pkg/usecase"
)

func testPipeline(idx *mockIndex, llm *mockLLMClient) *usecase.Pipeline {
	cfg := testScoringConfig()
	return usecase.NewPipeline(
		usecase.NewExtractor(cfg),
		usecase.NewScorer(cfg),
		usecase.NewRecommender(idx, llm),
	)
}

func groundedIndex() *mockIndex {
	return &mockIndex{
		queryFn: func(ctx context.Context, text string, k int) (model.RetrievalResult, error) {
			return fixedRetrieval("p00000", "p00001"), nil
		},
	}
}

func TestPipeline_Process(t *testing.T) {
	pipeline := testPipeline(groundedIndex(), sessionReplying(
		`{"recommendation":"Offer testing [p00000]","cited_passages":["p00000"]}`,
	))

	conv := conversationOf(
		"I have had a fever and night sweats",
		"We also had unprotected sex last month",
	)

	result, err := pipeline.Process(context.Background(), conv)
	gt.NoError(t, err).Required()

	gt.Value(t, result.ConversationID).Equal(conv.ID)
	gt.Value(t, result.Assessment.ConversationID).Equal(conv.ID)
	gt.Bool(t, result.Assessment.Score > 0).True()
	gt.Array(t, result.Assessment.ContributingIndicators).Length(3)
	gt.Bool(t, result.Grounded()).True()
}

func TestPipeline_Process_EmptyConversation(t *testing.T) {
	pipeline := testPipeline(groundedIndex(), sessionReplying(
		`{"recommendation":"General wellbeing check [p00000]","cited_passages":["p00000"]}`,
	))

	result, err := pipeline.Process(context.Background(), &model.Conversation{ID: "conv-0001"})
	gt.NoError(t, err).Required()

	gt.Value(t, result.Assessment.Score).Equal(0.0)
	gt.Value(t, result.Assessment.Tier).Equal(types.TierLow)
	gt.Bool(t, result.Grounded()).True()
}

func TestPipeline_Process_NilConversation(t *testing.T) {
	pipeline := testPipeline(groundedIndex(), &mockLLMClient{})

	_, err := pipeline.Process(context.Background(), nil)
	gt.Error(t, err)
}

func TestPipeline_ProcessBatch(t *testing.T) {
	pipeline := testPipeline(groundedIndex(), sessionReplying(
		`{"recommendation":"Offer testing [p00000]","cited_passages":["p00000"]}`,
	))

	convs := []*model.Conversation{
		conversationOf("I have a fever"),
		conversationOf("night sweats again"),
		conversationOf("just saying hi"),
	}
	for i, conv := range convs {
		conv.ID = types.ConversationID(fmt.Sprintf("conv-%04d", i+1))
	}

	batch, err := pipeline.ProcessBatch(context.Background(), convs, 2)
	gt.NoError(t, err).Required()

	gt.Number(t, batch.Processed()).Equal(3)
	gt.Number(t, batch.Fallbacks()).Equal(0)
	gt.Array(t, batch.Results).Length(3).Required()

	// Results come back in input order regardless of completion order
	gt.Value(t, batch.Results[0].ConversationID).Equal(types.ConversationID("conv-0001"))
	gt.Value(t, batch.Results[1].ConversationID).Equal(types.ConversationID("conv-0002"))
	gt.Value(t, batch.Results[2].ConversationID).Equal(types.ConversationID("conv-0003"))
}

func TestPipeline_ProcessBatch_CountsFallbacks(t *testing.T) {
	var calls atomic.Int64
	llm := &mockLLMClient{
		newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			return &mockLLMSession{
				generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
					// Every other generation returns unusable output
					if calls.Add(1)%2 == 0 {
						return &gollem.Response{Texts: []string{"not json"}}, nil
					}
					return &gollem.Response{
						Texts: []string{`{"recommendation":"Offer testing [p00000]","cited_passages":["p00000"]}`},
					}, nil
				},
			}, nil
		},
	}
	pipeline := testPipeline(groundedIndex(), llm)

	convs := []*model.Conversation{
		conversationOf("fever"),
		conversationOf("fever"),
		conversationOf("fever"),
		conversationOf("fever"),
	}

	batch, err := pipeline.ProcessBatch(context.Background(), convs, 1)
	gt.NoError(t, err).Required()

	gt.Number(t, batch.Processed()).Equal(4)
	gt.Number(t, batch.Fallbacks()).Equal(2)
	gt.Number(t, batch.Degraded()).Equal(2)
}

func TestPipeline_ProcessBatch_CancelReturnsPartial(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var started atomic.Int64
	idx := &mockIndex{
		queryFn: func(qctx context.Context, text string, k int) (model.RetrievalResult, error) {
			if started.Add(1) == 2 {
				cancel()
				// Give the batch loop a moment to observe the cancellation
				time.Sleep(20 * time.Millisecond)
			}
			return fixedRetrieval("p00000"), nil
		},
	}
	pipeline := testPipeline(idx, sessionReplying(
		`{"recommendation":"Offer testing [p00000]","cited_passages":["p00000"]}`,
	))

	convs := make([]*model.Conversation, 50)
	for i := range convs {
		convs[i] = conversationOf("fever")
		convs[i].ID = types.NewConversationID()
	}

	batch, err := pipeline.ProcessBatch(ctx, convs, 1)
	gt.NoError(t, err).Required()

	// Work stops once cancellation is observed, but completed results survive
	gt.Bool(t, batch.Processed() >= 1).True()
	gt.Bool(t, batch.Processed() < len(convs)).True()
	gt.Number(t, len(batch.Results)).Equal(batch.Processed())
}
