package usecase

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/healthmon-lab/panacea/pkg/domain/interfaces"
	"github.com/healthmon-lab/panacea/pkg/domain/model"
	"github.com/healthmon-lab/panacea/pkg/domain/types"
	"github.com/healthmon-lab/panacea/pkg/utils/logging"
)

//go:embed prompt/recommend_system.md
var recommendSystemPrompt string

const (
	defaultTopK              = 5
	defaultGenerationTimeout = 30 * time.Second
	queryIndicatorCount      = 5
)

// fallbackMessage is the generic safety response used whenever a grounded
// recommendation cannot be produced. It is clearly labeled so downstream
// consumers never mistake it for personalized guidance.
const fallbackMessage = "[Safety notice] A guideline-grounded recommendation could not be " +
	"generated for this conversation. Please review the transcript and arrange in-person " +
	"care appropriate to the assessed risk tier. If the client is in crisis or mentions " +
	"harming themselves, contact emergency services or a 24/7 crisis helpline immediately."

// Recommender produces guideline-grounded recommendations. Each invocation
// walks a fixed state machine: compose query → retrieve → generate → verify
// citations, degrading to a labeled fallback on any recoverable failure.
type Recommender struct {
	index     interfaces.GuidelineIndex
	llmClient gollem.LLMClient
	topK      int
	timeout   time.Duration
}

// RecommenderOption configures a Recommender
type RecommenderOption func(*Recommender)

// WithTopK sets the number of passages retrieved per recommendation
func WithTopK(k int) RecommenderOption {
	return func(r *Recommender) {
		if k > 0 {
			r.topK = k
		}
	}
}

// WithGenerationTimeout bounds each external generation call
func WithGenerationTimeout(d time.Duration) RecommenderOption {
	return func(r *Recommender) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// NewRecommender creates a Recommender backed by the given index and LLM client
func NewRecommender(idx interfaces.GuidelineIndex, llmClient gollem.LLMClient, opts ...RecommenderOption) *Recommender {
	r := &Recommender{
		index:     idx,
		llmClient: llmClient,
		topK:      defaultTopK,
		timeout:   defaultGenerationTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// llmRecommendation is the structured output of the generation step
type llmRecommendation struct {
	Recommendation string   `json:"recommendation"`
	CitedPassages  []string `json:"cited_passages"`
}

// Recommend produces a RecommendationResult for the conversation. Recoverable
// failures (generation errors, grounding violations, empty retrieval) degrade
// the result to the fallback path and never return an error; only fatal index
// failures propagate.
func (r *Recommender) Recommend(ctx context.Context, conv *model.Conversation, assessment model.RiskAssessment) (*model.RecommendationResult, error) {
	logger := logging.From(ctx)

	query := composeQuery(assessment)

	retrieved, err := r.index.Query(ctx, query, r.topK)
	if err != nil {
		return nil, goerr.Wrap(err, "guideline retrieval failed",
			goerr.V("conversation_id", conv.ID))
	}

	if len(retrieved) == 0 {
		logger.Info("no guideline passages retrieved, falling back",
			"conversation_id", conv.ID)
		return fallbackResult(conv.ID, assessment, model.FallbackNoPassages), nil
	}

	generated, err := r.generate(ctx, assessment, retrieved)
	if err != nil {
		logger.Warn("generation failed, falling back",
			"conversation_id", conv.ID, "error", err.Error())
		return fallbackResult(conv.ID, assessment, model.FallbackGenerationFailed), nil
	}

	cited, err := verifyGrounding(generated, retrieved)
	if err != nil {
		logger.Warn("grounding violation, falling back",
			"conversation_id", conv.ID, "error", err.Error())
		return fallbackResult(conv.ID, assessment, model.FallbackGroundingViolation), nil
	}

	return &model.RecommendationResult{
		ConversationID:  conv.ID,
		Assessment:      assessment,
		Recommendation:  generated.Recommendation,
		CitedPassageIDs: cited,
	}, nil
}

// composeQuery builds the retrieval query from the risk tier and the top
// contributing indicators. The template is deterministic on purpose: feeding
// the raw transcript into retrieval would make results irreproducible and
// unfocused.
func composeQuery(assessment model.RiskAssessment) string {
	top := assessment.TopIndicators(queryIndicatorCount)
	if len(top) == 0 {
		return fmt.Sprintf("general wellbeing guidance for a client at %s risk", assessment.Tier)
	}

	parts := make([]string, len(top))
	for i, ind := range top {
		parts[i] = fmt.Sprintf("%s (%s)", ind.Value, ind.Category)
	}
	return fmt.Sprintf("recommended care for a client at %s risk presenting: %s",
		assessment.Tier, strings.Join(parts, ", "))
}

// generate invokes the external generation step with a bounded timeout. The
// call is detached from batch cancellation so that an in-flight generation
// completes or times out instead of being torn down mid-request.
func (r *Recommender) generate(ctx context.Context, assessment model.RiskAssessment, retrieved model.RetrievalResult) (*llmRecommendation, error) {
	genCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	defer cancel()

	session, err := r.llmClient.NewSession(genCtx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(recommendationSchema()),
		gollem.WithSessionSystemPrompt(recommendSystemPrompt),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create LLM session",
			goerr.T(types.ErrTagGenerationFailure))
	}

	resp, err := session.GenerateContent(genCtx, gollem.Text(buildUserPrompt(assessment, retrieved)))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate recommendation",
			goerr.T(types.ErrTagGenerationFailure))
	}
	if len(resp.Texts) == 0 {
		return nil, goerr.New("empty generation response",
			goerr.T(types.ErrTagGenerationFailure))
	}

	var out llmRecommendation
	if err := json.Unmarshal([]byte(resp.Texts[0]), &out); err != nil {
		return nil, goerr.Wrap(err, "failed to parse generation response",
			goerr.T(types.ErrTagGenerationFailure), goerr.V("response", resp.Texts[0]))
	}
	if strings.TrimSpace(out.Recommendation) == "" {
		return nil, goerr.New("generation returned no recommendation text",
			goerr.T(types.ErrTagGenerationFailure))
	}

	return &out, nil
}

// verifyGrounding enforces the grounding invariant: every passage ID the
// model cited, whether in the citation list or inline in the text, must be in
// the retrieved set.
func verifyGrounding(generated *llmRecommendation, retrieved model.RetrievalResult) ([]types.PassageID, error) {
	seen := make(map[types.PassageID]struct{})
	var cited []types.PassageID

	add := func(id types.PassageID) error {
		if !retrieved.Contains(id) {
			return goerr.New("generated text cites an unretrieved passage",
				goerr.T(types.ErrTagGroundingViolation),
				goerr.V("id", id), goerr.V("retrieved", retrieved.PassageIDs()))
		}
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			cited = append(cited, id)
		}
		return nil
	}

	for _, raw := range generated.CitedPassages {
		if err := add(types.PassageID(raw)); err != nil {
			return nil, err
		}
	}
	for _, id := range model.CitationsInText(generated.Recommendation) {
		if err := add(id); err != nil {
			return nil, err
		}
	}

	if len(cited) == 0 {
		return nil, goerr.New("generated recommendation cites no passages",
			goerr.T(types.ErrTagGroundingViolation))
	}

	return cited, nil
}

func buildUserPrompt(assessment model.RiskAssessment, retrieved model.RetrievalResult) string {
	var sb strings.Builder

	sb.WriteString("## Guideline passages\n\n")
	for _, rp := range retrieved {
		fmt.Fprintf(&sb, "[%s]\n%s\n\n", rp.Passage.ID, rp.Passage.Text)
	}

	fmt.Fprintf(&sb, "## Risk assessment\n\nTier: %s (score %.1f)\n\n", assessment.Tier, assessment.Score)

	if len(assessment.ContributingIndicators) > 0 {
		sb.WriteString("Contributing signals, strongest first:\n")
		for _, ind := range assessment.ContributingIndicators {
			fmt.Fprintf(&sb, "- %s (%s, confidence %.2f)\n", ind.Value, ind.Category, ind.Confidence)
		}
	} else {
		sb.WriteString("No specific signals were extracted from the conversation.\n")
	}

	sb.WriteString("\nWrite the recommendation now.")
	return sb.String()
}

func recommendationSchema() *gollem.Parameter {
	return &gollem.Parameter{
		Title:       "GroundedRecommendation",
		Description: "A recommendation grounded in the provided guideline passages",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"recommendation": {
				Type:        gollem.TypeString,
				Description: "The recommendation text with inline passage citations like [p00001]",
				Required:    true,
			},
			"cited_passages": {
				Type:        gollem.TypeArray,
				Description: "IDs of every passage cited in the recommendation",
				Items: &gollem.Parameter{
					Type: gollem.TypeString,
				},
				Required: true,
			},
		},
	}
}

func fallbackResult(convID types.ConversationID, assessment model.RiskAssessment, reason model.FallbackReason) *model.RecommendationResult {
	return &model.RecommendationResult{
		ConversationID: convID,
		Assessment:     assessment,
		Recommendation: fallbackMessage,
		Fallback:       true,
		FallbackReason: reason,
	}
}
