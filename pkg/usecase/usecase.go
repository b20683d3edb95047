package usecase

import (
	"github.com/m-mizutani/gollem"
	"github.com/healthmon-lab/panacea/pkg/domain/interfaces"
	"github.com/healthmon-lab/panacea/pkg/domain/model/config"
)

// UseCases bundles the pipeline stages with their shared configuration
type UseCases struct {
	scoringCfg      *config.ScoringConfig
	recommenderOpts []RecommenderOption

	Extractor   *Extractor
	Scorer      *Scorer
	Recommender *Recommender
	Pipeline    *Pipeline
}

// Option is a functional option for UseCases
type Option func(*UseCases)

// WithScoringConfig overrides the built-in scoring parameters
func WithScoringConfig(cfg *config.ScoringConfig) Option {
	return func(uc *UseCases) {
		uc.scoringCfg = cfg
	}
}

// WithRecommenderOptions forwards options to the Recommender
func WithRecommenderOptions(opts ...RecommenderOption) Option {
	return func(uc *UseCases) {
		uc.recommenderOpts = append(uc.recommenderOpts, opts...)
	}
}

// New wires the pipeline stages together
func New(idx interfaces.GuidelineIndex, llmClient gollem.LLMClient, opts ...Option) *UseCases {
	uc := &UseCases{
		scoringCfg: config.DefaultScoringConfig(),
	}
	for _, opt := range opts {
		opt(uc)
	}

	uc.Extractor = NewExtractor(uc.scoringCfg)
	uc.Scorer = NewScorer(uc.scoringCfg)
	uc.Recommender = NewRecommender(idx, llmClient, uc.recommenderOpts...)
	uc.Pipeline = NewPipeline(uc.Extractor, uc.Scorer, uc.Recommender)

	return uc
}
