package usecase

import (
	"sort"

	"github.com/healthmon-lab/panacea/pkg/domain/model"
	"github.com/healthmon-lab/panacea/pkg/domain/model/config"
)

// Scorer aggregates indicators into a single risk score and tier. The
// aggregation is deterministic and auditable: no hidden state, no randomness,
// identical indicator sets always produce identical assessments.
type Scorer struct {
	cfg *config.ScoringConfig
}

// NewScorer creates a Scorer with the given scoring configuration
func NewScorer(cfg *config.ScoringConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score computes clamp(Σ weight × confidence × decay, 0, 100) over the
// indicators and maps the result onto a tier. Recency decay is measured from
// the conversation's last message, so current-state signals outweigh
// historical ones. An empty indicator sequence yields score 0, tier low.
func (s *Scorer) Score(conv *model.Conversation, indicators []model.Indicator) model.RiskAssessment {
	lastIndex := 0
	if conv != nil {
		lastIndex = conv.LastMessageIndex()
	}
	for _, ind := range indicators {
		if ind.SourceMessageIndex > lastIndex {
			lastIndex = ind.SourceMessageIndex
		}
	}

	var score float64
	for _, ind := range indicators {
		score += s.cfg.Weight(ind.Category) * ind.Confidence * s.cfg.Decay(ind.SourceMessageIndex, lastIndex)
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	contributing := make([]model.Indicator, len(indicators))
	copy(contributing, indicators)
	sort.SliceStable(contributing, func(i, j int) bool {
		a, b := contributing[i], contributing[j]
		wa := s.cfg.Weight(a.Category) * a.Confidence
		wb := s.cfg.Weight(b.Category) * b.Confidence
		if wa != wb {
			return wa > wb
		}
		if a.SourceMessageIndex != b.SourceMessageIndex {
			return a.SourceMessageIndex < b.SourceMessageIndex
		}
		return a.Value < b.Value
	})

	assessment := model.RiskAssessment{
		Score:                  score,
		Tier:                   s.cfg.Thresholds.TierFor(score),
		ContributingIndicators: contributing,
	}
	if conv != nil {
		assessment.ConversationID = conv.ID
	}
	return assessment
}
