package model

import (
	"github.com/healthmon-lab/panacea/pkg/domain/types"
)

// RiskAssessment is the aggregated risk of a single conversation. The tier is
// a pure function of the score; identical indicator sets always produce
// identical assessments.
type RiskAssessment struct {
	ConversationID types.ConversationID `json:"conversation_id"`
	Score          float64              `json:"score"`
	Tier           types.RiskTier       `json:"tier"`

	// ContributingIndicators is the full indicator set sorted by
	// weight × confidence descending, for explainability.
	ContributingIndicators []Indicator `json:"contributing_indicators"`
}

// TopIndicators returns up to n of the strongest contributing indicators
func (a *RiskAssessment) TopIndicators(n int) []Indicator {
	if n > len(a.ContributingIndicators) {
		n = len(a.ContributingIndicators)
	}
	return a.ContributingIndicators[:n]
}
