package model

import (
	"regexp"
	"slices"

	"github.com/m-mizutani/goerr/v2"
	"github.com/healthmon-lab/panacea/pkg/domain/types"
)

// FallbackReason explains why a recommendation left the grounded path
type FallbackReason string

const (
	FallbackNone               FallbackReason = ""
	FallbackNoPassages         FallbackReason = "no_passages"
	FallbackGenerationFailed   FallbackReason = "generation_failed"
	FallbackGroundingViolation FallbackReason = "grounding_violation"
)

// Degraded reports whether the fallback was caused by a recoverable failure
// rather than an empty corpus.
func (f FallbackReason) Degraded() bool {
	return f == FallbackGenerationFailed || f == FallbackGroundingViolation
}

// citationPattern matches inline passage citations such as [p00012]
var citationPattern = regexp.MustCompile(`\[(p\d{5})\]`)

// CitationsInText extracts all passage IDs cited inline in the given text
func CitationsInText(text string) []types.PassageID {
	matches := citationPattern.FindAllStringSubmatch(text, -1)
	seen := make(map[types.PassageID]struct{}, len(matches))
	var ids []types.PassageID
	for _, m := range matches {
		id := types.PassageID(m[1])
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// RecommendationResult is the final output of the pipeline for one
// conversation. Callers distinguish grounded from fallback output via the
// Fallback flag (equivalently, emptiness of CitedPassageIDs).
type RecommendationResult struct {
	ConversationID  types.ConversationID `json:"conversation_id"`
	Assessment      RiskAssessment       `json:"risk_assessment"`
	Recommendation  string               `json:"recommendation"`
	CitedPassageIDs []types.PassageID    `json:"cited_passage_ids"`
	Fallback        bool                 `json:"fallback"`
	FallbackReason  FallbackReason       `json:"fallback_reason,omitempty"`
}

// Grounded reports whether the recommendation is backed by cited passages
func (r *RecommendationResult) Grounded() bool {
	return !r.Fallback && len(r.CitedPassageIDs) > 0
}

// Validate checks the grounding invariants: every citation in the text must
// resolve to CitedPassageIDs, and a fallback result must not cite anything.
func (r *RecommendationResult) Validate() error {
	if r.Fallback {
		if len(r.CitedPassageIDs) != 0 {
			return goerr.New("fallback result must not carry citations",
				goerr.V("cited", r.CitedPassageIDs))
		}
		return nil
	}

	for _, id := range CitationsInText(r.Recommendation) {
		if !slices.Contains(r.CitedPassageIDs, id) {
			return goerr.New("citation in text does not resolve to cited passage IDs",
				goerr.V("id", id), goerr.V("cited", r.CitedPassageIDs))
		}
	}
	return nil
}
