package config

import (
	"math"

	"github.com/m-mizutani/goerr/v2"
	"github.com/healthmon-lab/panacea/pkg/domain/types"
)

// LexiconEntry is one rule matcher: a phrase that, when found in normalized
// message text, yields an indicator of the given category and base confidence.
type LexiconEntry struct {
	Phrase     string
	Category   types.IndicatorCategory
	Confidence float64
}

// Validate checks if the LexiconEntry is valid
func (e *LexiconEntry) Validate() error {
	if e.Phrase == "" {
		return goerr.New("lexicon phrase is required")
	}
	if !e.Category.IsValid() {
		return goerr.New("invalid lexicon category",
			goerr.V("phrase", e.Phrase), goerr.V("category", e.Category))
	}
	if e.Confidence <= 0 || e.Confidence > 1 {
		return goerr.New("lexicon confidence must be within (0,1]",
			goerr.V("phrase", e.Phrase), goerr.V("confidence", e.Confidence))
	}
	return nil
}

// TierThresholds are the score boundaries between risk tiers. The intervals
// are half-open and partition [0,100]: low < Moderate ≤ moderate < High ≤
// high < Critical ≤ critical.
type TierThresholds struct {
	Moderate float64
	High     float64
	Critical float64
}

// Validate checks if the thresholds are ordered and within range
func (t *TierThresholds) Validate() error {
	if !(0 < t.Moderate && t.Moderate < t.High && t.High < t.Critical && t.Critical <= 100) {
		return goerr.New("tier thresholds must satisfy 0 < moderate < high < critical <= 100",
			goerr.V("moderate", t.Moderate),
			goerr.V("high", t.High),
			goerr.V("critical", t.Critical))
	}
	return nil
}

// TierFor maps a score onto its risk tier
func (t *TierThresholds) TierFor(score float64) types.RiskTier {
	switch {
	case score >= t.Critical:
		return types.TierCritical
	case score >= t.High:
		return types.TierHigh
	case score >= t.Moderate:
		return types.TierModerate
	default:
		return types.TierLow
	}
}

// ScoringConfig holds the tunable business parameters of indicator extraction
// and risk scoring: the lexicon, category weights, the recency decay curve and
// the tier thresholds. The defaults are illustrative, not clinical truth;
// deployments override them via a TOML file.
type ScoringConfig struct {
	// LexiconVersion identifies the matcher set. It is recorded so that
	// scores can be traced back to the rules that produced them.
	LexiconVersion string

	Lexicon []LexiconEntry

	// Weights scale a category's contribution to the score. A single
	// indicator contributes weight × confidence × decay.
	Weights map[types.IndicatorCategory]float64

	// DecayHalfLife is the distance, in messages from the end of the
	// conversation, at which an indicator's contribution halves. Zero or
	// negative disables decay.
	DecayHalfLife float64

	Thresholds TierThresholds
}

// Validate checks if the ScoringConfig is valid
func (c *ScoringConfig) Validate() error {
	if c.LexiconVersion == "" {
		return goerr.New("lexicon version is required")
	}
	if len(c.Lexicon) == 0 {
		return goerr.New("lexicon must contain at least one entry")
	}
	for i := range c.Lexicon {
		if err := c.Lexicon[i].Validate(); err != nil {
			return goerr.Wrap(err, "invalid lexicon entry", goerr.V("index", i))
		}
	}
	for _, category := range types.AllIndicatorCategories() {
		w, ok := c.Weights[category]
		if !ok {
			return goerr.New("missing category weight", goerr.V("category", category))
		}
		if w <= 0 {
			return goerr.New("category weight must be positive",
				goerr.V("category", category), goerr.V("weight", w))
		}
	}
	if err := c.Thresholds.Validate(); err != nil {
		return goerr.Wrap(err, "invalid tier thresholds")
	}
	return nil
}

// Decay returns the recency factor for an indicator found at msgIndex in a
// conversation whose last message is lastIndex. The factor is 1.0 at the most
// recent message and monotonically non-increasing toward older ones.
func (c *ScoringConfig) Decay(msgIndex, lastIndex int) float64 {
	if c.DecayHalfLife <= 0 || lastIndex <= msgIndex {
		return 1.0
	}
	age := float64(lastIndex - msgIndex)
	return math.Pow(0.5, age/c.DecayHalfLife)
}

// Weight returns the configured weight for the category, or zero for an
// unknown category.
func (c *ScoringConfig) Weight(category types.IndicatorCategory) float64 {
	return c.Weights[category]
}
