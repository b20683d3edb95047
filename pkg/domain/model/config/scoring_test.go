package config_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/healthmon-lab/panacea/pkg/domain/model/config"
	"github.com/healthmon-lab/panacea/pkg/domain/types"
)

func TestTierThresholds_TierFor(t *testing.T) {
	thresholds := config.TierThresholds{Moderate: 25, High: 60, Critical: 85}

	tests := []struct {
		name  string
		score float64
		want  types.RiskTier
	}{
		{name: "zero", score: 0, want: types.TierLow},
		{name: "just below moderate", score: 24.999, want: types.TierLow},
		{name: "moderate boundary", score: 25, want: types.TierModerate},
		{name: "mid moderate", score: 40, want: types.TierModerate},
		{name: "high boundary", score: 60, want: types.TierHigh},
		{name: "just below critical", score: 84.999, want: types.TierHigh},
		{name: "critical boundary", score: 85, want: types.TierCritical},
		{name: "maximum", score: 100, want: types.TierCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, thresholds.TierFor(tt.score)).Equal(tt.want)
		})
	}
}

func TestTierThresholds_Validate(t *testing.T) {
	ok := config.TierThresholds{Moderate: 25, High: 60, Critical: 85}
	gt.NoError(t, ok.Validate())

	unordered := config.TierThresholds{Moderate: 60, High: 25, Critical: 85}
	gt.Error(t, unordered.Validate())

	overflow := config.TierThresholds{Moderate: 25, High: 60, Critical: 120}
	gt.Error(t, overflow.Validate())

	zero := config.TierThresholds{}
	gt.Error(t, zero.Validate())
}

func TestScoringConfig_Decay(t *testing.T) {
	cfg := config.ScoringConfig{DecayHalfLife: 10}

	// The most recent message decays not at all
	gt.Value(t, cfg.Decay(9, 9)).Equal(1.0)

	// Exactly one half-life back halves the contribution
	gt.Value(t, cfg.Decay(0, 10)).Equal(0.5)

	// Decay is monotonically non-increasing with age
	prev := 1.0
	for age := 0; age <= 30; age++ {
		factor := cfg.Decay(30-age, 30)
		gt.Bool(t, factor <= prev).True()
		gt.Bool(t, factor > 0).True()
		prev = factor
	}

	// Zero half-life disables decay
	flat := config.ScoringConfig{DecayHalfLife: 0}
	gt.Value(t, flat.Decay(0, 100)).Equal(1.0)
}

func TestScoringConfig_Validate(t *testing.T) {
	gt.NoError(t, config.DefaultScoringConfig().Validate())

	t.Run("missing lexicon version", func(t *testing.T) {
		cfg := config.DefaultScoringConfig()
		cfg.LexiconVersion = ""
		gt.Error(t, cfg.Validate())
	})

	t.Run("empty lexicon", func(t *testing.T) {
		cfg := config.DefaultScoringConfig()
		cfg.Lexicon = nil
		gt.Error(t, cfg.Validate())
	})

	t.Run("missing category weight", func(t *testing.T) {
		cfg := config.DefaultScoringConfig()
		delete(cfg.Weights, types.CategoryUrgency)
		gt.Error(t, cfg.Validate())
	})

	t.Run("non-positive weight", func(t *testing.T) {
		cfg := config.DefaultScoringConfig()
		cfg.Weights[types.CategorySymptom] = 0
		gt.Error(t, cfg.Validate())
	})

	t.Run("bad lexicon entry", func(t *testing.T) {
		cfg := config.DefaultScoringConfig()
		cfg.Lexicon = append(cfg.Lexicon, config.LexiconEntry{
			Phrase:     "dizzy",
			Category:   types.CategorySymptom,
			Confidence: 1.5,
		})
		gt.Error(t, cfg.Validate())
	})
}

func TestDefaultScoringConfig_CriticalReachable(t *testing.T) {
	cfg := config.DefaultScoringConfig()

	// A single high-confidence urgency indicator must clear the critical
	// threshold on its own.
	found := false
	for _, entry := range cfg.Lexicon {
		if entry.Category != types.CategoryUrgency {
			continue
		}
		if cfg.Weight(entry.Category)*entry.Confidence >= cfg.Thresholds.Critical {
			found = true
			break
		}
	}
	gt.Bool(t, found).True()
}
