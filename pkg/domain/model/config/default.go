package config

import "github.com/healthmon-lab/panacea/pkg/domain/types"

// DefaultScoringConfig returns the built-in scoring parameters. The lexicon
// is tuned for HIV and mental-health screening transcripts; deployments for
// other programs should ship their own TOML file.
func DefaultScoringConfig() *ScoringConfig {
	return &ScoringConfig{
		LexiconVersion: "builtin-v1",
		Weights: map[types.IndicatorCategory]float64{
			types.CategorySymptom:      45,
			types.CategoryBehavioral:   35,
			types.CategoryVital:        40,
			types.CategoryPsychosocial: 30,
			types.CategoryUrgency:      90,
		},
		DecayHalfLife: 10,
		Thresholds: TierThresholds{
			Moderate: 25,
			High:     60,
			Critical: 85,
		},
		Lexicon: defaultLexicon(),
	}
}

func defaultLexicon() []LexiconEntry {
	symptom := func(phrase string, confidence float64) LexiconEntry {
		return LexiconEntry{Phrase: phrase, Category: types.CategorySymptom, Confidence: confidence}
	}
	behavioral := func(phrase string, confidence float64) LexiconEntry {
		return LexiconEntry{Phrase: phrase, Category: types.CategoryBehavioral, Confidence: confidence}
	}
	vital := func(phrase string, confidence float64) LexiconEntry {
		return LexiconEntry{Phrase: phrase, Category: types.CategoryVital, Confidence: confidence}
	}
	psychosocial := func(phrase string, confidence float64) LexiconEntry {
		return LexiconEntry{Phrase: phrase, Category: types.CategoryPsychosocial, Confidence: confidence}
	}
	urgency := func(phrase string, confidence float64) LexiconEntry {
		return LexiconEntry{Phrase: phrase, Category: types.CategoryUrgency, Confidence: confidence}
	}

	return []LexiconEntry{
		// Physical symptoms
		symptom("fever", 0.6),
		symptom("night sweats", 0.7),
		symptom("weight loss", 0.6),
		symptom("fatigue", 0.4),
		symptom("swollen glands", 0.7),
		symptom("rash", 0.5),
		symptom("sore throat", 0.4),
		symptom("muscle aches", 0.4),
		symptom("genital sores", 0.8),
		symptom("discharge", 0.6),

		// Risk behaviors
		behavioral("unprotected", 0.8),
		behavioral("multiple partners", 0.8),
		behavioral("needle sharing", 0.9),
		behavioral("injection drug", 0.9),
		behavioral("sex work", 0.8),
		behavioral("recent exposure", 0.8),
		behavioral("missed medication", 0.6),
		behavioral("stopped treatment", 0.7),
		behavioral("sexually transmitted", 0.7),

		// Vital-sign style observations
		vital("high blood pressure", 0.6),
		vital("heart racing", 0.5),
		vital("short of breath", 0.7),
		vital("dizzy", 0.4),
		vital("fainted", 0.7),

		// Psychosocial state
		psychosocial("depressed", 0.6),
		psychosocial("anxious", 0.5),
		psychosocial("stressed", 0.4),
		psychosocial("cant sleep", 0.5),
		psychosocial("panic", 0.6),
		psychosocial("trauma", 0.6),
		psychosocial("abuse", 0.7),
		psychosocial("isolated", 0.5),
		psychosocial("crying", 0.5),
		psychosocial("hopeless", 0.8),
		psychosocial("worthless", 0.8),

		// Urgent crisis markers
		urgency("suicide", 0.95),
		urgency("self harm", 0.95),
		urgency("cant go on", 0.9),
		urgency("ending it", 0.9),
		urgency("death wish", 0.9),
		urgency("hearing voices", 0.85),
		urgency("overdose", 0.9),
		urgency("chest pain", 0.8),
	}
}
