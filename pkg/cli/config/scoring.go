package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	domainConfig "github.com/healthmon-lab/panacea/pkg/domain/model/config"
	"github.com/healthmon-lab/panacea/pkg/domain/types"
	"github.com/healthmon-lab/panacea/pkg/utils/logging"
)

// Scoring holds CLI flags for scoring parameter configuration
type Scoring struct {
	path string
}

// Flags returns CLI flags for scoring configuration
func (s *Scoring) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "scoring-config",
			Usage:       "Path to a TOML file with lexicon, weights, decay and tier thresholds (built-in defaults when empty)",
			Sources:     cli.EnvVars("PANACEA_SCORING_CONFIG"),
			Destination: &s.path,
		},
	}
}

// scoringFile is the TOML representation of the scoring parameters
type scoringFile struct {
	LexiconVersion string             `toml:"lexicon_version"`
	DecayHalfLife  float64            `toml:"decay_half_life"`
	Weights        map[string]float64 `toml:"weights"`
	Thresholds     thresholdsFile     `toml:"thresholds"`
	Lexicon        []lexiconEntryFile `toml:"lexicon"`
}

type thresholdsFile struct {
	Moderate float64 `toml:"moderate"`
	High     float64 `toml:"high"`
	Critical float64 `toml:"critical"`
}

type lexiconEntryFile struct {
	Phrase     string  `toml:"phrase"`
	Category   string  `toml:"category"`
	Confidence float64 `toml:"confidence"`
}

// Configure loads the scoring configuration. An empty path yields the
// built-in defaults.
func (s *Scoring) Configure() (*domainConfig.ScoringConfig, error) {
	if s.path == "" {
		return domainConfig.DefaultScoringConfig(), nil
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, goerr.Wrap(ErrConfigNotFound, err.Error(), goerr.V(ConfigPathKey, s.path))
	}

	var file scoringFile
	if err := toml.Unmarshal(raw, &file); err != nil {
		return nil, goerr.Wrap(err, "failed to parse scoring config",
			goerr.V(ConfigPathKey, s.path))
	}

	cfg := &domainConfig.ScoringConfig{
		LexiconVersion: file.LexiconVersion,
		DecayHalfLife:  file.DecayHalfLife,
		Weights:        make(map[types.IndicatorCategory]float64, len(file.Weights)),
		Thresholds: domainConfig.TierThresholds{
			Moderate: file.Thresholds.Moderate,
			High:     file.Thresholds.High,
			Critical: file.Thresholds.Critical,
		},
	}

	for name, weight := range file.Weights {
		category, err := types.ParseIndicatorCategory(name)
		if err != nil {
			return nil, goerr.Wrap(ErrInvalidConfig, "unknown weight category",
				goerr.V(ConfigPathKey, s.path), goerr.V(CategoryKey, name))
		}
		cfg.Weights[category] = weight
	}

	for i, entry := range file.Lexicon {
		category, err := types.ParseIndicatorCategory(entry.Category)
		if err != nil {
			return nil, goerr.Wrap(ErrInvalidConfig, "unknown lexicon category",
				goerr.V(ConfigPathKey, s.path),
				goerr.V(EntryIndexKey, i),
				goerr.V(CategoryKey, entry.Category))
		}
		cfg.Lexicon = append(cfg.Lexicon, domainConfig.LexiconEntry{
			Phrase:     entry.Phrase,
			Category:   category,
			Confidence: entry.Confidence,
		})
	}

	if err := cfg.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid scoring config", goerr.V(ConfigPathKey, s.path))
	}

	logging.Default().Info("Loaded scoring config",
		"path", s.path,
		"lexicon_version", cfg.LexiconVersion,
		"lexicon_entries", len(cfg.Lexicon),
	)

	return cfg, nil
}
