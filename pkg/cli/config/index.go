package config

import (
	"time"

	"github.com/urfave/cli/v3"

	"github.com/healthmon-lab/panacea/pkg/service/index"
)

// Index holds CLI flags for guideline index configuration
type Index struct {
	chunkWindow     int
	chunkOverlap    int
	topK            int
	bruteForceMax   int
	tieTolerance    float64
	refreshInterval time.Duration
}

// Flags returns CLI flags for index configuration
func (x *Index) Flags() []cli.Flag {
	defaults := index.DefaultConfig()
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "chunk-window",
			Usage:       "Passage size in words",
			Value:       defaults.ChunkWindow,
			Sources:     cli.EnvVars("PANACEA_CHUNK_WINDOW"),
			Destination: &x.chunkWindow,
		},
		&cli.IntFlag{
			Name:        "chunk-overlap",
			Usage:       "Passage overlap in words",
			Value:       defaults.ChunkOverlap,
			Sources:     cli.EnvVars("PANACEA_CHUNK_OVERLAP"),
			Destination: &x.chunkOverlap,
		},
		&cli.IntFlag{
			Name:        "top-k",
			Usage:       "Passages retrieved per recommendation",
			Value:       5,
			Sources:     cli.EnvVars("PANACEA_TOP_K"),
			Destination: &x.topK,
		},
		&cli.IntFlag{
			Name:        "brute-force-max",
			Usage:       "Passage count up to which retrieval uses an exact scan",
			Value:       defaults.BruteForceMax,
			Sources:     cli.EnvVars("PANACEA_BRUTE_FORCE_MAX"),
			Destination: &x.bruteForceMax,
		},
		&cli.FloatFlag{
			Name:        "tie-tolerance",
			Usage:       "Similarity difference treated as a tie",
			Value:       defaults.TieTolerance,
			Sources:     cli.EnvVars("PANACEA_TIE_TOLERANCE"),
			Destination: &x.tieTolerance,
		},
		&cli.DurationFlag{
			Name:        "index-refresh-interval",
			Usage:       "Rebuild interval for the guideline index in serve mode (0 disables refresh)",
			Value:       0,
			Sources:     cli.EnvVars("PANACEA_INDEX_REFRESH_INTERVAL"),
			Destination: &x.refreshInterval,
		},
	}
}

// Config returns the index configuration built from the flags
func (x *Index) Config() index.Config {
	return index.Config{
		ChunkWindow:   x.chunkWindow,
		ChunkOverlap:  x.chunkOverlap,
		BruteForceMax: x.bruteForceMax,
		TieTolerance:  x.tieTolerance,
	}
}

// TopK returns the configured retrieval depth
func (x *Index) TopK() int {
	return x.topK
}

// RefreshInterval returns the serve-mode rebuild interval
func (x *Index) RefreshInterval() time.Duration {
	return x.refreshInterval
}
