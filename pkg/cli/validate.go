package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/healthmon-lab/panacea/pkg/cli/config"
	"github.com/healthmon-lab/panacea/pkg/service/guideline"
	"github.com/healthmon-lab/panacea/pkg/service/transcript"
	"github.com/healthmon-lab/panacea/pkg/utils/logging"
)

func cmdValidate() *cli.Command {
	var guidelinesPath string
	var inputPath string
	var scoringCfg config.Scoring
	var indexCfg config.Index

	var flags []cli.Flag
	flags = append(flags, &cli.StringFlag{
		Name:        "guidelines",
		Usage:       "Path to the guideline document (built-in corpus when empty)",
		Sources:     cli.EnvVars("PANACEA_GUIDELINES"),
		Destination: &guidelinesPath,
	})
	flags = append(flags, &cli.StringFlag{
		Name:        "input",
		Aliases:     []string{"i"},
		Usage:       "Transcript file to validate (if specified, parse check is performed)",
		Sources:     cli.EnvVars("PANACEA_INPUT"),
		Destination: &inputPath,
	})
	flags = append(flags, scoringCfg.Flags()...)
	flags = append(flags, indexCfg.Flags()...)

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate scoring config and guideline document without calling any LLM",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			// Step 1: Load and validate scoring configuration
			scoring, err := scoringCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "scoring config validation failed")
			}

			logger.Info("Scoring config validation passed",
				"lexicon_version", scoring.LexiconVersion,
				"lexicon_entries", len(scoring.Lexicon),
				"decay_half_life", scoring.DecayHalfLife,
			)

			// Step 2: Load the guideline document and check that it chunks
			doc, err := guideline.Load(ctx, guidelinesPath)
			if err != nil {
				return goerr.Wrap(err, "guideline document validation failed")
			}

			idxCfg := indexCfg.Config()
			passages, err := guideline.Split(doc, idxCfg.ChunkWindow, idxCfg.ChunkOverlap)
			if err != nil {
				return goerr.Wrap(err, "guideline document chunking failed")
			}

			logger.Info("Guideline document validation passed",
				"source", doc.Source,
				"passages", len(passages),
				"chunk_window", idxCfg.ChunkWindow,
				"chunk_overlap", idxCfg.ChunkOverlap,
			)

			// Step 3: If a transcript file is specified, check that it parses
			if inputPath == "" {
				logger.Info("No transcript file specified, skipping parse check")
				return nil
			}

			conversations, err := transcript.New().Load(ctx, inputPath)
			if err != nil {
				return goerr.Wrap(err, "transcript validation failed")
			}

			messages := 0
			for _, conv := range conversations {
				messages += len(conv.Messages)
			}
			logger.Info("Transcript validation passed",
				"conversations", len(conversations),
				"messages", messages,
			)
			return nil
		},
	}
}
