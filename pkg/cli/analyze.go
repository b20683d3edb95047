package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/healthmon-lab/panacea/pkg/cli/config"
	"github.com/healthmon-lab/panacea/pkg/domain/types"
	"github.com/healthmon-lab/panacea/pkg/service/embedding"
	"github.com/healthmon-lab/panacea/pkg/service/guideline"
	"github.com/healthmon-lab/panacea/pkg/service/index"
	"github.com/healthmon-lab/panacea/pkg/service/transcript"
	"github.com/healthmon-lab/panacea/pkg/usecase"
	"github.com/healthmon-lab/panacea/pkg/utils/logging"
	"github.com/healthmon-lab/panacea/pkg/utils/safe"
)

func cmdAnalyze() *cli.Command {
	var inputPath string
	var guidelinesPath string
	var outputPath string
	var workers int
	var limit int
	var llmCfg config.LLM
	var scoringCfg config.Scoring
	var indexCfg config.Index

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "input",
			Aliases:     []string{"i"},
			Usage:       "Path to the transcript file (required)",
			Required:    true,
			Sources:     cli.EnvVars("PANACEA_INPUT"),
			Destination: &inputPath,
		},
		&cli.StringFlag{
			Name:        "guidelines",
			Usage:       "Path to the guideline document (built-in corpus when empty)",
			Sources:     cli.EnvVars("PANACEA_GUIDELINES"),
			Destination: &guidelinesPath,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Path for JSONL results (- for stdout)",
			Value:       "-",
			Sources:     cli.EnvVars("PANACEA_OUTPUT"),
			Destination: &outputPath,
		},
		&cli.IntFlag{
			Name:        "workers",
			Usage:       "Concurrent conversations",
			Value:       4,
			Sources:     cli.EnvVars("PANACEA_WORKERS"),
			Destination: &workers,
		},
		&cli.IntFlag{
			Name:        "limit",
			Usage:       "Analyze at most this many conversations (0 means all)",
			Value:       0,
			Destination: &limit,
		},
	}

	// Add shared config flags
	flags = append(flags, llmCfg.Flags()...)
	flags = append(flags, scoringCfg.Flags()...)
	flags = append(flags, indexCfg.Flags()...)

	return &cli.Command{
		Name:    "analyze",
		Aliases: []string{"a"},
		Usage:   "Score a batch of transcripts and produce grounded recommendations",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			// Stop issuing new generations on SIGINT/SIGTERM; partial
			// results are still written.
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			scoring, err := scoringCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load scoring config")
			}

			llmClient, err := llmCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize LLM client")
			}

			embedder, err := embedding.New(llmClient, llmCfg.EmbeddingModel(), llmCfg.EmbeddingDimension())
			if err != nil {
				return goerr.Wrap(err, "failed to initialize embedder")
			}

			doc, err := guideline.Load(ctx, guidelinesPath)
			if err != nil {
				return goerr.Wrap(err, "failed to load guideline document")
			}

			idx, err := index.Build(ctx, embedder, doc, indexCfg.Config())
			if err != nil {
				return goerr.Wrap(err, "failed to build guideline index")
			}

			conversations, err := transcript.New().Load(ctx, inputPath)
			if err != nil {
				return goerr.Wrap(err, "failed to load transcripts")
			}
			if limit > 0 && limit < len(conversations) {
				conversations = conversations[:limit]
			}

			logging.Default().Info("Starting analysis",
				"conversations", len(conversations),
				"passages", idx.Size(),
				"workers", workers,
			)

			uc := usecase.New(idx, llmClient,
				usecase.WithScoringConfig(scoring),
				usecase.WithRecommenderOptions(
					usecase.WithTopK(indexCfg.TopK()),
					usecase.WithGenerationTimeout(llmCfg.GenerationTimeout()),
				),
			)

			batch, err := uc.Pipeline.ProcessBatch(ctx, conversations, workers)
			if err != nil {
				return goerr.Wrap(err, "batch analysis failed")
			}

			if err := writeResults(ctx, outputPath, batch); err != nil {
				return err
			}

			printSummary(batch)
			return nil
		},
	}
}

func writeResults(ctx context.Context, path string, batch *usecase.BatchResult) error {
	w := os.Stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return goerr.Wrap(err, "failed to create output file", goerr.V("path", path))
		}
		defer safe.Close(ctx, f)
		w = f
	}

	enc := json.NewEncoder(w)
	for _, result := range batch.Results {
		if err := enc.Encode(result); err != nil {
			return goerr.Wrap(err, "failed to write result",
				goerr.V("conversation_id", result.ConversationID))
		}
	}
	return nil
}

func printSummary(batch *usecase.BatchResult) {
	tierColors := map[types.RiskTier]*color.Color{
		types.TierLow:      color.New(color.FgGreen),
		types.TierModerate: color.New(color.FgYellow),
		types.TierHigh:     color.New(color.FgHiYellow),
		types.TierCritical: color.New(color.FgRed, color.Bold),
	}

	counts := make(map[types.RiskTier]int)
	for _, result := range batch.Results {
		counts[result.Assessment.Tier]++
	}

	fmt.Fprintf(os.Stderr, "\nAnalyzed %d conversations\n", batch.Processed())
	for _, tier := range types.AllRiskTiers() {
		tierColors[tier].Fprintf(os.Stderr, "  %-8s %d\n", tier, counts[tier])
	}
	if batch.Fallbacks() > 0 {
		fmt.Fprintf(os.Stderr, "  fallback results: %d (degraded: %d)\n",
			batch.Fallbacks(), batch.Degraded())
	}
}
