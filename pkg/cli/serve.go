package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/healthmon-lab/panacea/pkg/cli/config"
	httpctrl "github.com/healthmon-lab/panacea/pkg/controller/http"
	"github.com/healthmon-lab/panacea/pkg/service/embedding"
	"github.com/healthmon-lab/panacea/pkg/service/guideline"
	"github.com/healthmon-lab/panacea/pkg/service/index"
	"github.com/healthmon-lab/panacea/pkg/service/worker"
	"github.com/healthmon-lab/panacea/pkg/usecase"
	"github.com/healthmon-lab/panacea/pkg/utils/logging"
)

func cmdServe() *cli.Command {
	var addr string
	var guidelinesPath string
	var llmCfg config.LLM
	var scoringCfg config.Scoring
	var indexCfg config.Index

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("PANACEA_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "guidelines",
			Usage:       "Path to the guideline document (built-in corpus when empty)",
			Sources:     cli.EnvVars("PANACEA_GUIDELINES"),
			Destination: &guidelinesPath,
		},
	}

	// Add shared config flags
	flags = append(flags, llmCfg.Flags()...)
	flags = append(flags, scoringCfg.Flags()...)
	flags = append(flags, indexCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
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

			buildIndex := func(ctx context.Context) (*index.Index, error) {
				doc, err := guideline.Load(ctx, guidelinesPath)
				if err != nil {
					return nil, goerr.Wrap(err, "failed to load guideline document")
				}
				return index.Build(ctx, embedder, doc, indexCfg.Config())
			}

			idx, err := buildIndex(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to build guideline index")
			}
			provider := index.NewProvider(idx)
			logging.Default().Info("Guideline index built", "passages", idx.Size())

			uc := usecase.New(provider, llmClient,
				usecase.WithScoringConfig(scoring),
				usecase.WithRecommenderOptions(
					usecase.WithTopK(indexCfg.TopK()),
					usecase.WithGenerationTimeout(llmCfg.GenerationTimeout()),
				),
			)

			// Start index refresh worker if an interval is configured
			var refreshWorker *worker.IndexRefreshWorker
			if interval := indexCfg.RefreshInterval(); interval > 0 {
				refreshWorker = worker.NewIndexRefreshWorker(provider, buildIndex, interval)
				if err := refreshWorker.Start(ctx); err != nil {
					return goerr.Wrap(err, "failed to start index refresh worker")
				}
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc.Pipeline, provider),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			// Start server in goroutine
			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			// Wait for shutdown signal or server error
			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				// Stop index refresh worker first
				if refreshWorker != nil {
					refreshWorker.Stop()
				}

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
