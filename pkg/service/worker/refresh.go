package worker

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/healthmon-lab/panacea/pkg/service/index"
	"github.com/healthmon-lab/panacea/pkg/utils/logging"
)

// IndexRefreshWorker periodically rebuilds the guideline index and swaps it
// into the provider, so a long-running server picks up guideline document
// updates without a restart.
//
// Architecture assumptions:
// - Single server instance (each instance rebuilds its own in-memory index)
// - The index itself stays immutable; refresh replaces the whole structure
type IndexRefreshWorker struct {
	provider *index.Provider
	build    func(ctx context.Context) (*index.Index, error)
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewIndexRefreshWorker creates a worker that rebuilds via the given build
// function on every interval tick.
func NewIndexRefreshWorker(provider *index.Provider, build func(ctx context.Context) (*index.Index, error), interval time.Duration) *IndexRefreshWorker {
	return &IndexRefreshWorker{
		provider: provider,
		build:    build,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background refresh loop. It does not block server startup.
func (w *IndexRefreshWorker) Start(ctx context.Context) error {
	if w.interval <= 0 {
		return goerr.New("refresh interval must be positive", goerr.V("interval", w.interval))
	}

	logging.Default().Info("guideline index refresh worker starting",
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *IndexRefreshWorker) Stop() {
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("guideline index refresh worker stopped")
}

func (w *IndexRefreshWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.refresh(ctx); err != nil {
				// Log and keep serving the previous index
				logging.Default().Error("guideline index refresh failed (will retry next interval)",
					"error", err.Error())
			}

		case <-w.stopCh:
			return

		case <-ctx.Done():
			logging.Default().Info("guideline index refresh worker context cancelled")
			return
		}
	}
}

func (w *IndexRefreshWorker) refresh(ctx context.Context) error {
	startTime := time.Now()

	idx, err := w.build(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to rebuild guideline index")
	}

	w.provider.Swap(idx)

	logging.Default().Info("guideline index refreshed",
		"passages", idx.Size(),
		"duration", time.Since(startTime).String())
	return nil
}
