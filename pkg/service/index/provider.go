package index

import (
	"context"
	"sync/atomic"

	"github.com/m-mizutani/goerr/v2"
	"github.com/healthmon-lab/panacea/pkg/domain/interfaces"
	"github.com/healthmon-lab/panacea/pkg/domain/model"
)

// Provider hands out the current guideline index. Each index is immutable;
// a refresh builds a new one and swaps the pointer, so readers never observe
// a partially built index.
type Provider struct {
	current atomic.Pointer[Index]
}

var _ interfaces.GuidelineIndex = (*Provider)(nil)

// NewProvider creates a Provider serving the given index
func NewProvider(idx *Index) *Provider {
	p := &Provider{}
	p.current.Store(idx)
	return p
}

// Swap replaces the served index
func (p *Provider) Swap(idx *Index) {
	p.current.Store(idx)
}

// Query delegates to the current index
func (p *Provider) Query(ctx context.Context, text string, k int) (model.RetrievalResult, error) {
	idx := p.current.Load()
	if idx == nil {
		return nil, goerr.New("guideline index is not built yet")
	}
	return idx.Query(ctx, text, k)
}

// Size returns the passage count of the current index
func (p *Provider) Size() int {
	idx := p.current.Load()
	if idx == nil {
		return 0
	}
	return idx.Size()
}
