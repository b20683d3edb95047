package interfaces

import (
	"context"

	"github.com/healthmon-lab/panacea/pkg/domain/model"
)

// GuidelineIndex answers similarity queries over the guideline corpus. The
// index is built once, immutable afterwards, and safe for unbounded
// concurrent reads.
type GuidelineIndex interface {
	// Query embeds the text and returns the top-k passages by cosine
	// similarity, ties broken by ascending passage ID.
	Query(ctx context.Context, text string, k int) (model.RetrievalResult, error)

	// Size returns the number of indexed passages
	Size() int
}
