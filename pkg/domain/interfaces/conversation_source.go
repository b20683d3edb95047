package interfaces

import (
	"context"

	"github.com/healthmon-lab/panacea/pkg/domain/model"
)

// ConversationSource loads raw transcripts and splits them into
// per-conversation records. Failures surface as data-load errors and abort
// the batch that depends on them.
type ConversationSource interface {
	Load(ctx context.Context, path string) ([]*model.Conversation, error)
}
