package usecase

import (
	"context"
	"sort"
	"strings"

	"github.com/healthmon-lab/panacea/pkg/domain/model"
	"github.com/healthmon-lab/panacea/pkg/domain/model/config"
	"github.com/healthmon-lab/panacea/pkg/domain/types"
	"github.com/healthmon-lab/panacea/pkg/utils/logging"
)

// Extractor scans conversation text for health-relevant cues using the
// configured lexicon. Extraction is stateless and side-effect free: identical
// input always yields the identical indicator sequence, which the scorer's
// reproducibility depends on.
type Extractor struct {
	cfg *config.ScoringConfig
}

// NewExtractor creates an Extractor with the given scoring configuration
func NewExtractor(cfg *config.ScoringConfig) *Extractor {
	return &Extractor{cfg: cfg}
}

// Extract returns the indicators found in the conversation, ordered by source
// message index, category, then value. Duplicate category+value pairs are
// merged keeping the highest confidence and the earliest message index.
// Malformed messages are dropped with a warning; an empty conversation yields
// an empty sequence, not an error.
func (e *Extractor) Extract(ctx context.Context, conv *model.Conversation) []model.Indicator {
	logger := logging.From(ctx)

	type dedupKey struct {
		category types.IndicatorCategory
		value    string
	}
	found := make(map[dedupKey]model.Indicator)

	for msgIndex, msg := range conv.Messages {
		if msg.IsMalformed() {
			logger.Warn("dropping malformed transcript message",
				"conversation_id", conv.ID, "message_index", msgIndex)
			continue
		}

		normalized := normalizeText(msg.Text)
		if normalized == "" {
			// Emoji-only or otherwise non-text content
			continue
		}

		for _, entry := range e.cfg.Lexicon {
			if !matchPhrase(normalized, normalizeText(entry.Phrase)) {
				continue
			}

			key := dedupKey{category: entry.Category, value: entry.Phrase}
			if prev, ok := found[key]; ok {
				merged := prev
				if entry.Confidence > merged.Confidence {
					merged.Confidence = entry.Confidence
				}
				if msgIndex < merged.SourceMessageIndex {
					merged.SourceMessageIndex = msgIndex
				}
				found[key] = merged
				continue
			}

			found[key] = model.Indicator{
				Category:           entry.Category,
				Value:              entry.Phrase,
				Confidence:         entry.Confidence,
				SourceMessageIndex: msgIndex,
			}
		}
	}

	indicators := make([]model.Indicator, 0, len(found))
	for _, ind := range found {
		indicators = append(indicators, ind)
	}

	categoryOrder := make(map[types.IndicatorCategory]int)
	for i, c := range types.AllIndicatorCategories() {
		categoryOrder[c] = i
	}
	sort.Slice(indicators, func(i, j int) bool {
		a, b := indicators[i], indicators[j]
		if a.SourceMessageIndex != b.SourceMessageIndex {
			return a.SourceMessageIndex < b.SourceMessageIndex
		}
		if a.Category != b.Category {
			return categoryOrder[a.Category] < categoryOrder[b.Category]
		}
		return a.Value < b.Value
	})

	return indicators
}

// normalizeText lower-cases, strips punctuation, and collapses whitespace
func normalizeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '\t', r == '\n', r == '\r':
			b.WriteRune(' ')
		default:
			// Punctuation, emojis and other symbols become separators
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// matchPhrase reports whether the normalized phrase occurs in the normalized
// text on word boundaries.
func matchPhrase(text, phrase string) bool {
	if phrase == "" {
		return false
	}
	return strings.Contains(" "+text+" ", " "+phrase+" ")
}
