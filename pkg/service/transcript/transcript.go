package transcript

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/healthmon-lab/panacea/pkg/domain/model"
	"github.com/healthmon-lab/panacea/pkg/domain/types"
	"github.com/healthmon-lab/panacea/pkg/utils/logging"
)

// conversationSeparator delimits conversations in the ingest corpus
const conversationSeparator = "========== Conversation =========="

// messagePattern matches one transcript line: "[timestamp] Speaker: text"
var messagePattern = regexp.MustCompile(`^\[([^\]]+)\] (\w+): (.+)$`)

// timestampLayouts are tried in order when parsing message timestamps.
// Unparseable timestamps are kept as zero values; the message itself is
// still usable.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
}

// Source reads chat transcript files and splits them into per-conversation
// records. It tolerates dirty input: lines that do not match the transcript
// format are skipped with a warning, not treated as failures.
type Source struct{}

// New creates a transcript Source
func New() *Source {
	return &Source{}
}

// Load reads the transcript file at path and returns its conversations in
// file order. A missing or unreadable file is a data-load error.
func (s *Source) Load(ctx context.Context, path string) ([]*model.Conversation, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read transcript file",
			goerr.T(types.ErrTagDataLoad), goerr.V("path", path))
	}

	return s.Parse(ctx, string(raw)), nil
}

// Parse splits raw transcript text into conversations. Blocks without any
// parseable message are dropped.
func (s *Source) Parse(ctx context.Context, raw string) []*model.Conversation {
	logger := logging.From(ctx)

	var conversations []*model.Conversation
	var skippedLines int

	for _, block := range strings.Split(raw, conversationSeparator) {
		if strings.TrimSpace(block) == "" {
			continue
		}

		var messages []model.Message
		for _, line := range strings.Split(block, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}

			m := messagePattern.FindStringSubmatch(line)
			if m == nil {
				skippedLines++
				continue
			}

			messages = append(messages, model.Message{
				Speaker:   types.Speaker(m[2]),
				Timestamp: parseTimestamp(m[1]),
				Text:      strings.TrimSpace(m[3]),
			})
		}

		if len(messages) == 0 {
			continue
		}

		conversations = append(conversations, &model.Conversation{
			ID:       types.ConversationID(fmt.Sprintf("conv-%04d", len(conversations)+1)),
			Messages: messages,
		})
	}

	if skippedLines > 0 {
		logger.Warn("skipped unparseable transcript lines", "count", skippedLines)
	}

	return conversations
}

func parseTimestamp(s string) time.Time {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts
		}
	}
	return time.Time{}
}
