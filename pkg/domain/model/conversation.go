package model

import (
	"strings"
	"time"

	"github.com/healthmon-lab/panacea/pkg/domain/types"
)

// Message is a single turn of a transcript
type Message struct {
	Speaker   types.Speaker `json:"speaker"`
	Timestamp time.Time     `json:"timestamp"`
	Text      string        `json:"text"`
}

// IsMalformed reports whether the message is missing its speaker or text.
// Malformed messages are dropped by the extractor, not treated as errors,
// so that partial or dirty transcripts still produce a result.
func (m *Message) IsMalformed() bool {
	return m.Speaker == "" || strings.TrimSpace(m.Text) == ""
}

// Conversation is an ordered transcript between a health worker and a
// patient. It is immutable once loaded and owned by the pipeline for the
// duration of one run.
type Conversation struct {
	ID       types.ConversationID `json:"id"`
	Messages []Message            `json:"messages"`
}

// LastMessageIndex returns the index of the most recent message, or -1 for an
// empty conversation.
func (c *Conversation) LastMessageIndex() int {
	return len(c.Messages) - 1
}
