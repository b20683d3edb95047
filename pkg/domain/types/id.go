package types

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// ConversationID identifies a single conversation within an ingest batch
type ConversationID string

// NewConversationID generates a random ConversationID for transcripts that do
// not carry their own identifier.
func NewConversationID() ConversationID {
	return ConversationID(uuid.New().String())
}

// Validate checks if the ConversationID is valid
func (c ConversationID) Validate() error {
	if c == "" {
		return goerr.New("conversation ID cannot be empty")
	}
	return nil
}

// String returns the string representation of ConversationID
func (c ConversationID) String() string {
	return string(c)
}

// PassageID identifies a guideline passage within one built index. IDs are
// sequential and zero-padded so that lexicographic order equals build order,
// which the retrieval tie-break relies on.
type PassageID string

// NewPassageID builds the canonical passage ID for the given build position
func NewPassageID(position int) PassageID {
	return PassageID(fmt.Sprintf("p%05d", position))
}

// Validate checks if the PassageID is valid
func (p PassageID) Validate() error {
	if p == "" {
		return goerr.New("passage ID cannot be empty")
	}
	if !passageIDPattern.MatchString(string(p)) {
		return goerr.New("passage ID must match p<5 digits>", goerr.V("id", p))
	}
	return nil
}

// String returns the string representation of PassageID
func (p PassageID) String() string {
	return string(p)
}
