package model

import (
	"github.com/healthmon-lab/panacea/pkg/domain/types"
)

// GuidelinePassage is one retrievable segment of the reference document.
// Passages are built once at index-construction time and never mutated.
type GuidelinePassage struct {
	ID             types.PassageID `json:"id"`
	SourceDocument string          `json:"source_document"`
	Offset         int             `json:"offset"` // word offset into the source document
	Text           string          `json:"text"`
	Embedding      []float32       `json:"-"`
}

// RetrievedPassage pairs a passage with its similarity to a query
type RetrievedPassage struct {
	Passage    *GuidelinePassage `json:"passage"`
	Similarity float64           `json:"similarity"`
}

// RetrievalResult is an ordered retrieval outcome: at most K entries, sorted
// by similarity descending with near-ties broken by ascending passage ID.
type RetrievalResult []RetrievedPassage

// PassageIDs returns the retrieved passage IDs in result order
func (r RetrievalResult) PassageIDs() []types.PassageID {
	ids := make([]types.PassageID, len(r))
	for i, rp := range r {
		ids[i] = rp.Passage.ID
	}
	return ids
}

// Contains reports whether the result includes the given passage ID
func (r RetrievalResult) Contains(id types.PassageID) bool {
	for _, rp := range r {
		if rp.Passage.ID == id {
			return true
		}
	}
	return false
}
