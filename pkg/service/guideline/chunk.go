package guideline

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/healthmon-lab/panacea/pkg/domain/types"
)

// Passage is one chunk of a guideline document before embedding
type Passage struct {
	Offset int // word offset into the document
	Text   string
}

// Split segments the document into overlapping word windows. Overlap keeps
// sentences that straddle a window boundary retrievable from both sides.
// A document that yields no passage is a document-parse error.
func Split(doc *Document, window, overlap int) ([]Passage, error) {
	if window <= 0 {
		return nil, goerr.New("chunk window must be positive", goerr.V("window", window))
	}
	if overlap < 0 || overlap >= window {
		return nil, goerr.New("chunk overlap must be within [0, window)",
			goerr.V("window", window), goerr.V("overlap", overlap))
	}

	words := strings.Fields(doc.Text)
	if len(words) == 0 {
		return nil, goerr.New("guideline document cannot be segmented",
			goerr.T(types.ErrTagDocumentParse), goerr.V("source", doc.Source))
	}

	step := window - overlap
	var passages []Passage
	for i := 0; i < len(words); i += step {
		end := i + window
		if end > len(words) {
			end = len(words)
		}
		passages = append(passages, Passage{
			Offset: i,
			Text:   strings.Join(words[i:end], " "),
		})
		if end == len(words) {
			break
		}
	}

	return passages, nil
}
