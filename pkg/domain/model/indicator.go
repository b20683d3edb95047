package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/healthmon-lab/panacea/pkg/domain/types"
)

// Indicator is a structured health signal extracted from one transcript
// message. Indicators are never mutated after creation.
type Indicator struct {
	Category           types.IndicatorCategory `json:"category"`
	Value              string                  `json:"value"`
	Confidence         float64                 `json:"confidence"`
	SourceMessageIndex int                     `json:"source_message_index"`
}

// Validate checks the indicator invariants
func (i *Indicator) Validate() error {
	if !i.Category.IsValid() {
		return goerr.New("invalid indicator category", goerr.V("category", i.Category))
	}
	if i.Value == "" {
		return goerr.New("indicator value is required")
	}
	if i.Confidence < 0 || i.Confidence > 1 {
		return goerr.New("indicator confidence must be within [0,1]",
			goerr.V("confidence", i.Confidence))
	}
	if i.SourceMessageIndex < 0 {
		return goerr.New("source message index must not be negative",
			goerr.V("index", i.SourceMessageIndex))
	}
	return nil
}
