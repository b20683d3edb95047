package types

import "github.com/m-mizutani/goerr/v2"

// Error tags classify failures across the pipeline. Tags on the first row are
// fatal to the run that triggers them; the second row is recoverable and
// degrades exactly one conversation's result to the fallback path.
var (
	ErrTagDataLoad             = goerr.NewTag("data_load")
	ErrTagDocumentParse        = goerr.NewTag("document_parse")
	ErrTagIndexVersionMismatch = goerr.NewTag("index_version_mismatch")

	ErrTagGenerationFailure  = goerr.NewTag("generation_failure")
	ErrTagGroundingViolation = goerr.NewTag("grounding_violation")
)

// IsRecoverable reports whether the error may be absorbed into a fallback
// recommendation instead of aborting the batch.
func IsRecoverable(err error) bool {
	return goerr.HasTag(err, ErrTagGenerationFailure) || goerr.HasTag(err, ErrTagGroundingViolation)
}
