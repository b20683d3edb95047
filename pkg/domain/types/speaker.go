package types

import "regexp"

var passageIDPattern = regexp.MustCompile(`^p\d{5}$`)

// Speaker identifies the author of a transcript message. Transcripts come
// from external systems, so the set is open; the two well-known values cover
// the worker/patient pair of the ingest corpus.
type Speaker string

const (
	SpeakerPatient Speaker = "User"
	SpeakerWorker  Speaker = "AI"
)

// String returns the string representation of Speaker
func (s Speaker) String() string {
	return string(s)
}
