package config

// NewScoringForTest creates a Scoring config for testing purposes
func NewScoringForTest(path string) *Scoring {
	return &Scoring{path: path}
}

// NewIndexForTest creates an Index config for testing purposes
func NewIndexForTest(chunkWindow, chunkOverlap, topK, bruteForceMax int, tieTolerance float64) *Index {
	return &Index{
		chunkWindow:   chunkWindow,
		chunkOverlap:  chunkOverlap,
		topK:          topK,
		bruteForceMax: bruteForceMax,
		tieTolerance:  tieTolerance,
	}
}
