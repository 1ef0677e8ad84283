// Package model defines the data types shared by extractors, normalizers,
// and the orchestration pipeline.
package model

// Confidence indicates how much an extracted value should be trusted.
// The level is fixed by the strategy that produced the value, never by
// the value itself.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
	ConfidenceUnsure Confidence = "unsure"
)

// confidenceRank is the single total order for confidence comparison.
// HIGH > MEDIUM > LOW > UNSURE, everywhere.
var confidenceRank = map[Confidence]int{
	ConfidenceHigh:   3,
	ConfidenceMedium: 2,
	ConfidenceLow:    1,
	ConfidenceUnsure: 0,
}

// Rank returns the position of c in the total order. Unknown values rank
// below UNSURE.
func (c Confidence) Rank() int {
	if r, ok := confidenceRank[c]; ok {
		return r
	}
	return -1
}

// Max returns the higher-ranked of two confidence levels.
func Max(a, b Confidence) Confidence {
	if a.Rank() >= b.Rank() {
		return a
	}
	return b
}
