// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"
	"math"
	"sort"
)

// ClassConfidenceMap maps a class label to a confidence score in [0, 1].
// One map is produced per classification and discarded on the next one.
// Scores are usually, but not guaranteed to be, a probability distribution.
type ClassConfidenceMap map[string]float64

// ClassConfidence pairs a class label with its confidence score.
type ClassConfidence struct {
	ClassName  string
	Confidence float64
}

// Confidences is the ordered per-class output of one classification.
// Order matters: ranking ties are broken by position in this slice.
type Confidences []ClassConfidence

// Ordered converts the map into an ordered Confidences slice. Labels present
// in classOrder come first, in that order; labels the map contains beyond
// classOrder are appended sorted by name so the result is deterministic.
func (m ClassConfidenceMap) Ordered(classOrder []string) Confidences {
	out := make(Confidences, 0, len(m))
	seen := make(map[string]bool, len(m))

	for _, name := range classOrder {
		if confidence, ok := m[name]; ok {
			out = append(out, ClassConfidence{ClassName: name, Confidence: confidence})
			seen[name] = true
		}
	}

	extras := make([]string, 0)
	for name := range m {
		if !seen[name] {
			extras = append(extras, name)
		}
	}
	sort.Strings(extras)
	for _, name := range extras {
		out = append(out, ClassConfidence{ClassName: name, Confidence: m[name]})
	}

	return out
}

// Validate ensures every confidence is a usable score.
func (c Confidences) Validate() error {
	for i, p := range c {
		if p.ClassName == "" {
			return fmt.Errorf("empty class name at index %d", i)
		}
		if math.IsNaN(p.Confidence) {
			return fmt.Errorf("confidence for %q is NaN", p.ClassName)
		}
		if p.Confidence < 0.0 || p.Confidence > 1.0 {
			return fmt.Errorf("confidence for %q must be between 0.0 and 1.0, got %.4f", p.ClassName, p.Confidence)
		}
	}
	return nil
}

// RankedPrediction is one row of a displayed prediction result.
type RankedPrediction struct {
	ClassName         string
	DisplayConfidence float64
	Rank              int
}

// RankedPredictions is an ordered, truncated view over one classification's
// confidences, ready for display.
type RankedPredictions []RankedPrediction

// Rank sorts the confidences in descending order, truncates to limit entries
// and assigns 1-based ranks. The sort is stable: equal confidences keep their
// relative input order. Inputs shorter than limit yield shorter output rather
// than an error.
func (c Confidences) Rank(limit int) RankedPredictions {
	sorted := make(Confidences, len(c))
	copy(sorted, c)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Confidence > sorted[j].Confidence
	})

	if limit < 0 {
		limit = 0
	}
	if limit > len(sorted) {
		limit = len(sorted)
	}

	out := make(RankedPredictions, 0, limit)
	for i, p := range sorted[:limit] {
		out = append(out, RankedPrediction{
			Rank:              i + 1,
			ClassName:         p.ClassName,
			DisplayConfidence: DisplayPercent(p.Confidence),
		})
	}
	return out
}

// Top returns the highest-confidence prediction, or nil if empty.
func (r RankedPredictions) Top() *RankedPrediction {
	if len(r) == 0 {
		return nil
	}
	return &r[0]
}

// DisplayPercent converts a confidence in [0, 1] to a percentage rounded to
// two decimal places.
func DisplayPercent(confidence float64) float64 {
	return math.Round(confidence*100*100) / 100
}
