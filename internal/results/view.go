package results

import (
	"sort"
	"strings"
)

// Sort keys accepted by SortResults.
const (
	SortByScore      = "score"
	SortByName       = "name"
	SortByReviewDate = "reviewDate"
)

// Filter returns the results with matchScore >= minScore, optionally hiding
// rejected results. Pure view operation; the input is not mutated.
func Filter(stored []AnalysisResult, minScore int, showRejected bool) []AnalysisResult {
	out := make([]AnalysisResult, 0, len(stored))
	for _, result := range stored {
		if result.MatchScore < minScore {
			continue
		}
		if !showRejected && result.Rejected {
			continue
		}
		out = append(out, result)
	}
	return out
}

// SortResults returns a sorted copy: score descending (stable, preserving
// insertion order among ties), name ascending, or review date descending.
// Unknown keys sort by score.
func SortResults(stored []AnalysisResult, by string) []AnalysisResult {
	out := make([]AnalysisResult, len(stored))
	copy(out, stored)

	switch by {
	case SortByName:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].CandidateName) < strings.ToLower(out[j].CandidateName)
		})
	case SortByReviewDate:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].ReviewDate.After(out[j].ReviewDate)
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].MatchScore > out[j].MatchScore
		})
	}
	return out
}
