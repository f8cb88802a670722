package insertion

import "github.com/moldovancsaba/narimato-sub003/internal/model"

// Comparison is the next pairwise comparison the engine needs the user to
// resolve before x's position is fully determined.
type Comparison struct {
	NewCard         string
	CompareWith     string
	Bounds          Bounds
	InformationGain float64
}

// NextComparison returns the next pairwise comparison needed to narrow
// x's position, or nil when none is needed: either the ranking is empty
// (x is placed at index 0 unconditionally) or the bounds have already
// collapsed.
func NextComparison(ranking []string, x string, votes []model.Vote) *Comparison {
	if len(ranking) == 0 {
		return nil
	}

	bounds := ComputeBounds(ranking, x, votes)
	if bounds.Collapsed {
		return nil
	}

	window := ranking[bounds.Start:bounds.End]
	compared := comparedAgainst(x, votes)

	candidate, ok := pickFromWindow(window, compared)
	if !ok {
		// Every card in the window has already been compared against x.
		// Treat the bounds as collapsed at start rather than asking a
		// redundant question.
		return nil
	}

	return &Comparison{
		NewCard:         x,
		CompareWith:     candidate,
		Bounds:          bounds,
		InformationGain: 1.0 / float64(len(window)),
	}
}

// pickFromWindow chooses the midpoint of window, excluding any card
// already compared against x; if the midpoint is excluded it scans
// outward (alternating toward the end, then the start) for the nearest
// uncompared candidate.
func pickFromWindow(window []string, compared map[string]bool) (string, bool) {
	if len(window) == 0 {
		return "", false
	}

	mid := len(window) / 2
	if !compared[window[mid]] {
		return window[mid], true
	}

	for offset := 1; offset < len(window); offset++ {
		if mid+offset < len(window) && !compared[window[mid+offset]] {
			return window[mid+offset], true
		}
		if mid-offset >= 0 && !compared[window[mid-offset]] {
			return window[mid-offset], true
		}
	}

	return "", false
}

func comparedAgainst(x string, votes []model.Vote) map[string]bool {
	seen := make(map[string]bool)
	for _, v := range votes {
		if y, ok := v.Other(x); ok {
			seen[y] = true
		}
	}
	return seen
}

// Insert places x into ranking once its bounds have collapsed. votes
// must already include the vote just recorded (if any) involving x. If x
// is already present in ranking, insertion is a no-op — retrying an
// already-applied insert is safe. If the bounds collapse, x is spliced
// into a new ranking at the collapsed index and (newRanking, true) is
// returned. Otherwise ranking is returned unchanged and (ranking, false)
// signals more comparisons are needed.
func Insert(ranking []string, x string, votes []model.Vote) ([]string, bool) {
	if contains(ranking, x) {
		return ranking, false
	}

	bounds := ComputeBounds(ranking, x, votes)
	if !bounds.Collapsed {
		return ranking, false
	}

	idx := bounds.InsertionIndex(len(ranking))
	next := make([]string, 0, len(ranking)+1)
	next = append(next, ranking[:idx]...)
	next = append(next, x)
	next = append(next, ranking[idx:]...)
	return next, true
}

func contains(ranking []string, x string) bool {
	for _, id := range ranking {
		if id == x {
			return true
		}
	}
	return false
}
