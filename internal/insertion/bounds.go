// Package insertion implements binary-search insertion: given a personal
// ranking and the votes cast so far, it narrows the index interval a
// newly right-swiped card must land in, and decides the next pairwise
// comparison (if any) needed to narrow it further.
//
// The package is pure and CPU-bounded by len(ranking): it never touches
// persistence and never returns an error for benign input — callers get
// a collapsed bounds or a nil comparison instead.
package insertion

import "github.com/moldovancsaba/narimato-sub003/internal/model"

// Bounds is the half-open index interval [Start, End) of ranking that
// remains consistent with every vote cast so far about card x. Collapsed
// is true once Start >= End, meaning no further comparison can narrow it.
type Bounds struct {
	Start     int
	End       int
	Collapsed bool
}

// ComputeBounds narrows the index interval card x must land in, given
// ranking (ordered most-preferred at index 0 to least) and the votes
// cast so far: beating y constrains x strictly above y, losing to y
// constrains x strictly below.
func ComputeBounds(ranking []string, x string, votes []model.Vote) Bounds {
	start, end := 0, len(ranking)

	for _, v := range votes {
		y, ok := v.Other(x)
		if !ok {
			continue
		}
		i := indexOf(ranking, y)
		if i < 0 {
			continue
		}
		if v.Winner == x {
			if i < end {
				end = i
			}
		} else {
			if i+1 > start {
				start = i + 1
			}
		}
	}

	return Bounds{Start: start, End: end, Collapsed: start >= end}
}

// InsertionIndex returns where x should land once bounds have collapsed,
// clamped to the ranking's length.
func (b Bounds) InsertionIndex(rankingLen int) int {
	if b.Start > rankingLen {
		return rankingLen
	}
	return b.Start
}

func indexOf(ranking []string, cardID string) int {
	for i, id := range ranking {
		if id == cardID {
			return i
		}
	}
	return -1
}
