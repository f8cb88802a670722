package play

import (
	"context"
	"time"

	domainerrors "github.com/moldovancsaba/narimato-sub003/internal/errors"
	"github.com/moldovancsaba/narimato-sub003/internal/model"
)

// Swipe records a like/dislike decision on the current card and, for a
// right swipe, either slots it directly into personalRanking or kicks
// off the comparison needed to place it.
func (e *Engine) Swipe(ctx context.Context, playID, cardID string, direction model.Direction, clientVersion *int) (*SwipeResult, error) {
	now := time.Now()

	p, err := e.loadActive(ctx, playID, now)
	if err != nil {
		return nil, err
	}

	if replay := findSwipeReplay(p, cardID, direction); replay != nil {
		return replay, nil
	}

	if p.Status != model.PlayStatusActive && p.Status != model.PlayStatusWaitingForChildren {
		return nil, &domainerrors.WrongStateError{PlayID: playID, Expected: "active", Actual: string(p.Status)}
	}
	if err := checkVersion(p, clientVersion); err != nil {
		return nil, err
	}
	if p.State == model.StateVoting {
		return nil, &domainerrors.WrongStateError{PlayID: playID, Expected: "swiping", Actual: "voting"}
	}
	if existing, hasSwipe := firstSwipeFor(p, cardID); hasSwipe {
		return nil, &domainerrors.DuplicateInputError{PlayID: playID, Detail: "card already swiped as " + string(existing.Direction)}
	}
	expected, hasNext := p.NextUnswiped()
	if !hasNext || cardID != expected {
		return nil, &domainerrors.CardMismatchError{PlayID: playID, Expected: expected, Actual: cardID}
	}

	expectedVersion := p.Version
	p.Swipes = append(p.Swipes, model.Swipe{CardID: cardID, Direction: direction, Timestamp: now})

	var comparison *model.Pair
	if direction == model.DirectionRight {
		if len(p.PersonalRanking) == 0 {
			p.PersonalRanking = append(p.PersonalRanking, cardID)
		} else {
			newRanking, grew, nc := e.insertOrNextComparison(playID, p.PersonalRanking, cardID, p.Votes)
			if grew {
				p.PersonalRanking = newRanking
			} else {
				p.State = model.StateVoting
				p.CurrentPair = &model.Pair{CardA: nc.NewCard, CardB: nc.CompareWith}
				comparison = p.CurrentPair
			}
		}
	}

	if comparison == nil {
		e.completeIfDone(p)
	}

	stored, err := e.commit(ctx, p, expectedVersion, false)
	if err != nil {
		return nil, err
	}

	return buildSwipeResult(stored, false), nil
}

// findSwipeReplay detects an exact-match resubmission of a previously
// accepted swipe and returns the current post-state for it; nil if this
// is not a replay.
func findSwipeReplay(p *model.Play, cardID string, direction model.Direction) *SwipeResult {
	existing, ok := firstSwipeFor(p, cardID)
	if !ok || existing.Direction != direction {
		return nil
	}
	return buildSwipeResult(p, true)
}

func firstSwipeFor(p *model.Play, cardID string) (model.Swipe, bool) {
	for _, s := range p.Swipes {
		if s.CardID == cardID {
			return s, true
		}
	}
	return model.Swipe{}, false
}

func buildSwipeResult(p *model.Play, alreadyApplied bool) *SwipeResult {
	res := &SwipeResult{
		NewVersion:     p.Version,
		AlreadyApplied: alreadyApplied,
		Completed:      p.Status == model.PlayStatusCompleted,
		RequiresVoting: p.State == model.StateVoting,
		CurrentPair:    p.CurrentPair,
	}
	if !res.RequiresVoting && !res.Completed {
		if next, ok := p.NextUnswiped(); ok {
			res.NextCardID = &next
		}
	}
	return res
}
