package play

import (
	"context"
	"time"

	domainerrors "github.com/moldovancsaba/narimato-sub003/internal/errors"
	"github.com/moldovancsaba/narimato-sub003/internal/model"
)

// Vote records the winner of the current comparison pair and either
// inserts the contested card into personalRanking or advances to the
// next comparison needed to place it.
func (e *Engine) Vote(ctx context.Context, playID, cardA, cardB, winner string, clientVersion *int) (*VoteResult, error) {
	now := time.Now()

	p, err := e.loadActive(ctx, playID, now)
	if err != nil {
		return nil, err
	}

	pair := model.Pair{CardA: cardA, CardB: cardB}

	if replay, conflict := findVoteReplay(p, pair, winner); conflict {
		return nil, &domainerrors.DuplicateInputError{PlayID: playID, Detail: "pair already voted with a different winner"}
	} else if replay != nil {
		return replay, nil
	}

	if err := checkVersion(p, clientVersion); err != nil {
		return nil, err
	}
	if p.State != model.StateVoting {
		return nil, &domainerrors.WrongStateError{PlayID: playID, Expected: "voting", Actual: string(p.State)}
	}
	if p.CurrentPair == nil || !p.CurrentPair.Matches(pair) {
		return nil, &domainerrors.PairMismatchError{PlayID: playID}
	}
	vote := model.Vote{CardA: cardA, CardB: cardB, Winner: winner, Timestamp: now}
	if !vote.Valid() {
		return nil, &domainerrors.InvalidWinnerError{PlayID: playID, Winner: winner}
	}

	x, err := newCardOf(p, pair)
	if err != nil {
		return nil, err
	}

	expectedVersion := p.Version
	p.Votes = append(p.Votes, vote)

	newRanking, grew, nc := e.insertOrNextComparison(playID, p.PersonalRanking, x, p.Votes)

	var returnToSwipe bool
	if grew {
		p.PersonalRanking = newRanking
		p.CurrentPair = nil
		p.State = model.StateSwiping
		returnToSwipe = true
		e.completeIfDone(p)
	} else {
		p.CurrentPair = &model.Pair{CardA: nc.NewCard, CardB: nc.CompareWith}
	}

	stored, err := e.commit(ctx, p, expectedVersion, false)
	if err != nil {
		return nil, err
	}

	return buildVoteResult(stored, returnToSwipe, false), nil
}

// findVoteReplay applies vote-level idempotency: an exact-match
// (cardA,cardB,winner) resubmission (regardless of pair order) is a
// no-op returning the current post-state; a matching pair with a
// different winner is a genuine conflict, not a retry.
func findVoteReplay(p *model.Play, pair model.Pair, winner string) (replay *VoteResult, conflict bool) {
	for _, v := range p.Votes {
		if !v.Pair().Matches(pair) {
			continue
		}
		if v.Winner == winner {
			return buildVoteResult(p, false, true), false
		}
		return nil, true
	}
	return nil, false
}

// newCardOf returns the one card in pair not yet in personalRanking —
// the card being positioned by this vote.
func newCardOf(p *model.Play, pair model.Pair) (string, error) {
	aIn, bIn := p.InRanking(pair.CardA), p.InRanking(pair.CardB)
	switch {
	case aIn == bIn:
		return "", &domainerrors.InvariantViolationError{
			PlayID: p.PlayID, Invariant: "voted-pair-membership", Detail: "exactly one of the voted pair must be unranked",
		}
	case !aIn:
		return pair.CardA, nil
	default:
		return pair.CardB, nil
	}
}

func buildVoteResult(p *model.Play, returnToSwipe, alreadyApplied bool) *VoteResult {
	res := &VoteResult{
		NewVersion:         p.Version,
		AlreadyApplied:     alreadyApplied,
		Completed:          p.Status == model.PlayStatusCompleted,
		ReturnToSwipe:      returnToSwipe,
		RequiresMoreVoting: p.State == model.StateVoting,
		CurrentPair:        p.CurrentPair,
	}
	if !res.RequiresMoreVoting && !res.Completed {
		if next, ok := p.NextUnswiped(); ok {
			res.NextCardID = &next
		}
	}
	return res
}
