// Package play is the single authority for a play's swipe/vote
// lifecycle. It consults internal/insertion for positioning decisions
// and persists through internal/store, but never decides the
// hierarchical fork/finalize question itself — that is delegated to a
// CompletionHandler, injected so this package has no import-time
// dependency on the controller that implements it.
package play

import (
	"context"

	"github.com/moldovancsaba/narimato-sub003/internal/model"
)

// CompletionHandler is notified synchronously whenever a play (parent or
// child) reaches status=completed, immediately after the engine persists
// that transition. The hierarchical controller implements this to decide
// whether to finalize or spawn/continue child sub-sessions.
type CompletionHandler interface {
	OnPlayCompleted(ctx context.Context, p *model.Play) error
}

// StartPlayResult is the response contract for StartPlay.
type StartPlayResult struct {
	PlayID         string
	CurrentCardID  string
	TotalCards     int
	IsHierarchical bool
}

// SwipeResult is the response contract for Swipe.
type SwipeResult struct {
	NextCardID     *string
	RequiresVoting bool
	CurrentPair    *model.Pair
	Completed      bool
	NewVersion     int
	AlreadyApplied bool
}

// VoteResult is the response contract for Vote.
type VoteResult struct {
	NextCardID        *string
	RequiresMoreVoting bool
	CurrentPair       *model.Pair
	ReturnToSwipe     bool
	Completed         bool
	NewVersion        int
	AlreadyApplied    bool
}
