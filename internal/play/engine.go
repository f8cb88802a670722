package play

import (
	"context"
	"time"

	domainerrors "github.com/moldovancsaba/narimato-sub003/internal/errors"
	"github.com/moldovancsaba/narimato-sub003/internal/events"
	"github.com/moldovancsaba/narimato-sub003/internal/hierarchy"
	"github.com/moldovancsaba/narimato-sub003/internal/insertion"
	"github.com/moldovancsaba/narimato-sub003/internal/logger"
	"github.com/moldovancsaba/narimato-sub003/internal/model"
	"github.com/moldovancsaba/narimato-sub003/internal/store"

	"go.uber.org/zap"
)

// Engine runs the swipe/vote state machine for a single play. One Engine
// serves every tenant; there is no per-tenant or per-play in-process
// state beyond what is persisted, so a process restart resumes cleanly
// from the store.
type Engine struct {
	plays    store.PlayStore
	cards    store.CardStore
	resolver *hierarchy.Resolver
	bus      events.EventBus
	playTTL  time.Duration

	completion CompletionHandler
}

// New builds an Engine. playTTL is the default expiry window applied to
// every new play.
func New(plays store.PlayStore, cards store.CardStore, resolver *hierarchy.Resolver, bus events.EventBus, playTTL time.Duration) *Engine {
	return &Engine{
		plays:    plays,
		cards:    cards,
		resolver: resolver,
		bus:      bus,
		playTTL:  playTTL,
	}
}

// SetCompletionHandler wires the hierarchical controller in. main.go
// does this once at startup, keeping the engine package free of any
// import on the controller that consumes it. Without a handler, commit
// publishes the completion event itself.
func (e *Engine) SetCompletionHandler(h CompletionHandler) {
	e.completion = h
}

// GetPlay returns the full play state, or NotFoundError.
func (e *Engine) GetPlay(ctx context.Context, playID string) (*model.Play, error) {
	return e.plays.Get(ctx, playID)
}

// loadActive fetches a play and rejects it as expired if its TTL has
// passed and it hasn't already been marked completed or expired.
func (e *Engine) loadActive(ctx context.Context, playID string, now time.Time) (*model.Play, error) {
	p, err := e.plays.Get(ctx, playID)
	if err != nil {
		return nil, err
	}
	if p.Status == model.PlayStatusCompleted || p.Status == model.PlayStatusExpired {
		return p, nil
	}
	if p.Expired(now) {
		return nil, &domainerrors.ExpiredError{PlayID: playID}
	}
	return p, nil
}

// checkVersion enforces the optimistic-concurrency precondition when the
// caller supplies clientVersion.
func checkVersion(p *model.Play, clientVersion *int) error {
	if clientVersion == nil {
		return nil
	}
	if *clientVersion != p.Version {
		return &domainerrors.ConcurrentModificationError{
			PlayID:          p.PlayID,
			ExpectedVersion: *clientVersion,
			ActualVersion:   p.Version,
		}
	}
	return nil
}

// insertOrNextComparison is the shared binary-search insertion step used
// by both a right-swipe placing its first comparison and a vote
// resolving the previous one. As a defensive fallback, if nextComparison
// finds no un-compared candidate left in a window that never formally
// collapsed, it force-inserts at bounds.start rather than asking a
// redundant question.
func (e *Engine) insertOrNextComparison(playID string, ranking []string, x string, votes []model.Vote) (newRanking []string, grew bool, comparison *insertion.Comparison) {
	if next, didGrow := insertion.Insert(ranking, x, votes); didGrow {
		return next, true, nil
	}

	if nc := insertion.NextComparison(ranking, x, votes); nc != nil {
		return ranking, false, nc
	}

	bounds := insertion.ComputeBounds(ranking, x, votes)
	idx := bounds.InsertionIndex(len(ranking))

	logger.WithPlay("", playID).Warn("insertion window exhausted without collapse, forcing placement",
		zap.String("card_id", x), zap.Int("index", idx))

	next := make([]string, 0, len(ranking)+1)
	next = append(next, ranking[:idx]...)
	next = append(next, x)
	next = append(next, ranking[idx:]...)
	return next, true, nil
}

// completeIfDone checks whether p has exhausted its deck and is not
// waiting on a vote; if so it marks it completed. This only flips the
// in-memory fields: callers persist p afterwards via commit, which is
// what invokes the completion handler.
func (e *Engine) completeIfDone(p *model.Play) {
	if p.State == model.StateVoting {
		return
	}
	if _, more := p.NextUnswiped(); more {
		return
	}
	now := time.Now()
	p.Status = model.PlayStatusCompleted
	p.State = model.StateCompleted
	p.CompletedAt = &now
}

// commit persists p with an optimistic check against expectedVersion,
// then — if this commit just completed the play — hands it to the
// completion handler. The handler decides whether the play is truly
// final (and owns publishing the completion event in that case) or
// whether it forks into child sub-sessions first. When no handler is
// wired at all, commit treats a raw completion as final itself and
// publishes directly, so the engine is still usable standalone. It
// returns the stored (post-commit) play.
func (e *Engine) commit(ctx context.Context, p *model.Play, expectedVersion int, wasAlreadyCompleted bool) (*model.Play, error) {
	if err := e.plays.Update(ctx, p, expectedVersion); err != nil {
		return nil, err
	}

	stored, err := e.plays.Get(ctx, p.PlayID)
	if err != nil {
		return nil, err
	}

	if !wasAlreadyCompleted && stored.Status == model.PlayStatusCompleted {
		if e.completion != nil {
			if err := e.completion.OnPlayCompleted(ctx, stored); err != nil {
				logger.WithPlay(stored.TenantID, stored.PlayID).Error("completion handler failed", zap.Error(err))
			}
			reloaded, err := e.plays.Get(ctx, p.PlayID)
			if err == nil {
				stored = reloaded
			}
		} else if e.bus != nil {
			payload := events.PlayCompletedPayload{
				PlayID:          stored.PlayID,
				DeckTag:         stored.DeckTag,
				PersonalRanking: stored.PersonalRanking,
				IsChildPlay:     stored.IsChildPlay(),
			}
			_ = e.bus.Publish(ctx, events.NewPlayCompletedEvent(stored.TenantID, payload))
		}
	}

	return stored, nil
}
