// Package hierarchical reacts to a play reaching completed, decides
// whether its ranking contains parent-eligible cards, and if so drives
// child sub-sessions to completion one at a time before splicing their
// rankings into the parent's hierarchicalRanking.
package hierarchical

import (
	"context"
	"time"

	domainerrors "github.com/moldovancsaba/narimato-sub003/internal/errors"
	"github.com/moldovancsaba/narimato-sub003/internal/events"
	"github.com/moldovancsaba/narimato-sub003/internal/hierarchy"
	"github.com/moldovancsaba/narimato-sub003/internal/logger"
	"github.com/moldovancsaba/narimato-sub003/internal/model"
	"github.com/moldovancsaba/narimato-sub003/internal/play"
	"github.com/moldovancsaba/narimato-sub003/internal/store"

	"go.uber.org/zap"
)

// childPlayStarter is the narrow surface of play.Engine the controller
// needs. Declared locally so tests can fake it without a full Engine.
type childPlayStarter interface {
	StartChildPlay(ctx context.Context, tenantID, parentPlayID, deckTag string, deck []string, depth int) (*model.Play, error)
}

// Controller implements play.CompletionHandler and is wired into the
// engine via Engine.SetCompletionHandler at startup.
//
// It owns the moment a play becomes truly final: a top-level play with
// no parent-eligible cards finalizes on the spot, but one that forks
// into child sub-sessions stays provisional until the last child
// reports back. The controller is the only thing that knows which case
// applies, so it is also the one that publishes the completion event
// consumed by the global ranking aggregator.
type Controller struct {
	plays    store.PlayStore
	cards    store.CardStore
	resolver *hierarchy.Resolver
	starter  childPlayStarter
	bus      events.EventBus
	maxDepth int
}

// New builds a Controller. maxDepth bounds recursive child-of-child
// nesting (default 2). bus may be nil, in which case finalization still
// happens but no downstream listener is notified.
func New(plays store.PlayStore, cards store.CardStore, resolver *hierarchy.Resolver, starter childPlayStarter, bus events.EventBus, maxDepth int) *Controller {
	if maxDepth <= 0 {
		maxDepth = 2
	}
	return &Controller{plays: plays, cards: cards, resolver: resolver, starter: starter, bus: bus, maxDepth: maxDepth}
}

var _ play.CompletionHandler = (*Controller)(nil)

// OnPlayCompleted is invoked whenever a play's own swipe/vote phase just
// produced a personalRanking, whether that play is top-level or itself a
// child sub-session. It decides whether the ranking contains its own
// parent-eligible cards and needs to recurse into grandchildren before
// this play can be considered truly done.
func (c *Controller) OnPlayCompleted(ctx context.Context, p *model.Play) error {
	depth, err := c.currentDepth(ctx, p)
	if err != nil {
		return err
	}

	var parents []string
	if depth < c.maxDepth {
		parents, err = c.parentEligibleIn(ctx, p.TenantID, p.PersonalRanking)
		if err != nil {
			return err
		}
	}

	if len(parents) == 0 {
		return c.completePlay(ctx, p, nil)
	}

	hs := model.NewHierarchicalState()
	hs.Pending = parents
	hs.Depth = depth
	p.HierarchicalState = &hs
	p.HierarchicalPhase = model.PhaseParents
	p.Status = model.PlayStatusWaitingForChildren

	if err := c.plays.Update(ctx, p, p.Version); err != nil {
		return err
	}

	return c.startNextChild(ctx, p.PlayID)
}

// reportChildResult splices a completed child's fully-resolved
// hierarchicalRanking (which already includes any of the child's own
// grandchild splices) into its parent's pending results, then advances
// to the next pending parent card or finalizes the parent.
func (c *Controller) reportChildResult(ctx context.Context, child *model.Play) error {
	parent, err := c.plays.Get(ctx, child.ParentPlayID)
	if err != nil {
		return err
	}
	if parent.HierarchicalState == nil || len(parent.HierarchicalState.Pending) == 0 {
		return &domainerrors.InvariantViolationError{
			PlayID: parent.PlayID, Invariant: "hierarchicalState.pending", Detail: "no pending parent card for completed child",
		}
	}

	completedFor := parent.HierarchicalState.Pending[0]
	parent.HierarchicalState.Results[completedFor] = append([]string(nil), child.HierarchicalRanking...)
	parent.HierarchicalState.Pending = parent.HierarchicalState.Pending[1:]
	parent.HierarchicalState.ActiveChildPlayID = ""

	logger.WithPlay(parent.TenantID, parent.PlayID).Info("child sub-session recorded",
		zap.String("parent_card_id", completedFor), zap.String("child_play_id", child.PlayID))

	if len(parent.HierarchicalState.Pending) == 0 {
		return c.completePlay(ctx, parent, parent.HierarchicalState.Results)
	}

	if err := c.plays.Update(ctx, parent, parent.Version); err != nil {
		return err
	}
	return c.startNextChild(ctx, parent.PlayID)
}

// startNextChild spawns the child sub-session for hierarchicalState's
// current pending[0].
func (c *Controller) startNextChild(ctx context.Context, parentPlayID string) error {
	parent, err := c.plays.Get(ctx, parentPlayID)
	if err != nil {
		return err
	}
	if parent.HierarchicalState == nil || len(parent.HierarchicalState.Pending) == 0 {
		return nil
	}

	parentCardID := parent.HierarchicalState.Pending[0]
	children, err := c.resolver.ResolveChildren(ctx, parent.TenantID, parentCardID)
	if err != nil {
		return err
	}

	deckTag, err := c.cardName(ctx, parentCardID)
	if err != nil {
		return err
	}

	child, err := c.starter.StartChildPlay(ctx, parent.TenantID, parent.PlayID, deckTag, children, parent.HierarchicalState.Depth+1)
	if err != nil {
		return err
	}

	parent.HierarchicalState.ActiveChildPlayID = child.PlayID
	return c.plays.Update(ctx, parent, parent.Version)
}

// completePlay walks personalRanking, appending each card and splicing in
// any recorded child ranking immediately after its parent card, then
// marks the play truly done. A top-level play that reaches here notifies
// any subscriber that a full ranking is available for aggregation; a
// child play instead reports its own completion up to its parent, which
// may itself be waiting on siblings or be a child of a further parent.
func (c *Controller) completePlay(ctx context.Context, p *model.Play, results map[string][]string) error {
	ranking := make([]string, 0, len(p.PersonalRanking))
	for _, cardID := range p.PersonalRanking {
		ranking = append(ranking, cardID)
		if child, ok := results[cardID]; ok {
			ranking = append(ranking, child...)
		}
	}

	p.HierarchicalRanking = ranking
	p.HierarchicalPhase = model.PhaseFinalized
	p.Status = model.PlayStatusCompleted
	if p.CompletedAt == nil {
		now := time.Now()
		p.CompletedAt = &now
	}

	if err := c.plays.Update(ctx, p, p.Version); err != nil {
		return err
	}

	if p.IsChildPlay() {
		return c.reportChildResult(ctx, p)
	}

	if c.bus != nil {
		payload := events.PlayCompletedPayload{
			PlayID:          p.PlayID,
			DeckTag:         p.DeckTag,
			PersonalRanking: p.HierarchicalRanking,
			IsChildPlay:     false,
		}
		_ = c.bus.Publish(ctx, events.NewPlayCompletedEvent(p.TenantID, payload))
	}

	return nil
}

// parentEligibleIn filters ranking down to cards that currently have two
// or more children of their own.
func (c *Controller) parentEligibleIn(ctx context.Context, tenantID string, ranking []string) ([]string, error) {
	var parents []string
	for _, cardID := range ranking {
		eligible, err := c.resolver.IsParentEligible(ctx, tenantID, cardID)
		if err != nil {
			return nil, err
		}
		if eligible {
			parents = append(parents, cardID)
		}
	}
	return parents, nil
}

// currentDepth walks the parentPlayId chain to find how deeply nested p
// already is, bounding the walk at maxDepth+2 hops as a defensive guard
// against a cyclic parent reference slipping in.
func (c *Controller) currentDepth(ctx context.Context, p *model.Play) (int, error) {
	depth := 0
	current := p
	for hops := 0; current.IsChildPlay() && hops < c.maxDepth+2; hops++ {
		parent, err := c.plays.Get(ctx, current.ParentPlayID)
		if err != nil {
			return depth, nil
		}
		depth++
		current = parent
	}
	return depth, nil
}

// cardName returns the card's name, used as the child sub-session's deck tag.
func (c *Controller) cardName(ctx context.Context, cardID string) (string, error) {
	card, err := c.cards.GetByID(ctx, cardID)
	if err != nil {
		return "", err
	}
	return card.Name, nil
}
