package play

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/moldovancsaba/narimato-sub003/internal/hierarchy"
	"github.com/moldovancsaba/narimato-sub003/internal/logger"
	"github.com/moldovancsaba/narimato-sub003/internal/model"

	"go.uber.org/zap"
)

// StartPlay resolves a tenant's deck for deckTag, shuffles it, and
// creates a fresh top-level play.
func (e *Engine) StartPlay(ctx context.Context, tenantID, deckTag, sessionID string) (*StartPlayResult, error) {
	cardIDs, parentEligible, err := e.resolver.ResolveDeck(ctx, tenantID, deckTag)
	if err != nil {
		return nil, err
	}

	deck := hierarchy.Shuffle(cardIDs)
	deckUUID := hierarchy.DeckUUID(deckTag, cardIDs)

	p := e.newPlay(tenantID, sessionID, deckUUID, deckTag, deck, "", 0)

	if err := e.plays.Create(ctx, p); err != nil {
		return nil, err
	}

	logger.WithPlay(tenantID, p.PlayID).Info("play started",
		zap.String("deck_tag", deckTag), zap.Int("deck_size", len(deck)),
		zap.Bool("is_hierarchical", len(parentEligible) > 0))

	return &StartPlayResult{
		PlayID:         p.PlayID,
		CurrentCardID:  deck[0],
		TotalCards:     len(deck),
		IsHierarchical: len(parentEligible) > 0,
	}, nil
}

// StartChildPlay creates a child sub-session for a parent card's already
// -resolved set of children, bypassing deck resolution entirely.
// parentPlayID links the child back to its parent; depth is the nesting
// level this child runs at.
func (e *Engine) StartChildPlay(ctx context.Context, tenantID, parentPlayID, deckTag string, deck []string, depth int) (*model.Play, error) {
	deck = hierarchy.Shuffle(deck)
	deckUUID := hierarchy.DeckUUID(deckTag, deck)

	p := e.newPlay(tenantID, "", deckUUID, deckTag, deck, parentPlayID, depth)
	p.HierarchicalPhase = model.PhaseNone

	if err := e.plays.Create(ctx, p); err != nil {
		return nil, err
	}

	logger.WithPlay(tenantID, p.PlayID).Info("child play started",
		zap.String("parent_play_id", parentPlayID), zap.String("deck_tag", deckTag),
		zap.Int("deck_size", len(deck)), zap.Int("depth", depth))

	return p, nil
}

func (e *Engine) newPlay(tenantID, sessionID string, deckUUID uuid.UUID, deckTag string, deck []string, parentPlayID string, depth int) *model.Play {
	now := time.Now()
	ttl := e.playTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &model.Play{
		PlayID:            uuid.NewString(),
		TenantID:          tenantID,
		SessionID:         sessionID,
		DeckUUID:          deckUUID.String(),
		DeckTag:           deckTag,
		Deck:              deck,
		Status:            model.PlayStatusActive,
		State:             model.StateSwiping,
		Version:           0,
		CreatedAt:         now,
		LastActivity:      now,
		ExpiresAt:         now.Add(ttl),
		PersonalRanking:   []string{},
		HierarchicalPhase: model.PhaseNone,
		ParentPlayID:      parentPlayID,
	}
}
