// Package hierarchy turns a tenant's flat card table into the deck and
// parent/child relationships the rest of the engine consumes, purely
// from hashtag metadata.
package hierarchy

import (
	"context"

	domainerrors "github.com/moldovancsaba/narimato-sub003/internal/errors"
	"github.com/moldovancsaba/narimato-sub003/internal/model"
)

// CardReader is the narrow read surface the resolver needs from
// persistence. internal/store's card store satisfies it.
type CardReader interface {
	ListActiveByTenant(ctx context.Context, tenantID string) ([]model.Card, error)
}

// Resolver holds no state of its own beyond a CardReader; all
// resolution is computed fresh from the current card table — decks are
// never persisted.
type Resolver struct {
	cards CardReader
}

// New builds a Resolver over the given card reader.
func New(cards CardReader) *Resolver {
	return &Resolver{cards: cards}
}

// ResolveDeck returns the active cards tagged with deckTag, plus the
// subset of those that are parent-eligible (have >=2 active children of
// their own). It fails with DeckTooSmallError if fewer than two cards
// resolve, and TenantUnknownError if the tenant has no cards at all.
func (r *Resolver) ResolveDeck(ctx context.Context, tenantID, deckTag string) (cardIDs []string, parentEligibleIDs []string, err error) {
	all, err := r.cards.ListActiveByTenant(ctx, tenantID)
	if err != nil {
		return nil, nil, err
	}
	if len(all) == 0 {
		return nil, nil, &domainerrors.TenantUnknownError{TenantID: tenantID}
	}

	byName := indexByName(all)

	var deck []model.Card
	for _, c := range all {
		if c.HasHashtag(deckTag) {
			deck = append(deck, c)
		}
	}

	if len(deck) < 2 {
		return nil, nil, &domainerrors.DeckTooSmallError{TenantID: tenantID, DeckTag: deckTag, Size: len(deck)}
	}

	childCounts := countChildren(all, byName)

	cardIDs = make([]string, 0, len(deck))
	for _, c := range deck {
		cardIDs = append(cardIDs, c.CardID)
		if childCounts[c.Name] >= 2 {
			parentEligibleIDs = append(parentEligibleIDs, c.CardID)
		}
	}

	return cardIDs, parentEligibleIDs, nil
}

// ResolveChildren returns the active cards whose hashtags reference
// parentCardID's name. It returns an empty slice (not an error) if the
// parent has no children — a missing relationship is a normal outcome,
// not a failure.
func (r *Resolver) ResolveChildren(ctx context.Context, tenantID, parentCardID string) ([]string, error) {
	all, err := r.cards.ListActiveByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	var parentName string
	for _, c := range all {
		if c.CardID == parentCardID {
			parentName = c.Name
			break
		}
	}
	if parentName == "" {
		return []string{}, nil
	}

	var children []string
	for _, c := range all {
		if c.CardID == parentCardID {
			continue
		}
		if c.HasHashtag(parentName) {
			children = append(children, c.CardID)
		}
	}
	return children, nil
}

// countChildren counts, per card name, how many active cards reference it
// as a parent hashtag. The parent/child graph is treated as a DAG; a
// cycle slipping in through external writes cannot inflate a count
// beyond the number of distinct cards, so no recursion-depth guard is
// needed here — ResolveChildren callers (the hierarchical controller)
// are the ones that recurse, and they carry the configured depth cap.
func countChildren(all []model.Card, byName map[string]model.Card) map[string]int {
	counts := make(map[string]int)
	for _, c := range all {
		for _, tag := range c.Hashtags {
			if tag == c.Name {
				continue // a card cannot be its own parent
			}
			if _, isCard := byName[tag]; isCard {
				counts[tag]++
			}
		}
	}
	return counts
}

// IsParentEligible reports whether cardID currently has >=2 active
// children. Used by the hierarchical controller at play-completion time,
// since a card's eligibility can shift between deck resolution and
// completion if the card table changes mid-play.
func (r *Resolver) IsParentEligible(ctx context.Context, tenantID, cardID string) (bool, error) {
	children, err := r.ResolveChildren(ctx, tenantID, cardID)
	if err != nil {
		return false, err
	}
	return len(children) >= 2, nil
}

func indexByName(all []model.Card) map[string]model.Card {
	m := make(map[string]model.Card, len(all))
	for _, c := range all {
		m[c.Name] = c
	}
	return m
}
