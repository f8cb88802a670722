package play

import (
	"context"
	"testing"
	"time"

	"github.com/moldovancsaba/narimato-sub003/internal/events"
	"github.com/moldovancsaba/narimato-sub003/internal/hierarchy"
	"github.com/moldovancsaba/narimato-sub003/internal/model"
	"github.com/moldovancsaba/narimato-sub003/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) (*Engine, store.CardStore, store.PlayStore) {
	t.Helper()
	cards := store.NewInMemoryCardStore()
	plays := store.NewInMemoryPlayStore()
	resolver := hierarchy.New(cards)
	bus := events.NewInMemoryEventBus()
	t.Cleanup(func() { _ = bus.Close() })
	return New(plays, cards, resolver, bus, time.Hour), cards, plays
}

func seedDeck(t *testing.T, cards store.CardStore, tenantID, tag string, ids ...string) {
	t.Helper()
	for _, id := range ids {
		require.NoError(t, cards.Upsert(context.Background(), model.Card{
			CardID: id, TenantID: tenantID, Name: "#" + id, Hashtags: []string{tag}, IsActive: true,
		}))
	}
}

// playToCompletion swipes right through every card in deck order,
// resolving any resulting votes by always picking the card being
// positioned (CurrentPair.CardA) as the winner, until the play completes.
func playToCompletion(t *testing.T, e *Engine, playID string) *model.Play {
	t.Helper()
	for i := 0; i < 100; i++ {
		p, err := e.GetPlay(context.Background(), playID)
		require.NoError(t, err)
		if p.Status == model.PlayStatusCompleted {
			return p
		}
		if p.State == model.StateVoting {
			require.NotNil(t, p.CurrentPair)
			_, err := e.Vote(context.Background(), playID, p.CurrentPair.CardA, p.CurrentPair.CardB, p.CurrentPair.CardA, nil)
			require.NoError(t, err)
			continue
		}
		next, ok := p.NextUnswiped()
		require.True(t, ok)
		_, err = e.Swipe(context.Background(), playID, next, model.DirectionRight, nil)
		require.NoError(t, err)
	}
	t.Fatal("play did not complete within iteration budget")
	return nil
}

func TestStartPlay_ShufflesDeckAndReturnsFirstCard(t *testing.T) {
	e, cards, _ := newTestEngine(t)
	seedDeck(t, cards, "t1", "#animals", "c1", "c2", "c3")

	res, err := e.StartPlay(context.Background(), "t1", "#animals", "s1")
	require.NoError(t, err)
	assert.Equal(t, 3, res.TotalCards)
	assert.NotEmpty(t, res.CurrentCardID)
	assert.False(t, res.IsHierarchical)
}

func TestSwipeThenVote_CompletesAndProducesFullRanking(t *testing.T) {
	e, cards, _ := newTestEngine(t)
	seedDeck(t, cards, "t1", "#animals", "c1", "c2", "c3", "c4")

	start, err := e.StartPlay(context.Background(), "t1", "#animals", "s1")
	require.NoError(t, err)

	final := playToCompletion(t, e, start.PlayID)
	assert.Len(t, final.PersonalRanking, 4)
	assert.ElementsMatch(t, final.Deck, final.PersonalRanking)
}

func TestSwipe_LeftDoesNotEnterRanking(t *testing.T) {
	e, cards, _ := newTestEngine(t)
	seedDeck(t, cards, "t1", "#animals", "c1", "c2")

	start, err := e.StartPlay(context.Background(), "t1", "#animals", "s1")
	require.NoError(t, err)

	p, err := e.GetPlay(context.Background(), start.PlayID)
	require.NoError(t, err)
	first, _ := p.NextUnswiped()

	res, err := e.Swipe(context.Background(), start.PlayID, first, model.DirectionLeft, nil)
	require.NoError(t, err)
	assert.False(t, res.Completed)

	p, err = e.GetPlay(context.Background(), start.PlayID)
	require.NoError(t, err)
	assert.Empty(t, p.PersonalRanking)
}

func TestSwipe_ReplayOfIdenticalSwipeIsIdempotent(t *testing.T) {
	e, cards, _ := newTestEngine(t)
	seedDeck(t, cards, "t1", "#animals", "c1", "c2")

	start, err := e.StartPlay(context.Background(), "t1", "#animals", "s1")
	require.NoError(t, err)
	p, err := e.GetPlay(context.Background(), start.PlayID)
	require.NoError(t, err)
	first, _ := p.NextUnswiped()

	res1, err := e.Swipe(context.Background(), start.PlayID, first, model.DirectionRight, nil)
	require.NoError(t, err)
	assert.False(t, res1.AlreadyApplied)

	res2, err := e.Swipe(context.Background(), start.PlayID, first, model.DirectionRight, nil)
	require.NoError(t, err)
	assert.True(t, res2.AlreadyApplied)
	assert.Equal(t, res1.NewVersion, res2.NewVersion)
}

func TestSwipe_StaleVersionRejected(t *testing.T) {
	e, cards, _ := newTestEngine(t)
	seedDeck(t, cards, "t1", "#animals", "c1", "c2")

	start, err := e.StartPlay(context.Background(), "t1", "#animals", "s1")
	require.NoError(t, err)
	p, err := e.GetPlay(context.Background(), start.PlayID)
	require.NoError(t, err)
	first, _ := p.NextUnswiped()

	stale := 5
	_, err = e.Swipe(context.Background(), start.PlayID, first, model.DirectionRight, &stale)
	require.Error(t, err)
}

func TestVote_ReplayWithSameWinnerIsIdempotent(t *testing.T) {
	e, cards, _ := newTestEngine(t)
	seedDeck(t, cards, "t1", "#animals", "c1", "c2", "c3")

	start, err := e.StartPlay(context.Background(), "t1", "#animals", "s1")
	require.NoError(t, err)

	var pair *model.Pair
	for i := 0; i < 10; i++ {
		p, err := e.GetPlay(context.Background(), start.PlayID)
		require.NoError(t, err)
		if p.State == model.StateVoting {
			pair = p.CurrentPair
			break
		}
		next, ok := p.NextUnswiped()
		require.True(t, ok)
		_, err = e.Swipe(context.Background(), start.PlayID, next, model.DirectionRight, nil)
		require.NoError(t, err)
	}
	require.NotNil(t, pair)

	res1, err := e.Vote(context.Background(), start.PlayID, pair.CardA, pair.CardB, pair.CardA, nil)
	require.NoError(t, err)

	res2, err := e.Vote(context.Background(), start.PlayID, pair.CardA, pair.CardB, pair.CardA, nil)
	require.NoError(t, err)
	assert.True(t, res2.AlreadyApplied)
	assert.Equal(t, res1.NewVersion, res2.NewVersion)
}

func TestVote_ConflictingWinnerForSamePairRejected(t *testing.T) {
	e, cards, _ := newTestEngine(t)
	seedDeck(t, cards, "t1", "#animals", "c1", "c2", "c3")

	start, err := e.StartPlay(context.Background(), "t1", "#animals", "s1")
	require.NoError(t, err)

	var pair *model.Pair
	for i := 0; i < 10; i++ {
		p, err := e.GetPlay(context.Background(), start.PlayID)
		require.NoError(t, err)
		if p.State == model.StateVoting {
			pair = p.CurrentPair
			break
		}
		next, ok := p.NextUnswiped()
		require.True(t, ok)
		_, err = e.Swipe(context.Background(), start.PlayID, next, model.DirectionRight, nil)
		require.NoError(t, err)
	}
	require.NotNil(t, pair)

	_, err = e.Vote(context.Background(), start.PlayID, pair.CardA, pair.CardB, pair.CardA, nil)
	require.NoError(t, err)

	_, err = e.Vote(context.Background(), start.PlayID, pair.CardA, pair.CardB, pair.CardB, nil)
	require.Error(t, err)
}
