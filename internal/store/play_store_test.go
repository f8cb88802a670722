package store

import (
	"context"
	"testing"
	"time"

	domainerrors "github.com/moldovancsaba/narimato-sub003/internal/errors"
	"github.com/moldovancsaba/narimato-sub003/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlay(tenantID, playID string) *model.Play {
	return &model.Play{
		PlayID:    playID,
		TenantID:  tenantID,
		DeckTag:   "#animals",
		Deck:      []string{"c1", "c2"},
		Status:    model.PlayStatusActive,
		State:     model.StateSwiping,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestInMemoryPlayStore_CreateThenGetRoundTrips(t *testing.T) {
	s := NewInMemoryPlayStore()
	p := newPlay("t1", "p1")

	require.NoError(t, s.Create(context.Background(), p))

	got, err := s.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "t1", got.TenantID)
	assert.Equal(t, "#animals", got.DeckTag)
}

func TestInMemoryPlayStore_CreateDuplicateFails(t *testing.T) {
	s := NewInMemoryPlayStore()
	p := newPlay("t1", "p1")
	require.NoError(t, s.Create(context.Background(), p))

	err := s.Create(context.Background(), p)
	require.Error(t, err)
	assert.IsType(t, &domainerrors.DuplicateInputError{}, err)
}

func TestInMemoryPlayStore_GetMissingReturnsNotFound(t *testing.T) {
	s := NewInMemoryPlayStore()
	_, err := s.Get(context.Background(), "ghost")
	require.Error(t, err)
	assert.IsType(t, &domainerrors.NotFoundError{}, err)
}

func TestInMemoryPlayStore_UpdateBumpsVersionOnMatch(t *testing.T) {
	s := NewInMemoryPlayStore()
	p := newPlay("t1", "p1")
	require.NoError(t, s.Create(context.Background(), p))

	p.State = model.StateVoting
	require.NoError(t, s.Update(context.Background(), p, 0))

	got, err := s.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Version)
	assert.Equal(t, model.StateVoting, got.State)
}

func TestInMemoryPlayStore_UpdateRejectsStaleVersion(t *testing.T) {
	s := NewInMemoryPlayStore()
	p := newPlay("t1", "p1")
	require.NoError(t, s.Create(context.Background(), p))
	require.NoError(t, s.Update(context.Background(), p, 0))

	err := s.Update(context.Background(), p, 0)
	require.Error(t, err)
	cmErr, ok := err.(*domainerrors.ConcurrentModificationError)
	require.True(t, ok)
	assert.Equal(t, 0, cmErr.ExpectedVersion)
	assert.Equal(t, 1, cmErr.ActualVersion)
}

func TestInMemoryPlayStore_GetReturnsIndependentCopy(t *testing.T) {
	s := NewInMemoryPlayStore()
	p := newPlay("t1", "p1")
	require.NoError(t, s.Create(context.Background(), p))

	got, err := s.Get(context.Background(), "p1")
	require.NoError(t, err)
	got.Deck[0] = "mutated"

	got2, err := s.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "c1", got2.Deck[0])
}

func TestInMemoryPlayStore_ListCompletedExcludesVotelessAndOtherTenants(t *testing.T) {
	s := NewInMemoryPlayStore()

	completed := newPlay("t1", "p1")
	completed.Status = model.PlayStatusCompleted
	completed.Votes = []model.Vote{{CardA: "a", CardB: "b", Winner: "a"}}
	now := time.Now()
	completed.CompletedAt = &now
	require.NoError(t, s.Create(context.Background(), completed))

	noVotes := newPlay("t1", "p2")
	noVotes.Status = model.PlayStatusCompleted
	require.NoError(t, s.Create(context.Background(), noVotes))

	otherTenant := newPlay("t2", "p3")
	otherTenant.Status = model.PlayStatusCompleted
	otherTenant.Votes = []model.Vote{{CardA: "a", CardB: "b", Winner: "a"}}
	require.NoError(t, s.Create(context.Background(), otherTenant))

	result, err := s.ListCompleted(context.Background(), "t1", 10)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "p1", result[0].PlayID)
}

func TestInMemoryPlayStore_ListExpiredSkipsTerminalStates(t *testing.T) {
	s := NewInMemoryPlayStore()

	expired := newPlay("t1", "p1")
	expired.ExpiresAt = time.Now().Add(-time.Hour)
	require.NoError(t, s.Create(context.Background(), expired))

	alreadyExpired := newPlay("t1", "p2")
	alreadyExpired.ExpiresAt = time.Now().Add(-time.Hour)
	alreadyExpired.Status = model.PlayStatusExpired
	require.NoError(t, s.Create(context.Background(), alreadyExpired))

	result, err := s.ListExpired(context.Background(), time.Now())
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "p1", result[0].PlayID)
}
