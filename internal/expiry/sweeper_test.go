package expiry

import (
	"context"
	"testing"
	"time"

	"github.com/moldovancsaba/narimato-sub003/internal/model"
	"github.com/moldovancsaba/narimato-sub003/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExpiringPlay(playID string, expiresAt time.Time) *model.Play {
	return &model.Play{
		PlayID:          playID,
		TenantID:        "t1",
		DeckTag:         "#animals",
		Deck:            []string{"c1", "c2"},
		Status:          model.PlayStatusActive,
		State:           model.StateSwiping,
		CreatedAt:       time.Now().Add(-time.Hour),
		ExpiresAt:       expiresAt,
		PersonalRanking: []string{},
	}
}

func TestSweeper_DeletesExpiredPlays(t *testing.T) {
	plays := store.NewInMemoryPlayStore()
	require.NoError(t, plays.Create(context.Background(), newExpiringPlay("expired", time.Now().Add(-time.Minute))))
	require.NoError(t, plays.Create(context.Background(), newExpiringPlay("fresh", time.Now().Add(time.Hour))))

	s := NewSweeper(plays, time.Hour)
	deleted, err := s.SweepOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	_, err = plays.Get(context.Background(), "expired")
	assert.Error(t, err)

	fresh, err := plays.Get(context.Background(), "fresh")
	require.NoError(t, err)
	assert.Equal(t, "fresh", fresh.PlayID)
}

func TestSweeper_NoExpiredPlaysIsNoOp(t *testing.T) {
	plays := store.NewInMemoryPlayStore()
	require.NoError(t, plays.Create(context.Background(), newExpiringPlay("fresh", time.Now().Add(time.Hour))))

	s := NewSweeper(plays, time.Hour)
	deleted, err := s.SweepOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, deleted)

	fresh, err := plays.Get(context.Background(), "fresh")
	require.NoError(t, err)
	assert.Equal(t, "fresh", fresh.PlayID)
}

func TestSweeper_RunStopsOnStopSignal(t *testing.T) {
	plays := store.NewInMemoryPlayStore()
	s := NewSweeper(plays, time.Millisecond)

	done := make(chan struct{})
	go func() {
		s.Run(context.Background())
		close(done)
	}()

	s.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Stop")
	}
}

func TestSweeper_RunStopsOnContextCancel(t *testing.T) {
	plays := store.NewInMemoryPlayStore()
	s := NewSweeper(plays, time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after context cancel")
	}
}
