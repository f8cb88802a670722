// Package elo implements a chronological batch replay of every vote
// across a tenant's recently completed plays, producing a deterministic,
// reproducible leaderboard.
package elo

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	domainerrors "github.com/moldovancsaba/narimato-sub003/internal/errors"
	"github.com/moldovancsaba/narimato-sub003/internal/logger"
	"github.com/moldovancsaba/narimato-sub003/internal/model"
	"github.com/moldovancsaba/narimato-sub003/internal/store"

	"go.uber.org/zap"
)

const startingRating float64 = model.StartingEloRating

// Summary is RecomputeGlobal's response contract.
type Summary struct {
	TenantID       string
	PlaysScanned   int
	VotesReplayed  int
	VotesDropped   int
	CardsRated     int
	DurationMillis int64
}

// Aggregator recomputes a tenant's global leaderboard from scratch.
type Aggregator struct {
	plays    store.PlayStore
	cards    store.CardStore
	rankings store.GlobalRankingStore
	window   int
	k        float64

	mu      sync.Mutex
	running map[string]bool
}

// New builds an Aggregator. window is the bounded number of most
// recently completed plays replayed per run (default 500); k is the ELO
// K-factor (default 32).
func New(plays store.PlayStore, cards store.CardStore, rankings store.GlobalRankingStore, window int, k int) *Aggregator {
	if window <= 0 {
		window = 500
	}
	if k <= 0 {
		k = 32
	}
	return &Aggregator{
		plays:    plays,
		cards:    cards,
		rankings: rankings,
		window:   window,
		k:        float64(k),
		running:  make(map[string]bool),
	}
}

type voteRef struct {
	play      *model.Play
	voteIndex int
	vote      model.Vote
}

// RecomputeGlobal replays every vote across a tenant's recently
// completed plays in chronological order and rewrites its leaderboard.
// At most one run executes concurrently per tenant; a second concurrent
// call returns AlreadyRunningError rather than blocking.
func (a *Aggregator) RecomputeGlobal(ctx context.Context, tenantID string) (*Summary, error) {
	if !a.tryLock(tenantID) {
		return nil, &domainerrors.AlreadyRunningError{TenantID: tenantID}
	}
	defer a.unlock(tenantID)

	start := time.Now()

	plays, err := a.plays.ListCompleted(ctx, tenantID, a.window)
	if err != nil {
		return nil, err
	}

	votes, dropped, err := a.collectVotes(ctx, tenantID, plays)
	if err != nil {
		return nil, err
	}

	ratings, wins, losses, games, err := a.seed(ctx, tenantID, votes)
	if err != nil {
		return nil, err
	}

	sortChronological(votes)

	for _, vr := range votes {
		applyVote(ratings, wins, losses, games, vr.vote, a.k)
	}

	entries := make([]model.GlobalRankingEntry, 0, len(ratings))
	now := time.Now()
	for cardID, rating := range ratings {
		g := games[cardID]
		winRate := 0.0
		if g > 0 {
			winRate = roundTo(float64(wins[cardID])/float64(g), 3)
		}
		entries = append(entries, model.GlobalRankingEntry{
			TenantID:    tenantID,
			CardID:      cardID,
			EloRating:   int(rating),
			Wins:        wins[cardID],
			Losses:      losses[cardID],
			TotalGames:  g,
			WinRate:     winRate,
			LastUpdated: now,
		})
	}

	if err := a.rankings.BulkUpsert(ctx, entries); err != nil {
		return nil, err
	}

	summary := &Summary{
		TenantID:       tenantID,
		PlaysScanned:   len(plays),
		VotesReplayed:  len(votes),
		VotesDropped:   dropped,
		CardsRated:     len(entries),
		DurationMillis: time.Since(start).Milliseconds(),
	}

	logger.Info("global recompute finished",
		zap.String("tenant_id", tenantID),
		zap.Int("plays_scanned", summary.PlaysScanned),
		zap.Int("votes_replayed", summary.VotesReplayed),
		zap.Int("votes_dropped", summary.VotesDropped))

	return summary, nil
}

func (a *Aggregator) tryLock(tenantID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.running[tenantID] {
		return false
	}
	a.running[tenantID] = true
	return true
}

func (a *Aggregator) unlock(tenantID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.running, tenantID)
}

// seed loads the current GlobalRanking table as the starting point for
// this run, defaulting unseen cards to the starting rating. It seeds
// every currently-active card plus every card referenced by a collected
// vote — a vote against a since-soft-deleted card still needs its prior
// persisted rating (or the starting rating) rather than the Go
// zero-value a missing map entry would otherwise feed into applyVote.
func (a *Aggregator) seed(ctx context.Context, tenantID string, votes []voteRef) (ratings map[string]float64, wins, losses, games map[string]int, err error) {
	ratings = make(map[string]float64)
	wins = make(map[string]int)
	losses = make(map[string]int)
	games = make(map[string]int)

	cards, err := a.cards.ListActiveByTenant(ctx, tenantID)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	needed := make(map[string]struct{}, len(cards)+len(votes)*2)
	for _, card := range cards {
		needed[card.CardID] = struct{}{}
	}
	for _, vr := range votes {
		needed[vr.vote.CardA] = struct{}{}
		needed[vr.vote.CardB] = struct{}{}
	}

	for cardID := range needed {
		entry, found, err := a.rankings.Get(ctx, tenantID, cardID)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		if found {
			ratings[cardID] = float64(entry.EloRating)
			wins[cardID] = entry.Wins
			losses[cardID] = entry.Losses
			games[cardID] = entry.TotalGames
		} else {
			ratings[cardID] = startingRating
		}
	}

	return ratings, wins, losses, games, nil
}

// collectVotes gathers every vote from plays, dropping malformed ones or
// ones referencing a card that no longer exists (counted, not erroring
// the run).
func (a *Aggregator) collectVotes(ctx context.Context, tenantID string, plays []*model.Play) ([]voteRef, int, error) {
	var refs []voteRef
	dropped := 0

	for _, p := range plays {
		for i, v := range p.Votes {
			if !v.Valid() {
				dropped++
				continue
			}
			if _, err := a.cards.GetByID(ctx, v.CardA); err != nil {
				dropped++
				continue
			}
			if _, err := a.cards.GetByID(ctx, v.CardB); err != nil {
				dropped++
				continue
			}
			refs = append(refs, voteRef{play: p, voteIndex: i, vote: v})
		}
	}

	return refs, dropped, nil
}

// sortChronological stable-sorts by (timestamp, playId, voteIndex) so
// the replay is deterministic even under equal timestamps.
func sortChronological(votes []voteRef) {
	sort.SliceStable(votes, func(i, j int) bool {
		a, b := votes[i], votes[j]
		if !a.vote.Timestamp.Equal(b.vote.Timestamp) {
			return a.vote.Timestamp.Before(b.vote.Timestamp)
		}
		if a.play.PlayID != b.play.PlayID {
			return a.play.PlayID < b.play.PlayID
		}
		return a.voteIndex < b.voteIndex
	})
}

// applyVote applies the standard ELO update for one vote, mutating
// ratings/wins/losses/games in place.
func applyVote(ratings map[string]float64, wins, losses, games map[string]int, v model.Vote, k float64) {
	ra, rb := ratings[v.CardA], ratings[v.CardB]

	ea := 1.0 / (1.0 + math.Pow(10, (rb-ra)/400.0))
	eb := 1.0 - ea

	sa := 0.0
	if v.Winner == v.CardA {
		sa = 1.0
	}
	sb := 1.0 - sa

	ratings[v.CardA] = roundHalfToEven(ra + k*(sa-ea))
	ratings[v.CardB] = roundHalfToEven(rb + k*(sb-eb))

	games[v.CardA]++
	games[v.CardB]++
	if v.Winner == v.CardA {
		wins[v.CardA]++
		losses[v.CardB]++
	} else {
		wins[v.CardB]++
		losses[v.CardA]++
	}
}

// roundHalfToEven rounds to the nearest integer, breaking exact .5 ties
// toward the even neighbor so repeated recomputes don't drift.
func roundHalfToEven(v float64) float64 {
	return math.RoundToEven(v)
}

func roundTo(v float64, places int) float64 {
	mult := math.Pow(10, float64(places))
	return math.RoundToEven(v*mult) / mult
}
